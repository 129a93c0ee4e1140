package shapeadapt

import (
	"testing"

	"golang.org/x/image/math/fixed"

	"github.com/vincentisambart/glyphknit/fontset"
	"github.com/vincentisambart/glyphknit/runs"
)

func TestToFixed(t *testing.T) {
	if got, want := toFixed(12), fixed.I(12); got != want {
		t.Errorf("toFixed(12) = %v, want %v", got, want)
	}
	if got, want := toFixed(0.5), fixed.Int26_6(32); got != want {
		t.Errorf("toFixed(0.5) = %v, want %v", got, want)
	}
}

func TestShapeRunEmptyRange(t *testing.T) {
	var s Shaper
	text := []rune("hello")
	run := runs.TextRun{Start: 2, End: 2}
	shaped, err := s.ShapeRun(text, run)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shaped.Glyphs) != 0 {
		t.Errorf("expected no glyphs for empty run, got %v", shaped.Glyphs)
	}
}

func TestShapeRunRejectsUnresolvedFont(t *testing.T) {
	var s Shaper
	text := []rune("hello")
	run := runs.TextRun{Start: 0, End: 5, Font: fontset.Descriptor{}}
	if _, err := s.ShapeRun(text, run); err == nil {
		t.Error("expected an error for a run with no resolved font face")
	}
}
