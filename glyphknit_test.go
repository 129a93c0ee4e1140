package glyphknit

import (
	"testing"

	"golang.org/x/image/math/fixed"

	"github.com/vincentisambart/glyphknit/fontset"
	"github.com/vincentisambart/glyphknit/textblock"
)

func TestPositionGlyphsEmptyTextYieldsNoLines(t *testing.T) {
	ts := New(fontset.NewStaticRegistry())
	block := textblock.New(fontset.Descriptor{}, 12)
	lines, err := ts.PositionGlyphs(block, fixed.I(100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("expected 0 lines for empty text, got %d", len(lines))
	}
}

type fakeRenderContext struct {
	translations [][2]fixed.Int26_6
}

func (f *fakeRenderContext) Translate(dx, dy fixed.Int26_6) {
	f.translations = append(f.translations, [2]fixed.Int26_6{dx, dy})
}

func (f *fakeRenderContext) DrawGlyphRun(fontset.Descriptor, float64, []uint16, []fixed.Point26_6) {}

func TestDrawToContextEmptyTextDoesNotTranslate(t *testing.T) {
	ts := New(fontset.NewStaticRegistry())
	block := textblock.New(fontset.Descriptor{}, 12)
	ctx := &fakeRenderContext{}
	if err := ts.DrawToContext(block, fixed.I(100), ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ctx.translations) != 0 {
		t.Errorf("expected no translations for empty text, got %v", ctx.translations)
	}
}
