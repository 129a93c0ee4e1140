package runs

import (
	"testing"

	"github.com/vincentisambart/glyphknit/fontset"
	"github.com/vincentisambart/glyphknit/langres"
	"github.com/vincentisambart/glyphknit/textblock"
)

func TestSplitRunsEmptyParagraph(t *testing.T) {
	out := SplitRuns(nil, nil, 3, 3)
	if len(out) != 1 || out[0].Start != 3 || out[0].End != 3 {
		t.Fatalf("expected single empty run, got %v", out)
	}
}

func TestSplitRunsSimpleLatinLine(t *testing.T) {
	text := []rune("hello world")
	helvetica := fontset.Descriptor{PostScriptName: "Helvetica"}
	attrRuns := []textblock.AttributeRun{
		{Start: 0, End: len(text), Font: helvetica, FontSize: 12, Language: langres.ParseBCP47("en")},
	}
	out := SplitRuns(text, attrRuns, 0, len(text))
	if len(out) == 0 {
		t.Fatal("expected at least one run")
	}
	// Runs must partition [0, len(text)) without gaps or overlap.
	prevEnd := 0
	for _, r := range out {
		if r.Start != prevEnd {
			t.Fatalf("runs not contiguous: %v", out)
		}
		prevEnd = r.End
	}
	if prevEnd != len(text) {
		t.Fatalf("runs do not cover full paragraph: last end %d, want %d", prevEnd, len(text))
	}
}

func TestSplitRunsByFontChange(t *testing.T) {
	text := []rune("abcdef")
	helvetica := fontset.Descriptor{PostScriptName: "Helvetica"}
	times := fontset.Descriptor{PostScriptName: "Times"}
	attrRuns := []textblock.AttributeRun{
		{Start: 0, End: 3, Font: helvetica, FontSize: 12, Language: langres.Undefined},
		{Start: 3, End: 6, Font: times, FontSize: 12, Language: langres.Undefined},
	}
	out := splitByFont([]TextRun{{Start: 0, End: 6}}, attrRuns, 0, 6)
	if len(out) != 2 {
		t.Fatalf("expected 2 runs, got %d: %v", len(out), out)
	}
	if !out[0].Font.Equal(helvetica) || out[0].End != 3 {
		t.Errorf("unexpected first run: %v", out[0])
	}
	if !out[1].Font.Equal(times) || out[1].Start != 3 {
		t.Errorf("unexpected second run: %v", out[1])
	}
}

func TestSplitByForcedLineBreaksMarksEndOfLine(t *testing.T) {
	text := []rune("abc def") // LS in the middle
	out := splitByForcedLineBreaks([]TextRun{{Start: 0, End: len(text)}}, text, 0, len(text))
	if len(out) != 2 {
		t.Fatalf("expected 2 runs (separator discarded), got %d: %v", len(out), out)
	}
	if out[0].End != 3 || !out[0].EndOfLine {
		t.Errorf("expected first run [0,3) with EndOfLine=true, got %v", out[0])
	}
	if out[1].Start != 4 || out[1].End != len(text) {
		t.Errorf("expected second run [4,%d), got %v", len(text), out[1])
	}
}
