package output

import (
	"testing"

	"golang.org/x/image/math/fixed"

	"github.com/vincentisambart/glyphknit/linefit"
)

func TestAppendParagraphStacksLines(t *testing.T) {
	var d Document
	para := []linefit.TypesetLine{
		{Ascent: fixed.I(10), Descent: fixed.I(2), Leading: fixed.I(1)},
		{Ascent: fixed.I(8), Descent: fixed.I(2), Leading: fixed.I(1)},
	}
	d.AppendParagraph(para)
	if len(d.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(d.Lines))
	}
	if d.Lines[0].Baseline != fixed.I(10) {
		t.Errorf("first baseline = %v, want %v", d.Lines[0].Baseline, fixed.I(10))
	}
	want := fixed.I(10) + fixed.I(2) + fixed.I(1) + fixed.I(8)
	if d.Lines[1].Baseline != want {
		t.Errorf("second baseline = %v, want %v", d.Lines[1].Baseline, want)
	}
}

func TestAppendParagraphAcrossParagraphsContinuesStacking(t *testing.T) {
	var d Document
	d.AppendParagraph([]linefit.TypesetLine{{Ascent: fixed.I(10), Descent: fixed.I(2), Leading: fixed.I(0)}})
	firstBaseline := d.Lines[0].Baseline
	d.AppendParagraph([]linefit.TypesetLine{{Ascent: fixed.I(10), Descent: fixed.I(2), Leading: fixed.I(0)}})
	if len(d.Lines) != 2 {
		t.Fatalf("expected 2 lines total, got %d", len(d.Lines))
	}
	if d.Lines[1].Baseline <= firstBaseline {
		t.Errorf("second paragraph's line should be positioned after the first: %v vs %v", d.Lines[1].Baseline, firstBaseline)
	}
}

func TestTotalHeightEmptyDocument(t *testing.T) {
	var d Document
	if h := d.TotalHeight(); h != 0 {
		t.Errorf("expected 0 height for empty document, got %v", h)
	}
}
