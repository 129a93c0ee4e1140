// Package output is the Output Assembler (spec.md §4.7): it appends a
// paragraph's finished Typeset Lines to a document's growing line
// list. The reorder/merge work itself happens inside the Line Fitter
// (spec.md §4.6 places it there); this package's job is just the
// paragraph-to-document append and the line's cumulative y-position
// bookkeeping a renderer needs to place baselines.
//
// Grounded on original_source/src/typesetter.cc's paragraph-append
// step and text/gotext.go's calculateYOffsets (teacher), generalized
// from a single call site to one invoked once per paragraph.
package output

import (
	"golang.org/x/image/math/fixed"

	"github.com/vincentisambart/glyphknit/linefit"
)

// Document accumulates the Typeset Lines of every paragraph of a text
// block, in paragraph order.
type Document struct {
	Lines []Line
}

// Line is a linefit.TypesetLine plus its cumulative baseline position
// within the document, computed as each paragraph is appended.
type Line struct {
	linefit.TypesetLine
	Baseline fixed.Int26_6
}

// AppendParagraph appends paragraph's lines (already fitted by
// linefit.FitParagraph) to the document, computing each new line's
// baseline from the running total of prior lines' descent+leading and
// the new line's ascent.
func (d *Document) AppendParagraph(paragraph []linefit.TypesetLine) {
	y := d.lastBaseline()
	prevDescent, prevLeading := d.lastDescentAndLeading()
	for _, l := range paragraph {
		y += prevDescent + prevLeading + l.Ascent
		d.Lines = append(d.Lines, Line{TypesetLine: l, Baseline: y})
		prevDescent, prevLeading = l.Descent, l.Leading
	}
}

func (d *Document) lastBaseline() fixed.Int26_6 {
	if len(d.Lines) == 0 {
		return 0
	}
	return d.Lines[len(d.Lines)-1].Baseline
}

func (d *Document) lastDescentAndLeading() (fixed.Int26_6, fixed.Int26_6) {
	if len(d.Lines) == 0 {
		return 0, 0
	}
	last := d.Lines[len(d.Lines)-1]
	return last.Descent, last.Leading
}

// TotalHeight returns the distance from the document's top to the
// bottom of its last line's descent (spec.md §4.7). DrawToContext does
// not call it; it computes its own translation from the typeset lines.
func (d *Document) TotalHeight() fixed.Int26_6 {
	if len(d.Lines) == 0 {
		return 0
	}
	last := d.Lines[len(d.Lines)-1]
	return last.Baseline + last.Descent
}
