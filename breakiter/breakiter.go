// Package breakiter adapts github.com/rivo/uniseg to the
// grapheme-cluster and line-break boundary interfaces the Line Fitter
// consumes (spec.md §4.6). It stands in for the Unicode break-iterator
// service spec.md §1 treats as an external collaborator (originally
// ICU's ubrk_* API in original_source/src/typesetter.cc).
package breakiter

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// boundarySet is a sorted, ascending list of rune-index boundaries
// covering a paragraph's text, always starting at 0 and ending at
// len(text). Both the grapheme and line iterators below are backed by
// one of these, built once per paragraph.
type boundarySet []int

func (b boundarySet) IsBoundary(offset int) bool {
	i := sortSearch(b, offset)
	return i < len(b) && b[i] == offset
}

// Preceding returns the boundary at or before offset-1: the previous
// boundary strictly less than offset. It mirrors ICU's
// ubrk_preceding, used by the Line Fitter's PreviousBreak step
// (spec.md §4.6 item 5).
func (b boundarySet) Preceding(offset int) int {
	i := sortSearch(b, offset)
	if i > 0 && (i == len(b) || b[i] >= offset) {
		i--
	}
	for i >= 0 && b[i] >= offset {
		i--
	}
	if i < 0 {
		return -1
	}
	return b[i]
}

// Count returns the number of segments (grapheme clusters, when b is a
// grapheme boundary set) fully contained in [start, end], i.e. the
// number of consecutive boundary pairs between the two. Both start and
// end must themselves be boundaries.
func (b boundarySet) Count(start, end int) int {
	si := sortSearch(b, start)
	ei := sortSearch(b, end)
	if ei-si < 0 {
		return 0
	}
	return ei - si
}

func sortSearch(b boundarySet, v int) int {
	i, j := 0, len(b)
	for i < j {
		h := (i + j) / 2
		if b[h] < v {
			i = h + 1
		} else {
			j = h
		}
	}
	return i
}

// GraphemeIterator exposes grapheme-cluster boundaries over one
// paragraph's text.
type GraphemeIterator struct {
	bounds boundarySet
}

// NewGraphemeIterator segments text (a full paragraph, in rune index
// space) into grapheme clusters per UAX #29.
func NewGraphemeIterator(text []rune) *GraphemeIterator {
	return &GraphemeIterator{bounds: graphemeBoundaries(text)}
}

func (g *GraphemeIterator) IsBoundary(offset int) bool { return g.bounds.IsBoundary(offset) }
func (g *GraphemeIterator) Preceding(offset int) int    { return g.bounds.Preceding(offset) }
func (g *GraphemeIterator) Count(start, end int) int    { return g.bounds.Count(start, end) }

// LineIterator exposes line-break opportunities (UAX #14) over one
// paragraph's text, both mandatory and optional.
type LineIterator struct {
	bounds boundarySet
}

// NewLineIterator segments text (a full paragraph, in rune index
// space) at every allowed line-break position.
func NewLineIterator(text []rune) *LineIterator {
	return &LineIterator{bounds: lineBoundaries(text)}
}

func (l *LineIterator) IsBoundary(offset int) bool { return l.bounds.IsBoundary(offset) }
func (l *LineIterator) Preceding(offset int) int    { return l.bounds.Preceding(offset) }

func graphemeBoundaries(text []rune) boundarySet {
	s := string(text)
	bounds := boundarySet{0}
	state := -1
	runeIdx := 0
	for len(s) > 0 {
		cluster, rest, _, newState := uniseg.FirstGraphemeClusterInString(s, state)
		runeIdx += utf8.RuneCountInString(cluster)
		bounds = append(bounds, runeIdx)
		s = rest
		state = newState
	}
	return bounds
}

func lineBoundaries(text []rune) boundarySet {
	s := string(text)
	bounds := boundarySet{0}
	state := -1
	runeIdx := 0
	for len(s) > 0 {
		segment, rest, _, newState := uniseg.FirstLineSegmentInString(s, state)
		runeIdx += utf8.RuneCountInString(segment)
		bounds = append(bounds, runeIdx)
		s = rest
		state = newState
	}
	return bounds
}
