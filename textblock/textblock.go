// Package textblock implements the read-only text view and the
// attribute-interval write API the typesetter consumes (spec.md §3 and
// §6). The core typesetter treats a *TextBlock as read-only; only the
// write API below mutates it.
//
// Grounded on original_source/include/text_block.hh, enriched per
// SPEC_FULL.md §3 with a default font face/size carried for newly
// inserted text, a detail original_source always assumed.
package textblock

import (
	"unicode/utf16"

	"github.com/vincentisambart/glyphknit/fontset"
	"github.com/vincentisambart/glyphknit/langres"
)

// AttributeRun is one entry of the attribute-interval partition: a
// half-open [Start, End) range of UTF-16 code-unit offsets sharing one
// font descriptor, font size and language.
type AttributeRun struct {
	Start, End int
	Font       fontset.Descriptor
	FontSize   float64
	Language   langres.Language
}

func (a AttributeRun) sameAttributes(b AttributeRun) bool {
	return a.Font.Equal(b.Font) && a.FontSize == b.FontSize && a.Language == b.Language
}

// TextBlock is a read-only (to the core typesetter) sequence of UTF-16
// code units plus a non-overlapping, gap-free partition into attribute
// runs, per spec.md §3.
type TextBlock struct {
	text []uint16
	runs []AttributeRun

	defaultFont     fontset.Descriptor
	defaultFontSize float64
}

// New creates an empty TextBlock with the given default font and size,
// used as the initial attributes for any text later set with SetText.
func New(defaultFont fontset.Descriptor, defaultFontSize float64) *TextBlock {
	return &TextBlock{defaultFont: defaultFont, defaultFontSize: defaultFontSize}
}

// Len returns the number of UTF-16 code units.
func (t *TextBlock) Len() int { return len(t.text) }

// TextUTF16 returns the underlying UTF-16 code units. The caller must
// not mutate the returned slice.
func (t *TextBlock) TextUTF16() []uint16 { return t.text }

// Runes decodes the full text to runes, for components that operate on
// codepoints rather than code units (the Script Iterator, the Shaper
// Adapter).
func (t *TextBlock) Runes() []rune {
	return utf16.Decode(t.text)
}

// RuneAttributeRuns returns the attribute partition translated from
// UTF-16 code-unit offsets to rune (codepoint) offsets. The core
// pipeline (runs, scriptiter, linefit) operates uniformly in rune
// index space, matching go-text/typesetting's own []rune-based
// shaping.Input.Text convention, rather than threading UTF-16
// surrogate-pair bookkeeping through every component; only the
// TextBlock storage boundary deals in UTF-16 code units, per spec.md §3.
func (t *TextBlock) RuneAttributeRuns() []AttributeRun {
	if len(t.runs) == 0 {
		return nil
	}
	unitToRune := make([]int, len(t.text)+1)
	runeIndex := 0
	i := 0
	for i < len(t.text) {
		unitToRune[i] = runeIndex
		r := rune(t.text[i])
		if utf16.IsSurrogate(r) && i+1 < len(t.text) {
			unitToRune[i+1] = runeIndex
			i += 2
		} else {
			i++
		}
		runeIndex++
	}
	unitToRune[len(t.text)] = runeIndex

	out := make([]AttributeRun, len(t.runs))
	for i, r := range t.runs {
		out[i] = r
		out[i].Start = unitToRune[r.Start]
		out[i].End = unitToRune[r.End]
	}
	return out
}

// AttributeRuns returns the current attribute-interval partition. The
// caller must not mutate the returned slice.
func (t *TextBlock) AttributeRuns() []AttributeRun { return t.runs }

// DefaultFontFace returns the font used for newly inserted text.
func (t *TextBlock) DefaultFontFace() fontset.Descriptor { return t.defaultFont }

// SetDefaultFontFace changes the font used for subsequently inserted text.
// It does not affect existing attribute runs.
func (t *TextBlock) SetDefaultFontFace(f fontset.Descriptor) { t.defaultFont = f }

// DefaultFontSize returns the font size used for newly inserted text.
func (t *TextBlock) DefaultFontSize() float64 { return t.defaultFontSize }

// SetDefaultFontSize changes the font size used for subsequently
// inserted text. It does not affect existing attribute runs.
func (t *TextBlock) SetDefaultFontSize(size float64) { t.defaultFontSize = size }

// SetText replaces the entire text content with utf16, resetting the
// attribute partition to a single run spanning [0, len(utf16)) carrying
// the block's default font and size.
func (t *TextBlock) SetText(utf16Text []uint16) {
	t.text = utf16Text
	if len(utf16Text) == 0 {
		t.runs = nil
		return
	}
	t.runs = []AttributeRun{{
		Start:    0,
		End:      len(utf16Text),
		Font:     t.defaultFont,
		FontSize: t.defaultFontSize,
		Language: langres.Undefined,
	}}
}

// SetTextString is a convenience wrapper around SetText that encodes s
// (interpreted as UTF-8) to UTF-16 first.
func (t *TextBlock) SetTextString(s string) {
	t.SetText(utf16.Encode([]rune(s)))
}

// runSplitter mirrors the runs package's cursor / original_source's RunSplitter:
// a cursor over t.runs supporting RunGoesTo/ThrowAwayUpTo-style
// mutation while walking forward. It is intentionally the same
// discipline the Run Splitter package uses, so both packages share one
// mental model (see DESIGN.md).
type runSplitter struct {
	block *TextBlock
	index int
}

func (s *runSplitter) splitAt(offset int) {
	if offset <= s.block.runs[s.index].Start || offset >= s.block.runs[s.index].End {
		return
	}
	r := s.block.runs[s.index]
	left := r
	left.End = offset
	right := r
	right.Start = offset
	t := s.block
	t.runs = append(t.runs, AttributeRun{})
	copy(t.runs[s.index+2:], t.runs[s.index+1:])
	t.runs[s.index] = left
	t.runs[s.index+1] = right
}

// seekTo advances the cursor so t.runs[index] is the (possibly newly
// split) run starting exactly at offset, splitting a straddling run if
// necessary.
func (s *runSplitter) seekTo(offset int) {
	for s.block.runs[s.index].End <= offset {
		s.index++
	}
	if s.block.runs[s.index].Start < offset {
		s.splitAt(offset)
		s.index++
	}
}

// mutate applies f to every run fully inside [start, end), splitting
// boundary runs as needed first.
func (t *TextBlock) mutate(start, end int, f func(*AttributeRun)) {
	if start >= end || len(t.runs) == 0 {
		return
	}
	s := &runSplitter{block: t}
	s.seekTo(start)
	for s.index < len(t.runs) && t.runs[s.index].Start < end {
		if t.runs[s.index].End > end {
			s.splitAt(end)
		}
		f(&t.runs[s.index])
		s.index++
	}
	t.mergeAdjacent()
}

// mergeAdjacent enforces the canonical-form invariant: adjacent runs
// sharing identical attributes are merged into one.
func (t *TextBlock) mergeAdjacent() {
	if len(t.runs) < 2 {
		return
	}
	merged := t.runs[:1]
	for _, r := range t.runs[1:] {
		last := &merged[len(merged)-1]
		if last.End == r.Start && last.sameAttributes(r) {
			last.End = r.End
			continue
		}
		merged = append(merged, r)
	}
	t.runs = merged
}

// SetFontSize sets the font size of [start, end) to size.
func (t *TextBlock) SetFontSize(size float64, start, end int) {
	t.mutate(start, end, func(r *AttributeRun) { r.FontSize = size })
}

// SetFontFace sets the font of [start, end) to face.
func (t *TextBlock) SetFontFace(face fontset.Descriptor, start, end int) {
	t.mutate(start, end, func(r *AttributeRun) { r.Font = face })
}

// SetLanguage sets the declared language of [start, end) to lang.
func (t *TextBlock) SetLanguage(lang langres.Language, start, end int) {
	t.mutate(start, end, func(r *AttributeRun) { r.Language = lang })
}
