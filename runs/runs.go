// Package runs implements the Run Splitter (spec.md §4.4): the
// four-pass process that turns one paragraph into an ordered list of
// Text Runs coherent in script, language, font, bidi direction and
// forced-line-break status.
//
// Grounded on original_source/src/split_runs.cc.
package runs

import (
	"sort"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/language"
	"golang.org/x/text/unicode/bidi"

	"github.com/vincentisambart/glyphknit/fontset"
	"github.com/vincentisambart/glyphknit/langres"
	"github.com/vincentisambart/glyphknit/newline"
	"github.com/vincentisambart/glyphknit/scriptiter"
	"github.com/vincentisambart/glyphknit/textblock"
)

// TextRun is a half-open [Start, End) interval of rune offsets, per
// spec.md §3's Text Run data model.
type TextRun struct {
	Start, End  int
	Script      language.Script
	Language    langres.Language
	Font        fontset.Descriptor
	FontSize    float64
	Direction   di.Direction
	VisualIndex int
	EndOfLine   bool
}

// SplitRuns produces the ordered run list for one paragraph
// [paragraphStart, paragraphEnd) of text, given the text block's
// attribute-interval partition (already translated to rune offsets,
// e.g. via TextBlock.RuneAttributeRuns). An empty paragraph yields a
// single zero-length run, which downstream components must accept
// (spec.md §4.1).
func SplitRuns(text []rune, attrRuns []textblock.AttributeRun, paragraphStart, paragraphEnd int) []TextRun {
	base := []TextRun{{Start: paragraphStart, End: paragraphEnd}}
	if paragraphStart == paragraphEnd {
		return base
	}
	out := splitByLanguage(base, text, attrRuns, paragraphStart, paragraphEnd)
	out = splitByFont(out, attrRuns, paragraphStart, paragraphEnd)
	out = splitByDirection(out, text, paragraphStart, paragraphEnd)
	out = splitByForcedLineBreaks(out, text, paragraphStart, paragraphEnd)
	return out
}

func firstAttrRunAfter(attrRuns []textblock.AttributeRun, index int) int {
	i := 0
	for i < len(attrRuns) && attrRuns[i].End < index {
		i++
	}
	return i
}

// splitByLanguage is pass 1 (spec.md §4.4 item 1), grounded on
// SplitRunsByLanguage in original_source/src/split_runs.cc, including
// its double evaluation of IsScriptUsedForLanguage: the check runs
// once while detecting a language change at the current attribute-run
// boundary, and again when finalizing the language for the trailing
// sub-run up to the end of the script run. spec.md §9 records this as
// a preserve-verbatim behavior rather than a bug to fix.
func splitByLanguage(in []TextRun, text []rune, attrRuns []textblock.AttributeRun, paragraphStart, paragraphEnd int) []TextRun {
	c := cursor{runs: in}
	it := scriptiter.New(text, paragraphStart, paragraphEnd)

	attrIdx := firstAttrRunAfter(attrRuns, paragraphStart)
	attrEnd := len(attrRuns)

	runStart := paragraphStart
	scriptRun := it.FindNextRun()
	defaultLanguage := langres.GuessLanguageFromScript(scriptRun.Script)
	previousLanguage := defaultLanguage

	for scriptRun.Start < paragraphEnd {
		for attrIdx < attrEnd && attrRuns[attrIdx].End <= scriptRun.End {
			lang := attrRuns[attrIdx].Language
			if !langres.IsScriptUsedForLanguage(scriptRun.Script, lang) {
				lang = defaultLanguage
			}
			if lang != previousLanguage {
				runEnd := max(attrRuns[attrIdx].Start, scriptRun.Start)
				if runStart < runEnd {
					prevLang, prevScript := previousLanguage, scriptRun.Script
					c.RunGoesTo(runEnd, func(r *TextRun) {
						r.Script = prevScript
						r.Language = prevLang
					})
					runStart = runEnd
				}
				previousLanguage = lang
			}
			attrIdx++
		}

		runEnd := scriptRun.End
		if runStart < runEnd {
			var lang langres.Language
			if attrIdx == attrEnd {
				lang = previousLanguage
			} else {
				lang = attrRuns[attrIdx].Language
				if !langres.IsScriptUsedForLanguage(scriptRun.Script, lang) {
					lang = defaultLanguage
				}
			}
			// Second evaluation, verbatim (see doc comment above).
			if !langres.IsScriptUsedForLanguage(scriptRun.Script, lang) {
				lang = defaultLanguage
			}
			script := scriptRun.Script
			c.RunGoesTo(runEnd, func(r *TextRun) {
				r.Script = script
				r.Language = lang
			})
			runStart = runEnd
		}

		scriptRun = it.FindNextRun()
		defaultLanguage = langres.GuessLanguageFromScript(scriptRun.Script)
	}
	return c.runs
}

// splitByFont is pass 2 (spec.md §4.4 item 2), grounded on
// SplitRunsByFont.
func splitByFont(in []TextRun, attrRuns []textblock.AttributeRun, paragraphStart, paragraphEnd int) []TextRun {
	c := cursor{runs: in}
	attrIdx := firstAttrRunAfter(attrRuns, paragraphStart)

	font := attrRuns[attrIdx].Font
	size := attrRuns[attrIdx].FontSize
	attrIdx++
	for attrIdx < len(attrRuns) && attrRuns[attrIdx].Start < paragraphEnd {
		if !fontset.IsFontSizeSimilar(attrRuns[attrIdx].FontSize, size) || !attrRuns[attrIdx].Font.Equal(font) {
			start := attrRuns[attrIdx].Start
			f, s := font, size
			c.RunGoesTo(start, func(r *TextRun) {
				r.Font = f
				r.FontSize = s
			})
			font = attrRuns[attrIdx].Font
			size = attrRuns[attrIdx].FontSize
		}
		attrIdx++
	}
	f, s := font, size
	c.RunGoesTo(paragraphEnd, func(r *TextRun) {
		r.Font = f
		r.FontSize = s
	})
	return c.runs
}

// splitByDirection is pass 3 (spec.md §4.4 item 3), grounded on
// SplitRunsByDirection's ubidi_getLogicalRun loop, realized with
// golang.org/x/text/unicode/bidi. bidi.Ordering.Run(i) is already in
// final visual order (golang.org/x/text's documented behavior), so i
// itself is the visual index; Run(i).Pos() gives the run's logical
// (source-text) position, used to re-split in logical order per
// spec.md's "sort by logical_start" instruction.
func splitByDirection(in []TextRun, text []rune, paragraphStart, paragraphEnd int) []TextRun {
	c := cursor{runs: in}
	if paragraphStart == paragraphEnd {
		return c.runs
	}

	var p bidi.Paragraph
	p.SetString(string(text[paragraphStart:paragraphEnd]))
	order, err := p.Order()
	if err != nil || order.NumRuns() <= 1 {
		// A uniform paragraph direction: assign ascending visual
		// indices starting at 0, consistent with how a single-run
		// mixed-path result reports visual index 0 (spec.md §9 open
		// question, resolved in DESIGN.md).
		dir := di.DirectionLTR
		if err == nil && order.NumRuns() == 1 && order.Run(0).Direction() == bidi.RightToLeft {
			dir = di.DirectionRTL
		}
		visualIndex := 0
		c.RunGoesTo(paragraphEnd, func(r *TextRun) {
			r.Direction = dir
			r.VisualIndex = visualIndex
			visualIndex++
		})
		return c.runs
	}

	type tuple struct {
		visualIndex int
		start, end  int
		dir         di.Direction
	}
	n := order.NumRuns()
	tuples := make([]tuple, n)
	for i := 0; i < n; i++ {
		run := order.Run(i)
		startRune, endRune := run.Pos()
		dir := di.DirectionLTR
		if run.Direction() == bidi.RightToLeft {
			dir = di.DirectionRTL
		}
		tuples[i] = tuple{
			visualIndex: i,
			start:       paragraphStart + startRune,
			end:         paragraphStart + endRune + 1,
			dir:         dir,
		}
	}
	sort.Slice(tuples, func(i, j int) bool { return tuples[i].start < tuples[j].start })

	pos := paragraphStart
	for _, tup := range tuples {
		if tup.start > pos {
			c.ThrowAwayUpTo(tup.start)
		}
		visualIndex, dir := tup.visualIndex, tup.dir
		c.RunGoesTo(tup.end, func(r *TextRun) {
			r.Direction = dir
			r.VisualIndex = visualIndex
		})
		pos = tup.end
	}
	if pos < paragraphEnd {
		c.ThrowAwayUpTo(paragraphEnd)
	}
	return c.runs
}

// splitByForcedLineBreaks is pass 4 (spec.md §4.4 item 4), grounded on
// SplitRunsInLines. It must run last so the end_of_line marker it
// leaves behind is never split or discarded by an earlier pass.
func splitByForcedLineBreaks(in []TextRun, text []rune, paragraphStart, paragraphEnd int) []TextRun {
	c := cursor{runs: in}
	i := paragraphStart
	for i < paragraphEnd {
		if !newline.IsLineSeparator(text[i]) {
			i++
			continue
		}
		c.RunGoesTo(i, func(*TextRun) {})
		c.previous().EndOfLine = true
		c.ThrowAwayUpTo(i + 1)
		i++
	}
	return c.runs
}
