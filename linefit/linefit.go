// Package linefit implements the Line Fitter (spec.md §4.6), the
// central algorithm: given a paragraph's ordered Text Runs and an
// available line width, it shapes sub-ranges of each run, measures how
// many glyphs fit, and backtracks to the best line-break point when
// they don't.
//
// Grounded on original_source/src/typesetter.cc's TypesetLine /
// CountGlyphsThatFit / FindTextOffsetAfterGlyphCluster / StartNewLine.
// The original's goto-driven reshape loop is re-expressed here as a
// labeled loop with explicit state transitions, per spec.md's Design
// Notes instruction; the conceptual states spec.md §4.7 names (fresh,
// shaped, reshape-for-fallback, reshape-for-break, committed,
// rolled-back) correspond to the labeled sections below rather than to
// a literal state enum.
//
// original_source's width arithmetic scales FreeType's font-unit
// advances by upem/font_size before comparing against a pixel budget,
// because FreeType reports unscaled advances. go-text/typesetting's
// HarfbuzzShaper is given the target size directly (shapeadapt sets
// shaping.Input.Size to the run's font size) and returns advances
// already scaled to pixels, so that conversion step is unnecessary
// here: all width arithmetic below works directly in fixed.Int26_6
// pixels. Recorded as a deliberate deviation in DESIGN.md.
package linefit

import (
	"unicode"

	"github.com/go-text/typesetting/di"
	"golang.org/x/exp/slices"
	"golang.org/x/image/math/fixed"

	"github.com/vincentisambart/glyphknit/breakiter"
	"github.com/vincentisambart/glyphknit/fontset"
	"github.com/vincentisambart/glyphknit/runs"
	"github.com/vincentisambart/glyphknit/shapeadapt"
)

// Glyph is one positioned glyph in a committed TypesetRun.
type Glyph = shapeadapt.Glyph

// TypesetRun is a shaped, line-fitted, visually-ordered slice of a
// paragraph's Text Run, per spec.md §3's Typeset Run data model.
type TypesetRun struct {
	Start, End     int
	Font           fontset.Descriptor
	FontSize       float64
	Direction      di.Direction
	VisualIndex    int
	VisualSubIndex int
	Glyphs         []Glyph
	Advance        fixed.Int26_6
}

// TypesetLine is one output line: its runs in final visual order, plus
// the metrics the renderer needs to place the baseline.
type TypesetLine struct {
	Runs    []TypesetRun
	Width   fixed.Int26_6
	Ascent  fixed.Int26_6
	Descent fixed.Int26_6
	Leading fixed.Int26_6
}

// savePoint is the single-slot last-breakpoint backtracking state
// (spec.md §4.6's "Last-breakpoint save").
type savePoint struct {
	lineRunsLen int
	textWidth   fixed.Int26_6
	startIndex  int
	breakIndex  int
	atEndOfRun  bool
}

// runShaper is the subset of *shapeadapt.Shaper the fitter calls.
// Narrowing it to an interface lets tests drive fitRun's backtracking
// state machine with synthetic shaped glyphs, without a real font face
// to shape against.
type runShaper interface {
	ShapeRun(text []rune, run runs.TextRun) (shapeadapt.ShapedRun, error)
}

type fitter struct {
	text           []rune
	shaper         runShaper
	registry       fontset.Registry
	availableWidth fixed.Int26_6
	lineIter       *breakiter.LineIterator
	graphemeIter   *breakiter.GraphemeIterator

	lines        []TypesetLine
	current      TypesetLine
	currentWidth fixed.Int26_6
	saved        *savePoint
}

// FitParagraph is the Line Fitter's entry point: it turns one
// paragraph's ordered runs into a list of Typeset Lines that fit
// within availableWidth.
func FitParagraph(text []rune, runList []runs.TextRun, availableWidth fixed.Int26_6, shaper runShaper, registry fontset.Registry) ([]TypesetLine, error) {
	f := &fitter{
		text:           text,
		shaper:         shaper,
		registry:       registry,
		availableWidth: availableWidth,
		lineIter:       breakiter.NewLineIterator(text),
		graphemeIter:   breakiter.NewGraphemeIterator(text),
	}
	for i := range runList {
		if err := f.fitRun(runList[i]); err != nil {
			return nil, err
		}
	}
	f.flushLine()
	return f.lines, nil
}

func (f *fitter) startNewLine() {
	f.flushLine()
	f.current = TypesetLine{}
	f.currentWidth = 0
	f.saved = nil
}

func (f *fitter) flushLine() {
	if len(f.current.Runs) == 0 && len(f.lines) > 0 {
		return
	}
	mergeAdjacent(&f.current)
	f.lines = append(f.lines, f.current)
}

// fitRun runs the reshape loop for one ordered Text Run, possibly
// emitting several TypesetRuns (when the run itself wraps across
// lines) and possibly starting new lines.
func (f *fitter) fitRun(run runs.TextRun) error {
	currentStart := run.Start
	currentEnd := run.End
	fallbackIndex := 0
	brokeLine := false

	if currentStart == currentEnd {
		if run.EndOfLine {
			f.startNewLine()
		}
		return nil
	}

reshape:
	for {
		face, ok := f.resolveFallbackFont(run, fallbackIndex)
		exhausted := !ok
		if exhausted {
			// Fallback chain exhausted; shape with whatever the run
			// already carries and keep its .notdef glyphs rather than
			// looping forever.
			face = run.Font
		}
		sub := run
		sub.Start, sub.End, sub.Font = currentStart, currentEnd, face
		shaped, err := f.shaper.ShapeRun(f.text, sub)
		if err != nil {
			return err
		}

		// Step 2: font-fallback scan.
		if zi, found := firstNotdefGlyph(shaped); found && !exhausted {
			if shaped.Glyphs[zi].ClusterIndex == currentStart {
				if next, ok := firstCoveredClusterAfter(shaped, currentStart); ok {
					currentEnd = next
				}
				fallbackIndex++
				continue reshape
			}
			currentEnd = shaped.Glyphs[zi].ClusterIndex
			continue reshape
		}

		// Step 3: fit measurement.
		budget := f.availableWidth - f.currentWidth
		fitCount, allFit := measureFit(shaped, f.text, budget)

		var breakOffset int
		if allFit {
			// Step 4.
			breakOffset = currentEnd
		} else {
			// Step 5. offsetAfterFittingGlyphs is the boundary right
			// after the last glyph that fit (equivalently, the start
			// of the first non-fitting glyph's cluster, since clusters
			// are contiguous). offsetAfterNotFittingCluster scans
			// forward past every glyph sharing the first non-fitting
			// glyph's cluster index, matching
			// FindTextOffsetAfterGlyphCluster (original_source/src/
			// typesetter.cc:134-145); the backward search must seed
			// from this offset, not from offsetAfterFittingGlyphs,
			// or it overshoots the break point immediately before
			// the overflowing text (typesetter.cc:259-263).
			offsetAfterFittingGlyphs := shaped.Glyphs[fitCount].ClusterIndex
			offsetAfterNotFittingCluster := endOfCluster(shaped, fitCount, currentEnd)
			breakOffset = f.previousBreak(offsetAfterNotFittingCluster)
			brokeLine = true

			if breakOffset <= currentStart {
				// Step 6: no breakable point in this sub-range.
				if f.saved != nil {
					s := f.saved
					f.current.Runs = f.current.Runs[:s.lineRunsLen]
					f.currentWidth = s.textWidth
					if s.atEndOfRun {
						f.startNewLine()
						return nil // move on to the next run
					}
					currentStart = s.startIndex
					currentEnd = s.breakIndex
					f.saved = nil
					continue reshape
				}

				if f.graphemeIter.Count(offsetAfterFittingGlyphs, offsetAfterNotFittingCluster) == 1 {
					breakOffset = offsetAfterFittingGlyphs
				} else {
					currentEnd = f.graphemeIter.Preceding(currentEnd)
					continue reshape
				}
			} else {
				// breakOffset > currentStart: reshape to the break point.
				currentEnd = breakOffset
				continue reshape
			}
		}

		// Step 7: output shape to the current line.
		f.appendShaped(shaped, run, breakOffset)

		// Step 8.
		if breakOffset < run.End {
			if brokeLine {
				f.startNewLine()
			}
			currentStart = breakOffset
			currentEnd = run.End
			brokeLine = false
			continue reshape
		}

		// Step 9.
		if run.EndOfLine {
			f.startNewLine()
			return nil
		}

		// Step 10: record a save point.
		if f.lineIter.IsBoundary(currentEnd) && f.graphemeIter.IsBoundary(currentEnd) {
			f.saved = &savePoint{
				lineRunsLen: len(f.current.Runs),
				textWidth:   f.currentWidth,
				atEndOfRun:  true,
			}
		} else if b := f.previousBreakStrictlyInside(currentStart, currentEnd); b >= 0 {
			f.saved = &savePoint{
				lineRunsLen: len(f.current.Runs),
				textWidth:   f.currentWidth,
				startIndex:  currentStart,
				breakIndex:  b,
			}
		}
		return nil
	}
}

func (f *fitter) previousBreak(offset int) int {
	b := f.lineIter.Preceding(offset)
	for b > 0 && !f.graphemeIter.IsBoundary(b) {
		b = f.lineIter.Preceding(b)
	}
	if b < 0 {
		return 0
	}
	return b
}

// previousBreakStrictlyInside looks for a line-break opportunity in
// (start, end), used to record a save point inside the run currently
// being shaped.
func (f *fitter) previousBreakStrictlyInside(start, end int) int {
	b := f.lineIter.Preceding(end)
	for b > start {
		if f.graphemeIter.IsBoundary(b) {
			return b
		}
		b = f.lineIter.Preceding(b)
	}
	return -1
}

func (f *fitter) resolveFallbackFont(run runs.TextRun, index int) (fontset.Descriptor, bool) {
	if f.registry == nil {
		return run.Font, index == 0
	}
	lang := run.Language.Code.String()
	return f.registry.Fallback(run.Font, index, lang, run.Font.Family)
}

func (f *fitter) appendShaped(shaped shapeadapt.ShapedRun, run runs.TextRun, end int) {
	glyphs := shaped.Glyphs
	if end < shaped.Run.End {
		cut := 0
		for cut < len(glyphs) && glyphs[cut].ClusterIndex < end {
			cut++
		}
		glyphs = glyphs[:cut]
	}

	out := TypesetRun{
		Start:          shaped.Run.Start,
		End:            end,
		Font:           run.Font,
		FontSize:       run.FontSize,
		Direction:      run.Direction,
		VisualIndex:    run.VisualIndex,
		VisualSubIndex: len(f.current.Runs),
		Glyphs:         glyphs,
	}
	for _, g := range glyphs {
		out.Advance += g.XAdvance
	}

	f.current.Runs = append(f.current.Runs, out)
	f.currentWidth += out.Advance
	f.current.Width = f.currentWidth

	ascent, descent, leading := shaped.Ascent, shaped.Descent, shaped.Gap
	if ascent > f.current.Ascent {
		f.current.Ascent = ascent
	}
	if descent > f.current.Descent {
		f.current.Descent = descent
	}
	if leading > f.current.Leading {
		f.current.Leading = leading
	}
}

func firstNotdefGlyph(s shapeadapt.ShapedRun) (int, bool) {
	for i, g := range s.Glyphs {
		if g.GlyphID == 0 {
			return i, true
		}
	}
	return 0, false
}

// firstCoveredClusterAfter finds the first glyph with non-zero
// coverage whose cluster is strictly after start, used by the
// font-fallback scan (spec.md §4.6 step 2).
func firstCoveredClusterAfter(s shapeadapt.ShapedRun, start int) (int, bool) {
	for _, g := range s.Glyphs {
		if g.GlyphID != 0 && g.ClusterIndex > start {
			return g.ClusterIndex, true
		}
	}
	return 0, false
}

// endOfCluster scans forward from glyph index i past every glyph that
// shares its cluster index, returning the offset of the next distinct
// cluster (or runEnd, when i's cluster runs to the end of the shaped
// range). Grounded on FindTextOffsetAfterGlyphCluster
// (original_source/src/typesetter.cc:134-145), which performs the same
// same-cluster forward scan rather than trusting a single glyph's
// RuneCount to span a multi-glyph cluster.
func endOfCluster(s shapeadapt.ShapedRun, i int, runEnd int) int {
	cluster := s.Glyphs[i].ClusterIndex
	j := i
	for j < len(s.Glyphs) && s.Glyphs[j].ClusterIndex == cluster {
		j++
	}
	if j < len(s.Glyphs) {
		return s.Glyphs[j].ClusterIndex
	}
	return runEnd
}

// measureFit walks shaped's glyphs (already in visual order per the
// Shaper Adapter's invariant) and returns how many fit within budget.
// A glyph whose cluster is a single whitespace codepoint other than
// U+00A0 NO-BREAK SPACE, and is both the start and the end of its
// cluster, never causes overflow (spec.md §4.6 step 3).
func measureFit(s shapeadapt.ShapedRun, text []rune, budget fixed.Int26_6) (int, bool) {
	var width fixed.Int26_6
	for i, g := range s.Glyphs {
		next := width + g.XAdvance
		if i > 0 && next > budget && !isIgnorableTrailingSpace(g, text) {
			return i, false
		}
		width = next
	}
	return len(s.Glyphs), true
}

func isIgnorableTrailingSpace(g shapeadapt.Glyph, text []rune) bool {
	if g.RuneCount != 1 || g.GlyphCount != 1 {
		return false
	}
	if g.ClusterIndex < 0 || g.ClusterIndex >= len(text) {
		return false
	}
	r := text[g.ClusterIndex]
	return unicode.IsSpace(r) && r != 0x00A0
}

// mergeAdjacent implements the fitter's per-line visual reorder &
// merge pass (spec.md §4.6): stable-sort by (VisualIndex,
// VisualSubIndex), drop empty runs, then concatenate adjacent runs
// that share direction, font and a similar font size.
func mergeAdjacent(line *TypesetLine) {
	sortRunsByVisualOrder(line.Runs)

	out := line.Runs[:0]
	for _, r := range line.Runs {
		if len(r.Glyphs) == 0 {
			continue
		}
		if len(out) > 0 {
			last := &out[len(out)-1]
			if last.Direction == r.Direction && last.Font.Equal(r.Font) && fontset.IsFontSizeSimilar(last.FontSize, r.FontSize) {
				last.Glyphs = append(last.Glyphs, r.Glyphs...)
				last.Advance += r.Advance
				last.End = r.End
				continue
			}
		}
		out = append(out, r)
	}
	line.Runs = out
}

func sortRunsByVisualOrder(runs []TypesetRun) {
	slices.SortStableFunc(runs, func(a, b TypesetRun) bool {
		if a.VisualIndex != b.VisualIndex {
			return a.VisualIndex < b.VisualIndex
		}
		return a.VisualSubIndex < b.VisualSubIndex
	})
}
