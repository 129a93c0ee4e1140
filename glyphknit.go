// Package glyphknit implements a paragraph typesetter: given Unicode
// text annotated with per-range font/size/language attributes and a
// line width, it produces visual lines of positioned glyph runs.
//
// Grounded on original_source/src/typesetter.cc's Typesetter class
// (PositionGlyphs/DrawToContext/TypesetParagraph orchestration) and the
// teacher's text/shaper.go, whose Shaper type owns reusable scratch
// state across calls the same way Typesetter does here.
package glyphknit

import (
	"github.com/go-text/typesetting/language"
	"golang.org/x/image/math/fixed"

	"github.com/vincentisambart/glyphknit/fontset"
	"github.com/vincentisambart/glyphknit/langres"
	"github.com/vincentisambart/glyphknit/linefit"
	"github.com/vincentisambart/glyphknit/newline"
	"github.com/vincentisambart/glyphknit/output"
	"github.com/vincentisambart/glyphknit/runs"
	"github.com/vincentisambart/glyphknit/shapeadapt"
	"github.com/vincentisambart/glyphknit/textblock"
)

// halfPixel is the +0.5px rounding fudge original_source's
// DrawToContext applies once to its initial translation.
const halfPixel = fixed.Int26_6(32)

// Typesetter is the single-threaded entry point. One instance owns a
// reusable shaping buffer; it must not be used concurrently, though
// distinct instances may run in parallel given a thread-safe Registry
// (spec.md §5).
type Typesetter struct {
	registry  fontset.Registry
	preferred langres.PreferredLanguagesSource
	logger    Logger
	shaper    shapeadapt.Shaper
}

// Option configures a Typesetter at construction time.
type Option func(*Typesetter)

// WithPreferredLanguages supplies the caller's ordered language
// preference list, consulted by ResolveLanguage (spec.md §4.3).
func WithPreferredLanguages(p langres.PreferredLanguagesSource) Option {
	return func(t *Typesetter) { t.preferred = p }
}

// WithLogger overrides the default stdlib logger.
func WithLogger(l Logger) Option {
	return func(t *Typesetter) { t.logger = l }
}

// New creates a Typesetter backed by registry, the font lookup and
// fallback-chain collaborator (spec.md §6).
func New(registry fontset.Registry, opts ...Option) *Typesetter {
	t := &Typesetter{registry: registry, logger: defaultLogger()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ResolveLanguage implements spec.md §4.3 directly, for callers that
// want to pre-resolve an attribute run's language (e.g. before calling
// TextBlock.SetLanguage) rather than let the Run Splitter substitute a
// predominant default per-script during PositionGlyphs.
func (t *Typesetter) ResolveLanguage(declared langres.Language, script language.Script) langres.Language {
	return langres.Resolve(declared, script, t.preferred)
}

// PositionGlyphs is a pure function of block's current contents modulo
// font loads (spec.md §6): it splits block into paragraphs, runs the
// full per-paragraph pipeline, and returns every produced line in
// paragraph order.
func (t *Typesetter) PositionGlyphs(block *textblock.TextBlock, availableWidth fixed.Int26_6) ([]linefit.TypesetLine, error) {
	text := block.Runes()
	attrRuns := block.RuneAttributeRuns()

	var lines []linefit.TypesetLine
	for _, para := range newline.Split(text) {
		paraRuns := runs.SplitRuns(text, attrRuns, para.Start, para.End)
		paraLines, err := linefit.FitParagraph(text, paraRuns, availableWidth, &t.shaper, t.registry)
		if err != nil {
			return nil, newExternalServiceError(err)
		}
		lines = append(lines, paraLines...)
	}
	return lines, nil
}

// RenderContext is the output renderer external collaborator (spec.md
// §1, §6): it accepts a glyph id + position stream for one run, drawn
// with one font face and size, plus a running origin translation.
// Grounded on original_source/src/typesetter.cc's
// CTFontDrawGlyphs(font, glyph_ids, glyph_positions, count, context)
// call.
type RenderContext interface {
	Translate(dx, dy fixed.Int26_6)
	DrawGlyphRun(font fontset.Descriptor, size float64, glyphIDs []uint16, positions []fixed.Point26_6)
}

// DrawToContext runs PositionGlyphs and drives ctx through the
// resulting lines, per spec.md §6's translation math (supplemented
// from original_source/src/typesetter.cc's DrawToContext): the origin
// is translated down once by total_height+descent+0.5, then by
// −(previous_line.descent + line.ascent + line.leading) before each
// line's runs are emitted.
func (t *Typesetter) DrawToContext(block *textblock.TextBlock, availableWidth fixed.Int26_6, ctx RenderContext) error {
	lines, err := t.PositionGlyphs(block, availableWidth)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}

	var totalHeight fixed.Int26_6
	for _, l := range lines {
		totalHeight += l.Ascent + l.Descent + l.Leading
	}
	totalHeight += lines[len(lines)-1].Descent + halfPixel
	ctx.Translate(0, totalHeight)

	var previousDescent fixed.Int26_6
	for _, l := range lines {
		ctx.Translate(0, -(previousDescent + l.Ascent + l.Leading))
		drawLine(ctx, l)
		previousDescent = l.Descent
	}
	return nil
}

func drawLine(ctx RenderContext, l linefit.TypesetLine) {
	for _, run := range l.Runs {
		ids := make([]uint16, len(run.Glyphs))
		positions := make([]fixed.Point26_6, len(run.Glyphs))
		var x, y fixed.Int26_6
		for i, g := range run.Glyphs {
			ids[i] = g.GlyphID
			positions[i] = fixed.Point26_6{X: x + g.XOffset, Y: y + g.YOffset}
			x += g.XAdvance
			y += g.YAdvance
		}
		ctx.DrawGlyphRun(run.Font, run.FontSize, ids, positions)
	}
}

// Assemble assembles a whole text block's typeset lines into a
// document, bookkeeping baselines across paragraphs (spec.md §4.7).
// Most callers only need PositionGlyphs; Assemble is for callers that
// want the cumulative document view output.Document provides (e.g. a
// scrollable text view rendering many paragraphs at once).
func (t *Typesetter) Assemble(block *textblock.TextBlock, availableWidth fixed.Int26_6) (*output.Document, error) {
	text := block.Runes()
	attrRuns := block.RuneAttributeRuns()

	doc := &output.Document{}
	for _, para := range newline.Split(text) {
		paraRuns := runs.SplitRuns(text, attrRuns, para.Start, para.End)
		paraLines, err := linefit.FitParagraph(text, paraRuns, availableWidth, &t.shaper, t.registry)
		if err != nil {
			return nil, newExternalServiceError(err)
		}
		doc.AppendParagraph(paraLines)
	}
	return doc, nil
}
