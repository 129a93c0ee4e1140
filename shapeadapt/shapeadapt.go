// Package shapeadapt is the Shaper Adapter (spec.md §4.5): it turns one
// Text Run into a shaping.Input, invokes the external shaping service
// and normalizes the result back into glyphknit's own glyph
// representation.
//
// Grounded on text/gotext.go's toInput/shapeText pattern (the same
// go-text/typesetting/shaping.HarfbuzzShaper call, generalized from
// Gio's single-paragraph layout call site to glyphknit's per-run Line
// Fitter call site).
package shapeadapt

import (
	"fmt"
	"math"

	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"

	"github.com/vincentisambart/glyphknit/runs"
)

// Glyph is one positioned glyph, in the run's own shaping order
// (left-to-right within the run; cross-run visual reordering is the
// Output Assembler's job).
type Glyph struct {
	GlyphID      uint16
	ClusterIndex int
	RuneCount    int
	GlyphCount   int
	XAdvance     fixed.Int26_6
	YAdvance     fixed.Int26_6
	XOffset      fixed.Int26_6
	YOffset      fixed.Int26_6
}

// ShapedRun is a Text Run after shaping: its glyphs plus the line
// metrics the font reported for this run's face and size.
type ShapedRun struct {
	Run     runs.TextRun
	Glyphs  []Glyph
	Advance fixed.Int26_6
	Ascent  fixed.Int26_6
	Descent fixed.Int26_6
	Gap     fixed.Int26_6
}

// Shaper wraps the external shaping engine. The zero value is ready to
// use, mirroring shaping.HarfbuzzShaper's own zero-value usability.
type Shaper struct {
	hb shaping.HarfbuzzShaper
}

func toFixed(em float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(em * 64))
}

// ShapeRun shapes the sub-range of text that run covers. text is the
// full text that run.Start/run.End index into.
func (s *Shaper) ShapeRun(text []rune, run runs.TextRun) (ShapedRun, error) {
	if run.Start == run.End {
		return ShapedRun{Run: run}, nil
	}
	if !run.Font.Valid() {
		return ShapedRun{}, fmt.Errorf("shapeadapt: run [%d,%d) has no resolved font face", run.Start, run.End)
	}

	var input shaping.Input
	input.Text = text
	input.RunStart = run.Start
	input.RunEnd = run.End
	input.Direction = run.Direction
	input.Face = run.Font.Face
	input.Size = toFixed(run.FontSize)
	input.Script = run.Script
	input.Language = language.NewLanguage(run.Language.Code.String())

	out := s.hb.Shape(input)
	return toShapedRun(run, out), nil
}

func toShapedRun(run runs.TextRun, out shaping.Output) ShapedRun {
	glyphs := make([]Glyph, len(out.Glyphs))
	for i, g := range out.Glyphs {
		glyphs[i] = Glyph{
			GlyphID:      uint16(g.GlyphID),
			ClusterIndex: g.ClusterIndex,
			RuneCount:    g.RuneCount,
			GlyphCount:   g.GlyphCount,
			XAdvance:     g.XAdvance,
			YAdvance:     g.YAdvance,
			XOffset:      g.XOffset,
			YOffset:      g.YOffset,
		}
	}
	return ShapedRun{
		Run:     run,
		Glyphs:  glyphs,
		Advance: out.Advance,
		Ascent:  out.LineBounds.Ascent,
		Descent: out.LineBounds.Descent,
		Gap:     out.LineBounds.Gap,
	}
}
