package fontset

import (
	"bytes"
	"fmt"
	_ "image/png"

	gotext "github.com/go-text/typesetting/font"
)

// ParseFace parses OpenType/TrueType font data into a usable face.
//
// Adapted from font/opentype/opentype.go's Parse (teacher): the same
// single call into go-text/typesetting/font.ParseTTF, generalized from
// gio's own Face wrapper type to returning the bare font.Face a
// Descriptor embeds directly.
func ParseFace(src []byte) (gotext.Face, error) {
	face, err := gotext.ParseTTF(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("fontset: failed parsing font data: %w", err)
	}
	return face, nil
}

// NewDescriptor builds a Descriptor around a parsed face. Units-per-em
// and the ascender/descender/line-gap metrics are supplied by the
// caller rather than introspected from the face's tables here: the
// font loader/registry is an external collaborator (spec.md §1), and
// this module does not itself parse OS/2 or hhea metrics.
func NewDescriptor(face gotext.Face, postScriptName string, unitsPerEm, ascender, descender, lineGap int32, family FamilyClass) Descriptor {
	return Descriptor{
		Face:           face,
		PostScriptName: postScriptName,
		UnitsPerEm:     unitsPerEm,
		Ascender:       ascender,
		Descender:      descender,
		LineGap:        lineGap,
		Family:         family,
	}
}
