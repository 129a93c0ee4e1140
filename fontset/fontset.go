// Package fontset provides a minimal, concrete implementation of the
// font-registry external collaborator spec.md §1 and §6 describe only
// at their interface. The registry itself is out of the typesetter's
// core scope, but a small usable implementation is included per
// SPEC_FULL.md §1 so the module is directly exercisable.
//
// Grounded on original_source/src/font.cc and include/font.hh for
// shape (PostScript-name equality, lazy face/shaper handles) and on
// github.com/go-text/typesetting/font for the concrete face type.
package fontset

import "github.com/go-text/typesetting/font"

// FamilyClass is a coarse font classification used to pick a fallback
// chain, per spec.md §3's Font Descriptor data model.
type FamilyClass int

const (
	Unknown FamilyClass = iota
	SansSerif
	Serif
	Monospace
	Cursive
	Fantasy
)

// Descriptor is an opaque, comparable handle to a face, per spec.md
// §3's Font Descriptor. Equality is structural: same PostScript name
// when one is known, else same face identity.
type Descriptor struct {
	Face           font.Face
	PostScriptName string
	UnitsPerEm     int32
	Ascender       int32
	Descender      int32
	LineGap        int32
	Family         FamilyClass
}

// Valid reports whether the descriptor refers to an actual face.
func (d Descriptor) Valid() bool { return d.Face != nil }

// Equal reports structural equality per spec.md §3: same PostScript
// name if either is known, falling back to face identity.
func (d Descriptor) Equal(o Descriptor) bool {
	if d.PostScriptName != "" || o.PostScriptName != "" {
		return d.PostScriptName == o.PostScriptName
	}
	return d.Face == o.Face
}

// IsFontSizeSimilar reports whether a and b differ by less than 1/64
// em, the Run Splitter's font-size-change threshold (spec.md §4.4).
func IsFontSizeSimilar(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1.0/64.0
}

// Registry resolves descriptor lookups and fallback chains, the
// external Font registry interface of spec.md §6.
type Registry interface {
	// Resolve looks up a face by PostScript name. A miss returns an
	// invalid (zero) Descriptor and ok=false; it never panics or
	// returns an error (spec.md §7's LookupMiss kind).
	Resolve(postScriptName string) (Descriptor, bool)

	// Fallback returns the index-th font in self's fallback chain for
	// the given language and family class. Index 0 is always self.
	// Beyond the end of the chain, ok is false.
	Fallback(self Descriptor, index int, lang string, class FamilyClass) (Descriptor, bool)
}
