package fontset

// StaticRegistry is a minimal in-memory Registry: a name→Descriptor
// map plus one ordered fallback chain per family class, ending with
// whatever last-resort descriptor was registered. It ignores the
// per-language fallback refinement spec.md §6 describes (Japanese
// Hira/Kaku faces, Chinese Hans/Hant/Hoho faces, Korean faces) since
// that refinement is a font-registry concern the typesetter core only
// consumes through the Registry interface above; embedders needing it
// supply their own Registry implementation.
type StaticRegistry struct {
	byName   map[string]Descriptor
	fallback map[FamilyClass][]Descriptor
}

// NewStaticRegistry creates an empty registry.
func NewStaticRegistry() *StaticRegistry {
	return &StaticRegistry{
		byName:   make(map[string]Descriptor),
		fallback: make(map[FamilyClass][]Descriptor),
	}
}

// Register adds d under its PostScriptName and appends it to its
// family class's fallback chain.
func (r *StaticRegistry) Register(d Descriptor) {
	if d.PostScriptName != "" {
		r.byName[d.PostScriptName] = d
	}
	r.fallback[d.Family] = append(r.fallback[d.Family], d)
}

func (r *StaticRegistry) Resolve(postScriptName string) (Descriptor, bool) {
	d, ok := r.byName[postScriptName]
	return d, ok
}

func (r *StaticRegistry) Fallback(self Descriptor, index int, lang string, class FamilyClass) (Descriptor, bool) {
	if index == 0 {
		return self, true
	}
	chain := r.fallback[class]
	// index 1 is the first fallback after self; self itself may or may
	// not already be chain[0], so walk the chain skipping self.
	n := 0
	for _, d := range chain {
		if d.Equal(self) {
			continue
		}
		n++
		if n == index {
			return d, true
		}
	}
	return Descriptor{}, false
}
