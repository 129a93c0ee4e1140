// Package scriptiter assigns a Unicode script to every code point of a
// paragraph and groups them into runs, resolving the non-fixed Common
// and Inherited scripts via a bounded bracket-pair stack and lookahead.
//
// Grounded on original_source/src/script_iterator.cc.
package scriptiter

import "github.com/go-text/typesetting/language"

// stackCapacity is the bounded size of the pair-start stack. On
// overflow the oldest entry is evicted by shifting the remaining
// entries down by one, per spec.md §4.2 and §9.
const stackCapacity = 128

// Run is a half-open interval [Start, End) of rune indices sharing one
// resolved script.
type Run struct {
	Script     language.Script
	Start, End int
}

type stackElem struct {
	codepoint rune
	script    language.Script
}

// Iterator produces runs one at a time via FindNextRun, mirroring the
// original C++ ScriptIterator's pull-based interface so the Run
// Splitter can walk it in lockstep with the attribute-run list.
type Iterator struct {
	text  []rune
	pos   int
	end   int
	stack []stackElem

	lastFixed     language.Script
	haveLastFixed bool
}

// New creates an Iterator over text[start:end]. text indices outside
// [start, end) may still be read for lookahead purposes (they are not,
// in this implementation, but the signature keeps the door open).
func New(text []rune, start, end int) *Iterator {
	it := &Iterator{text: text, pos: start, end: end}
	it.lastFixed, it.haveLastFixed = firstFixedScript(text, start, end)
	return it
}

func rawScript(r rune) language.Script {
	s := language.LookupScript(r)
	if s == language.Unknown {
		return language.Inherited
	}
	return s
}

func firstFixedScript(text []rune, start, end int) (language.Script, bool) {
	for i := start; i < end; i++ {
		s := rawScript(text[i])
		if s.Strong() {
			return s, true
		}
	}
	return 0, false
}

// scriptHas reports whether script's Unicode Script_Extensions set
// includes r. The retrieved pack ships no Script_Extensions table, so
// this is a deliberately conservative approximation: a Common or
// Inherited code point is treated as usable by any surrounding script.
func scriptHas(script language.Script, r rune) bool {
	s := rawScript(r)
	return s == language.Common || s == language.Inherited || s == script
}

func (it *Iterator) push(codepoint rune, script language.Script) {
	if len(it.stack) >= stackCapacity {
		copy(it.stack, it.stack[1:])
		it.stack[len(it.stack)-1] = stackElem{codepoint, script}
		return
	}
	it.stack = append(it.stack, stackElem{codepoint, script})
}

// popMatch scans the stack from the top looking for an entry whose
// codepoint is among the valid openers for r (a possible pair end). On
// a match it pops the stack down to (but not including) that entry and
// returns its saved script.
func (it *Iterator) popMatch(r rune) (language.Script, bool) {
	candidates := possiblePairStartsFor(r)
	if len(candidates) == 0 {
		return 0, false
	}
	for i := len(it.stack) - 1; i >= 0; i-- {
		for _, c := range candidates {
			if it.stack[i].codepoint == c.Start {
				script := it.stack[i].script
				it.stack = it.stack[:i]
				return script, true
			}
		}
	}
	return 0, false
}

func (it *Iterator) findNextFixedScriptFrom(pos int) (language.Script, bool) {
	for i := pos; i < it.end; i++ {
		s := rawScript(it.text[i])
		if s.Strong() {
			return s, true
		}
	}
	return 0, false
}

func (it *Iterator) resolve(i int) language.Script {
	r := it.text[i]
	raw := rawScript(r)

	var adopted language.Script
	switch {
	case raw == language.Inherited:
		if it.haveLastFixed {
			adopted = it.lastFixed
		} else {
			adopted = language.Inherited
		}
	case raw == language.Common:
		if popped, ok := it.popMatch(r); ok {
			adopted = popped
			break
		}
		if it.haveLastFixed && scriptHas(it.lastFixed, r) {
			adopted = it.lastFixed
		} else if next, ok := it.findNextFixedScriptFrom(i + 1); ok && scriptHas(next, r) {
			adopted = next
		} else if it.haveLastFixed {
			adopted = it.lastFixed
		} else {
			adopted = language.Common
		}
	default:
		adopted = raw
		it.lastFixed = raw
		it.haveLastFixed = true
	}

	if isPairStart(r) {
		it.push(r, adopted)
	}
	return adopted
}

// FindNextRun returns the next script run. Once the iterator is
// exhausted it returns a zero-length run at the end offset, so callers
// can loop with `for run.Start < paragraphEnd { ... }` exactly as
// original_source's split_runs.cc does.
func (it *Iterator) FindNextRun() Run {
	if it.pos >= it.end {
		return Run{Start: it.end, End: it.end}
	}
	start := it.pos
	script := it.resolve(it.pos)
	it.pos++
	for it.pos < it.end {
		next := it.resolve(it.pos)
		if next != script {
			break
		}
		it.pos++
	}
	return Run{Script: script, Start: start, End: it.pos}
}

// Split eagerly collects every run over text[start:end]. A convenience
// wrapper around FindNextRun for callers that don't need lockstep
// iteration with another cursor.
func Split(text []rune, start, end int) []Run {
	if start == end {
		return []Run{{Script: language.Common, Start: start, End: end}}
	}
	it := New(text, start, end)
	var runs []Run
	for {
		run := it.FindNextRun()
		if run.Start >= end {
			break
		}
		runs = append(runs, run)
	}
	return runs
}
