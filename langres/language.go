// Package langres resolves a declared (possibly undefined) language
// plus a resolved script into an OpenType language tag, and parses
// BCP47-lite language strings.
//
// Grounded on original_source/src/language.cc and include/language.hh.
package langres

import (
	"strings"

	gotext "github.com/go-text/typesetting/language"
)

// Language is the pair (language code tag, OpenType language tag),
// both 4-byte packed tags, matching original_source's Language struct.
type Language struct {
	Code     Tag
	OpenType Tag
}

// Undefined is the distinguished "no language declared" value.
var Undefined = Language{Code: TagUnknown, OpenType: TagUnknown}

func (l Language) IsUndefined() bool { return l.Code == TagUnknown }

// chineseCondition flags accumulated while walking BCP47 subtags,
// mirroring the condition-flag accumulation original_source's
// FindLanguageCodeAndOpenTypeLanguageTag performs for region/script
// subtags of the zh macrolanguage.
type chineseCondition int

const (
	condNone chineseCondition = iota
	condSimplified
	condTraditional
	condHongKong
)

var chineseRegionOrScript = map[string]chineseCondition{
	"hans": condSimplified,
	"hant": condTraditional,
	"cn":   condSimplified,
	"sg":   condSimplified,
	"tw":   condTraditional,
	"hk":   condHongKong,
	"mo":   condHongKong,
}

// ParseBCP47 parses a lowercase-normalized BCP47-ish language string
// into a Language: a 2-3 letter primary tag, with subtags separated by
// any non-letter byte. The "fonipa" variant subtag maps straight to
// the IPPH OpenType tag (a special case preserved from the original).
// Other subtags accumulate condition flags consulted against a small
// per-primary-tag table; currently only the Chinese macrolanguage has
// more than one condition in practice.
func ParseBCP47(s string) Language {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Undefined
	}

	primaryEnd := 0
	for primaryEnd < len(s) && isASCIILetter(s[primaryEnd]) {
		primaryEnd++
	}
	if primaryEnd < 2 || primaryEnd > 3 {
		return Undefined
	}
	primary := s[:primaryEnd]

	condition := condNone
	rest := s[primaryEnd:]
	for len(rest) > 0 {
		for len(rest) > 0 && !isASCIILetter(rest[0]) {
			rest = rest[1:]
		}
		subtagEnd := 0
		for subtagEnd < len(rest) && isASCIILetter(rest[subtagEnd]) {
			subtagEnd++
		}
		if subtagEnd == 0 {
			break
		}
		subtag := rest[:subtagEnd]
		rest = rest[subtagEnd:]

		if len(subtag) == 6 && subtag == "fonipa" {
			return Language{Code: MakeTag(primary), OpenType: TagPhoneticTranscription}
		}
		if c, ok := chineseRegionOrScript[subtag]; ok && primary == "zh" {
			condition = c
		}
	}

	openType := TagDefaultLanguage
	if primary == "zh" {
		switch condition {
		case condSimplified:
			openType = MakeTag("ZHS")
		case condTraditional:
			openType = MakeTag("ZHT")
		case condHongKong:
			openType = MakeTag("ZHH")
		default:
			openType = MakeTag("ZHS")
		}
	}

	return Language{Code: MakeTag(primary), OpenType: openType}
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// scriptLanguagePool maps a script to the languages whose
// Script_Extensions/coverage table lists it, the Go analogue of
// original_source's sorted-pool-plus-(start,count)-index layout
// (flattened to a map for clarity).
var scriptLanguagePool = map[gotext.Script][]string{
	gotext.Latin:      {"en", "fr", "de", "es", "it", "pt", "nl", "sv", "vi", "id"},
	gotext.Cyrillic:   {"ru", "uk", "bg", "sr", "mk"},
	gotext.Greek:      {"el"},
	gotext.Arabic:     {"ar", "fa", "ur", "ps"},
	gotext.Hebrew:     {"he", "yi"},
	gotext.Han:        {"zh", "ja", "ko"},
	gotext.Hiragana:   {"ja"},
	gotext.Katakana:   {"ja"},
	gotext.Hangul:     {"ko"},
	gotext.Devanagari: {"hi", "mr", "ne"},
	gotext.Thai:       {"th"},
	gotext.Armenian:   {"hy"},
	gotext.Georgian:   {"ka"},
}

var predominantLanguageForScript = map[gotext.Script]string{
	gotext.Latin:      "en",
	gotext.Cyrillic:   "ru",
	gotext.Greek:      "el",
	gotext.Arabic:     "ar",
	gotext.Hebrew:     "he",
	gotext.Han:        "zh",
	gotext.Hiragana:   "ja",
	gotext.Katakana:   "ja",
	gotext.Hangul:     "ko",
	gotext.Devanagari: "hi",
	gotext.Thai:       "th",
	gotext.Armenian:   "hy",
	gotext.Georgian:   "ka",
	gotext.Common:     "en",
	gotext.Inherited:  "en",
}

// IsScriptUsedForLanguage reports whether script's coverage table
// lists lang. Mirrors original_source's special case allowing the IPA
// phonetic-transcription language tag to be used with Latin script
// regardless of the regular table, since IPA symbols are predominantly
// Latin-based.
func IsScriptUsedForLanguage(script gotext.Script, lang Language) bool {
	if lang.IsUndefined() {
		return false
	}
	if lang.OpenType == TagPhoneticTranscription && script == gotext.Latin {
		return true
	}
	code := lang.Code.String()
	code = strings.TrimRight(code, " ")
	for _, c := range scriptLanguagePool[script] {
		if c == code {
			return true
		}
	}
	return false
}

// GetPredominantLanguageForScript returns the most common language for
// script, drawn from a static table.
func GetPredominantLanguageForScript(script gotext.Script) Language {
	code, ok := predominantLanguageForScript[script]
	if !ok {
		return Undefined
	}
	return ParseBCP47(code)
}

// GuessLanguageFromScript is the Run Splitter's fallback when an
// attribute run declares no usable language for the current script
// run; it is a synonym for GetPredominantLanguageForScript, kept as a
// distinct name because original_source calls it at a different site
// (script-run setup rather than per-attribute-run substitution).
func GuessLanguageFromScript(script gotext.Script) Language {
	return GetPredominantLanguageForScript(script)
}

// PreferredLanguagesSource supplies a caller's ordered list of
// preferred languages (e.g. system locale preferences), replacing
// original_source's direct CFLocaleCopyPreferredLanguages call with a
// pluggable interface, since this module has no platform binding.
type PreferredLanguagesSource interface {
	PreferredLanguages() []Language
}

// Resolve implements spec.md §4.3's resolution policy: a declared
// language usable for script wins outright; otherwise the first
// preferred language usable for script is chosen; otherwise the
// predominant language for script.
func Resolve(declared Language, script gotext.Script, preferred PreferredLanguagesSource) Language {
	if !declared.IsUndefined() && IsScriptUsedForLanguage(script, declared) {
		return declared
	}
	if preferred != nil {
		for _, l := range preferred.PreferredLanguages() {
			if IsScriptUsedForLanguage(script, l) {
				return l
			}
		}
	}
	return GetPredominantLanguageForScript(script)
}
