package langres

import (
	"testing"

	gotext "github.com/go-text/typesetting/language"
)

func TestParseBCP47Simple(t *testing.T) {
	l := ParseBCP47("en")
	if l.Code.String() != "en  " {
		t.Errorf("got code %q", l.Code.String())
	}
	if l.OpenType != TagDefaultLanguage {
		t.Errorf("got opentype tag %q", l.OpenType.String())
	}
}

func TestParseBCP47FonipaSpecialCase(t *testing.T) {
	l := ParseBCP47("en-fonipa")
	if l.OpenType != TagPhoneticTranscription {
		t.Errorf("expected IPPH tag, got %q", l.OpenType.String())
	}
}

func TestParseBCP47ChineseConditions(t *testing.T) {
	cases := map[string]string{
		"zh-Hans": "ZHS ",
		"zh-Hant": "ZHT ",
		"zh-HK":   "ZHH ",
		"zh-CN":   "ZHS ",
		"zh-TW":   "ZHT ",
	}
	for in, want := range cases {
		l := ParseBCP47(in)
		if got := l.OpenType.String(); got != want {
			t.Errorf("ParseBCP47(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseBCP47Empty(t *testing.T) {
	if l := ParseBCP47(""); !l.IsUndefined() {
		t.Errorf("expected undefined, got %v", l)
	}
}

func TestIsScriptUsedForLanguage(t *testing.T) {
	en := ParseBCP47("en")
	if !IsScriptUsedForLanguage(gotext.Latin, en) {
		t.Error("expected en to be used for Latin")
	}
	if IsScriptUsedForLanguage(gotext.Han, en) {
		t.Error("did not expect en to be used for Han")
	}
}

func TestIsScriptUsedForLanguageIPAException(t *testing.T) {
	ipa := ParseBCP47("en-fonipa")
	if !IsScriptUsedForLanguage(gotext.Latin, ipa) {
		t.Error("expected the IPA phonetic-transcription exception to cover Latin")
	}
}

func TestGetPredominantLanguageForScript(t *testing.T) {
	l := GetPredominantLanguageForScript(gotext.Han)
	if l.Code.String() != "zh  " {
		t.Errorf("got %q", l.Code.String())
	}
}

type fakePreferred []Language

func (f fakePreferred) PreferredLanguages() []Language { return f }

func TestResolvePrefersDeclaredWhenUsable(t *testing.T) {
	declared := ParseBCP47("fr")
	got := Resolve(declared, gotext.Latin, nil)
	if got != declared {
		t.Errorf("expected declared language to win, got %v", got)
	}
}

func TestResolveFallsBackToPreferredThenPredominant(t *testing.T) {
	declared := ParseBCP47("en") // not usable for Han
	preferred := fakePreferred{ParseBCP47("ja")}
	got := Resolve(declared, gotext.Han, preferred)
	if got.Code.String() != "ja  " {
		t.Errorf("expected preferred ja to win, got %v", got)
	}

	got2 := Resolve(declared, gotext.Han, nil)
	if got2.Code.String() != "zh  " {
		t.Errorf("expected predominant zh, got %v", got2)
	}
}
