package newline

import (
	"reflect"
	"testing"
)

func TestIsParagraphSeparator(t *testing.T) {
	for _, r := range []rune{lf, cr, nel, ps} {
		if !IsParagraphSeparator(r) {
			t.Errorf("%U: expected paragraph separator", r)
		}
	}
	for _, r := range []rune{vt, ff, ls, 'a', ' '} {
		if IsParagraphSeparator(r) {
			t.Errorf("%U: unexpected paragraph separator", r)
		}
	}
}

func TestIsLineSeparator(t *testing.T) {
	for _, r := range []rune{vt, ff, ls} {
		if !IsLineSeparator(r) {
			t.Errorf("%U: expected line separator", r)
		}
	}
	for _, r := range []rune{lf, cr, nel, ps, 'a'} {
		if IsLineSeparator(r) {
			t.Errorf("%U: unexpected line separator", r)
		}
	}
}

func TestSplitEmpty(t *testing.T) {
	if got := Split(nil); got != nil {
		t.Errorf("expected zero paragraphs, got %v", got)
	}
}

func TestSplitNoSeparator(t *testing.T) {
	got := Split([]rune("abcde"))
	want := []Range{{0, 5}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSplitSimple(t *testing.T) {
	got := Split([]rune("abcde\nfghijk"))
	want := []Range{{0, 5}, {6, 12}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSplitCRLFIsSingleSeparator(t *testing.T) {
	got := Split([]rune("abc\r\ndef"))
	want := []Range{{0, 3}, {5, 8}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSplitTrailingSeparatorYieldsFinalEmptyParagraph(t *testing.T) {
	got := Split([]rune("abc\n"))
	want := []Range{{0, 3}, {4, 4}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSplitLineSeparatorsDoNotSplitParagraphs(t *testing.T) {
	got := Split([]rune("abc def"))
	want := []Range{{0, 7}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
