package services

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestWordFilter_MasksWithEqualLength(t *testing.T) {
	f := NewWordFilterWithTerms([]string{"slur"})

	got := f.Apply("you are a slur")
	want := "you are a ****"
	if got != want {
		t.Errorf("Apply() = %q, want %q", got, want)
	}
}

func TestWordFilter_CaseInsensitiveAllOccurrences(t *testing.T) {
	f := NewWordFilterWithTerms([]string{"boo"})

	got := f.Apply("Boo! I said BOO, not boo.")
	want := "***! I said ***, not ***."
	if got != want {
		t.Errorf("Apply() = %q, want %q", got, want)
	}
}

func TestWordFilter_Idempotent(t *testing.T) {
	f := NewWordFilter()

	inputs := []string{
		"what the hell is that",
		"damn, that costume is great",
		"clean message with no matches",
		"HELLo hellhell",
	}
	for _, s := range inputs {
		once := f.Apply(s)
		twice := f.Apply(once)
		if once != twice {
			t.Errorf("filter not idempotent for %q: first %q, second %q", s, once, twice)
		}
	}
}

func TestWordFilter_OrderDependent(t *testing.T) {
	// "abcd" overlaps "cdef" in "abcdef": whichever term runs first wins
	// the overlap, so reordering the list changes the result.
	ab := NewWordFilterWithTerms([]string{"abcd", "cdef"})
	ba := NewWordFilterWithTerms([]string{"cdef", "abcd"})

	input := "xxabcdefxx"
	gotAB := ab.Apply(input)
	gotBA := ba.Apply(input)

	if gotAB == gotBA {
		t.Errorf("expected order-dependent results, both were %q", gotAB)
	}
	if gotAB != "xx****efxx" {
		t.Errorf("abcd-first = %q, want %q", gotAB, "xx****efxx")
	}
	if gotBA != "xxab****xx" {
		t.Errorf("cdef-first = %q, want %q", gotBA, "xxab****xx")
	}
}

func TestWordFilter_TermInsideWord(t *testing.T) {
	f := NewWordFilterWithTerms([]string{"hell"})

	got := f.Apply("hello shell")
	if strings.Contains(strings.ToLower(got), "hell") {
		t.Errorf("Apply() left a match behind: %q", got)
	}
	if got != "****o s****" {
		t.Errorf("Apply() = %q, want %q", got, "****o s****")
	}
}

func TestWordFilter_UnicodeNeighborsStayIntact(t *testing.T) {
	// İ (U+0130) lowers to a shorter byte sequence; the text around a
	// match must come through unchanged and still be valid UTF-8.
	f := NewWordFilterWithTerms([]string{"damn"})

	got := f.Apply("İİİİİdamn")
	want := "İİİİİ****"
	if got != want {
		t.Errorf("Apply() = %q, want %q", got, want)
	}
	if !utf8.ValidString(got) {
		t.Errorf("Apply() produced invalid UTF-8: %q", got)
	}
}

func TestWordFilter_LoweringGrowsText(t *testing.T) {
	// Ⱥ (U+023A, 2 bytes) lowers to ⱥ (U+2C65, 3 bytes), so the folded
	// text is longer than the original.
	f := NewWordFilterWithTerms([]string{"damn"})

	input := strings.Repeat("Ⱥ", 8) + "damn"
	got := f.Apply(input)
	want := strings.Repeat("Ⱥ", 8) + "****"
	if got != want {
		t.Errorf("Apply() = %q, want %q", got, want)
	}
}

func TestWordFilter_NonASCIITerm(t *testing.T) {
	f := NewWordFilterWithTerms([]string{"Übel"})

	got := f.Apply("das ist ÜBEL, übel sag ich")
	want := "das ist ****, **** sag ich"
	if got != want {
		t.Errorf("Apply() = %q, want %q", got, want)
	}
}

func TestWordFilter_EmptyTermIgnored(t *testing.T) {
	f := NewWordFilterWithTerms([]string{"", "damn"})

	got := f.Apply("damn")
	if got != "****" {
		t.Errorf("Apply() = %q, want %q", got, "****")
	}
}
