package textutil

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	doc := Normalize("The cat sat.  It purred!\n\nThen it slept.")
	if len(doc.Sentences) != 3 {
		t.Fatalf("got %d sentences, want 3: %v", len(doc.Sentences), doc.Sentences)
	}
	if len(doc.Paragraphs) != 2 {
		t.Fatalf("got %d paragraphs, want 2: %v", len(doc.Paragraphs), doc.Paragraphs)
	}
	if len(doc.Words) != 8 {
		t.Fatalf("got %d words, want 8: %v", len(doc.Words), doc.Words)
	}
}

func TestWordsKeepContractions(t *testing.T) {
	words := Words("She didn't know, but couldn't stop.")
	want := []string{"she", "didn't", "know", "but", "couldn't", "stop"}
	if len(words) != len(want) {
		t.Fatalf("got %v, want %v", words, want)
	}
	for i := range want {
		if words[i] != want[i] {
			t.Fatalf("word %d = %q, want %q", i, words[i], want[i])
		}
	}
}

func TestSyllableCount(t *testing.T) {
	cases := map[string]int{
		"cat":       1,
		"happy":     2,
		"beautiful": 3,
		"dog":       1,
		"because":   2,
	}
	for word, want := range cases {
		if got := SyllableCount(word); got != want {
			t.Fatalf("SyllableCount(%q) = %d, want %d", word, got, want)
		}
	}
}

func TestTypeTokenRatio(t *testing.T) {
	if got := TypeTokenRatio([]string{"a", "b", "c", "d"}); got != 1.0 {
		t.Fatalf("all-unique ttr = %v, want 1.0", got)
	}
	if got := TypeTokenRatio([]string{"a", "a", "a", "a"}); got != 0.25 {
		t.Fatalf("all-same ttr = %v, want 0.25", got)
	}
	if got := TypeTokenRatio(nil); got != 0 {
		t.Fatalf("empty ttr = %v, want 0", got)
	}
}

func TestMeanStd(t *testing.T) {
	mean, sd := MeanStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if mean != 5 {
		t.Fatalf("mean = %v, want 5", mean)
	}
	if math.Abs(sd-2) > 1e-9 {
		t.Fatalf("sd = %v, want 2", sd)
	}
}

func TestEntropyBounds(t *testing.T) {
	if got := Entropy([]string{"a", "a", "a"}); got != 0 {
		t.Fatalf("uniform-word entropy = %v, want 0", got)
	}
	got := Entropy([]string{"a", "b", "c", "d"})
	if math.Abs(got-2) > 1e-9 {
		t.Fatalf("four-unique entropy = %v, want 2 bits", got)
	}
}

func TestSlidingSentenceWindows(t *testing.T) {
	sentences := []string{"one", "two", "three", "four", "five"}
	windows := SlidingSentenceWindows(sentences, 3, 1)
	if len(windows) != 3 {
		t.Fatalf("got %d windows, want 3", len(windows))
	}
	if windows[0].Text != "one. two. three" {
		t.Fatalf("first window = %q", windows[0].Text)
	}
	if windows[2].Text != "three. four. five" {
		t.Fatalf("last window = %q", windows[2].Text)
	}

	if got := SlidingSentenceWindows([]string{"only"}, 3, 1); len(got) != 1 {
		t.Fatalf("short input should yield one window, got %d", len(got))
	}
}

func TestInformalMarkers(t *testing.T) {
	text := "I can't believe it!! We won... it was so cool!"
	if got := ContractionCount(text); got != 1 {
		t.Fatalf("contractions = %d, want 1", got)
	}
	if got := EllipsisCount(text); got != 1 {
		t.Fatalf("ellipses = %d, want 1", got)
	}
	if got := RepeatedPunctCount(text); got != 1 {
		t.Fatalf("repeated punctuation = %d, want 1", got)
	}
	// Markers: one contraction, one ellipsis, three exclamation marks.
	if got := InformalMarkerCount(text); got != 5 {
		t.Fatalf("informal markers = %d, want 5", got)
	}
}

func TestComplexWordRatio(t *testing.T) {
	words := []string{"cat", "dog", "beautiful", "extraordinary"}
	got := ComplexWordRatio(words)
	if got != 0.5 {
		t.Fatalf("complex ratio = %v, want 0.5", got)
	}
}

func TestFirstWords(t *testing.T) {
	if got := FirstWords("one two three four", 2); got != "one two..." {
		t.Fatalf("FirstWords = %q, want truncation marker", got)
	}
	if got := FirstWords("one two", 10); got != "one two" {
		t.Fatalf("FirstWords = %q, want full text", got)
	}
}
