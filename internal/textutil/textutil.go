package textutil

import (
	"math"
	"regexp"
	"strings"
)

var (
	wordPattern     = regexp.MustCompile(`[A-Za-z']+`)
	sentenceEnd     = regexp.MustCompile(`[.!?]+`)
	multiSpace      = regexp.MustCompile(`[ \t]+`)
	multiNewLine    = regexp.MustCompile(`\n{3,}`)
	repeatedPunct   = regexp.MustCompile(`[!?.]{2,}`)
	vowelGroup      = regexp.MustCompile(`[aeiouy]+`)
	contractionMark = regexp.MustCompile(`\b[A-Za-z]+'(?:s|t|re|ve|ll|d|m)\b`)
	exclamationMark = regexp.MustCompile(`!`)
	ellipsis        = regexp.MustCompile(`\.\.\.|…`)
)

// Doc is the normalized view of one submission shared by every detector.
// Segmentation happens once; detectors read the same words, sentences and
// paragraphs so their offsets agree.
type Doc struct {
	Raw        string
	Normalized string
	Words      []string
	Sentences  []string
	Paragraphs []string
}

func Normalize(text string) Doc {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	normalized = multiSpace.ReplaceAllString(normalized, " ")
	normalized = multiNewLine.ReplaceAllString(normalized, "\n\n")
	normalized = strings.TrimSpace(normalized)

	return Doc{
		Raw:        text,
		Normalized: normalized,
		Words:      Words(normalized),
		Sentences:  Sentences(normalized),
		Paragraphs: Paragraphs(normalized),
	}
}

// Words lowercases and keeps letter/apostrophe runs only.
func Words(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

func Sentences(text string) []string {
	parts := sentenceEnd.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, s := range parts {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

func Paragraphs(text string) []string {
	parts := strings.Split(text, "\n\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SentenceWindow is an overlapping run of consecutive sentences.
type SentenceWindow struct {
	Index         int
	StartSentence int
	EndSentence   int
	Text          string
}

// SlidingSentenceWindows yields overlapping windows of windowSentences
// sentences advancing by step, rejoined with ". " so the first sentence can
// be recovered by cutting at the first period. A short text produces a
// single window.
func SlidingSentenceWindows(sentences []string, windowSentences, step int) []SentenceWindow {
	if windowSentences <= 0 || len(sentences) == 0 {
		return nil
	}
	if step <= 0 {
		step = 1
	}
	if len(sentences) <= windowSentences {
		return []SentenceWindow{{
			Index:         0,
			StartSentence: 0,
			EndSentence:   len(sentences),
			Text:          strings.Join(sentences, ". "),
		}}
	}
	out := make([]SentenceWindow, 0, (len(sentences)/step)+1)
	for start := 0; start < len(sentences); start += step {
		end := start + windowSentences
		if end > len(sentences) {
			end = len(sentences)
		}
		out = append(out, SentenceWindow{
			Index:         len(out),
			StartSentence: start,
			EndSentence:   end,
			Text:          strings.Join(sentences[start:end], ". "),
		})
		if end == len(sentences) {
			break
		}
	}
	return out
}

// SentenceLengthStats returns the mean and standard deviation of per-sentence
// word counts. Empty sentences are skipped.
func SentenceLengthStats(text string) (mean, sd float64) {
	lengths := SentenceLengths(text)
	return MeanStd(lengths)
}

func SentenceLengths(text string) []float64 {
	sentences := Sentences(text)
	lengths := make([]float64, 0, len(sentences))
	for _, s := range sentences {
		count := float64(len(Words(s)))
		if count > 0 {
			lengths = append(lengths, count)
		}
	}
	return lengths
}

func MeanStd(values []float64) (mean, sd float64) {
	if len(values) == 0 {
		return 0, 0
	}
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	if len(values) == 1 {
		return mean, 0
	}
	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

// TypeTokenRatio is distinct words over total words.
func TypeTokenRatio(words []string) float64 {
	if len(words) == 0 {
		return 0
	}
	seen := map[string]struct{}{}
	for _, w := range words {
		seen[w] = struct{}{}
	}
	return float64(len(seen)) / float64(len(words))
}

// Entropy is the Shannon entropy (bits) of the word-frequency distribution.
func Entropy(words []string) float64 {
	if len(words) == 0 {
		return 0
	}
	freq := map[string]int{}
	for _, w := range words {
		freq[w]++
	}
	total := float64(len(words))
	h := 0.0
	for _, count := range freq {
		p := float64(count) / total
		h -= p * math.Log2(p)
	}
	return h
}

// SyllableCount approximates syllables by counting vowel groups, trimming a
// trailing silent e. Always at least one per word.
func SyllableCount(word string) int {
	w := strings.ToLower(strings.TrimSpace(word))
	if w == "" {
		return 0
	}
	if strings.HasSuffix(w, "e") && !strings.HasSuffix(w, "le") && len(w) > 2 {
		w = w[:len(w)-1]
	}
	groups := len(vowelGroup.FindAllString(w, -1))
	if groups < 1 {
		return 1
	}
	return groups
}

// ComplexWordRatio is the share of words with three or more syllables.
func ComplexWordRatio(words []string) float64 {
	if len(words) == 0 {
		return 0
	}
	hard := 0
	for _, w := range words {
		if SyllableCount(w) >= 3 {
			hard++
		}
	}
	return float64(hard) / float64(len(words))
}

// LongWordRatio is the share of words of at least minLen letters.
func LongWordRatio(words []string, minLen int) float64 {
	if len(words) == 0 {
		return 0
	}
	long := 0
	for _, w := range words {
		if len(w) >= minLen {
			long++
		}
	}
	return float64(long) / float64(len(words))
}

func ContractionCount(text string) int {
	return len(contractionMark.FindAllString(text, -1))
}

func ExclamationCount(text string) int {
	return len(exclamationMark.FindAllString(text, -1))
}

func EllipsisCount(text string) int {
	return len(ellipsis.FindAllString(text, -1))
}

func RepeatedPunctCount(text string) int {
	// Ellipses are a separate casual marker, not sloppy punctuation.
	stripped := ellipsis.ReplaceAllString(text, " ")
	return len(repeatedPunct.FindAllString(stripped, -1))
}

// InformalMarkerCount counts casual writing artifacts: contractions,
// ellipses and exclamation runs. Their total absence in a non-trivial text
// is itself a detection signal.
func InformalMarkerCount(text string) int {
	return ContractionCount(text) + EllipsisCount(text) + ExclamationCount(text)
}

func FirstWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ") + "..."
}
