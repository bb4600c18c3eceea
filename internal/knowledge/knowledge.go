// Package knowledge holds the curated lookup data every detector reads:
// phrase libraries, vocabulary lists, known plagiarism sources and the
// age-band expectation table. Everything here is loaded once and treated as
// immutable configuration; detectors receive a *Base and never mutate it.
package knowledge

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

//go:embed ai_vocabulary.json
var aiVocabularyJSON []byte

//go:embed known_sources.json
var knownSourcesJSON []byte

// Pattern is one phrase/regex known to correlate with machine-generated
// prose. Label is the human-readable indicator emitted on a match.
type Pattern struct {
	Regex *regexp.Regexp
	Label string
}

// Source identifies a known reusable text and how often it gets lifted.
type Source struct {
	Phrase    string `json:"phrase"`
	Source    string `json:"source"`
	Kind      string `json:"kind"`
	ReuseRisk int    `json:"reuse_risk"`
}

// AgeBand describes what writing from a given age range normally looks like.
type AgeBand struct {
	MinAge             int
	MaxAge             int
	MaxAvgSentenceLen  float64
	MaxComplexRatio    float64
	MaxLongWordRatio   float64
	SemicolonsExpected bool
	TypicalTopics      []string
}

type Base struct {
	AIPatterns           []Pattern
	ObviousAIPhrases     []string
	AIFavoredVocabulary  map[string]struct{}
	AdvancedVocabulary   map[string]struct{}
	FormalConnectives    map[string]struct{}
	NarrativeTransitions map[string]struct{}
	KnownSources         []Source
	AgeBands             []AgeBand
	Themes               map[string][]string
	SensoryWords         map[string][]string
	Cliches              []string
	ConflictWords        map[string]struct{}
	ResolutionWords      map[string]struct{}
	GrowthWords          map[string]struct{}
	ProblemWords         map[string]struct{}
	SolutionWords        map[string]struct{}
	InappropriateWords   map[string]struct{}
	FunctionWords        []string
	CulturalMarkers      map[string][]string
}

// Load parses the embedded data files and assembles the full knowledge base.
// It fails loudly on malformed data rather than starting with partial tables.
func Load() (*Base, error) {
	var vocab []string
	if err := json.Unmarshal(aiVocabularyJSON, &vocab); err != nil {
		return nil, fmt.Errorf("parse ai vocabulary: %w", err)
	}
	favored := make(map[string]struct{}, len(vocab))
	for _, w := range vocab {
		favored[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}

	var sources []Source
	if err := json.Unmarshal(knownSourcesJSON, &sources); err != nil {
		return nil, fmt.Errorf("parse known sources: %w", err)
	}
	for i, s := range sources {
		if strings.TrimSpace(s.Phrase) == "" {
			return nil, fmt.Errorf("known source %d has empty phrase", i)
		}
		sources[i].Phrase = strings.ToLower(s.Phrase)
	}

	return &Base{
		AIPatterns:           aiPatterns,
		ObviousAIPhrases:     obviousAIPhrases,
		AIFavoredVocabulary:  favored,
		AdvancedVocabulary:   advancedVocabulary,
		FormalConnectives:    formalConnectives,
		NarrativeTransitions: narrativeTransitions,
		KnownSources:         sources,
		AgeBands:             ageBands,
		Themes:               themeTaxonomy,
		SensoryWords:         sensoryWords,
		Cliches:              narrativeCliches,
		ConflictWords:        conflictWords,
		ResolutionWords:      resolutionWords,
		GrowthWords:          growthWords,
		ProblemWords:         problemWords,
		SolutionWords:        solutionWords,
		InappropriateWords:   inappropriateWords,
		FunctionWords:        functionWords,
		CulturalMarkers:      culturalMarkers,
	}, nil
}

// BandFor returns the expectation band covering the given age. Ages outside
// the table clamp to the nearest band.
func (b *Base) BandFor(age int) AgeBand {
	if len(b.AgeBands) == 0 {
		return AgeBand{MinAge: 0, MaxAge: 99, MaxAvgSentenceLen: 20, MaxComplexRatio: 0.25, MaxLongWordRatio: 0.30}
	}
	for _, band := range b.AgeBands {
		if age >= band.MinAge && age <= band.MaxAge {
			return band
		}
	}
	if age < b.AgeBands[0].MinAge {
		return b.AgeBands[0]
	}
	return b.AgeBands[len(b.AgeBands)-1]
}

var aiPatterns = []Pattern{
	{Regex: regexp.MustCompile(`(?i)\bin conclusion\b`), Label: "essay-style conclusion marker"},
	{Regex: regexp.MustCompile(`(?i)\bit is important to note\b`), Label: "hedging filler phrase"},
	{Regex: regexp.MustCompile(`(?i)\bdelve(?:s|d)? into\b`), Label: "overused 'delve into' construction"},
	{Regex: regexp.MustCompile(`(?i)\ba testament to\b`), Label: "'testament to' cliche"},
	{Regex: regexp.MustCompile(`(?i)\brich tapestry\b`), Label: "'rich tapestry' cliche"},
	{Regex: regexp.MustCompile(`(?i)\bsense of (?:wonder|awe|dread|foreboding)\b`), Label: "atmospheric 'sense of' framing"},
	{Regex: regexp.MustCompile(`(?i)\bthe air was (?:thick|heavy) with\b`), Label: "atmospheric cliche opener"},
	{Regex: regexp.MustCompile(`(?i)\blittle did (?:he|she|they|i) know\b`), Label: "canned foreshadowing phrase"},
	{Regex: regexp.MustCompile(`(?i)\bcouldn't help but\b`), Label: "'couldn't help but' filler"},
	{Regex: regexp.MustCompile(`(?i)\bheart pounding in (?:his|her|their|my) chest\b`), Label: "stock physical reaction"},
	{Regex: regexp.MustCompile(`(?i)\bshivers? (?:ran|running) down (?:his|her|their|my) spine\b`), Label: "stock physical reaction"},
	{Regex: regexp.MustCompile(`(?i)\bwith (?:a|an) newfound\b`), Label: "'newfound' transition"},
	{Regex: regexp.MustCompile(`(?i)\bas the sun (?:dipped|sank) below the horizon\b`), Label: "sunset scene-setting cliche"},
	{Regex: regexp.MustCompile(`(?i)\bbathed in (?:golden|silver|pale) light\b`), Label: "lighting cliche"},
	{Regex: regexp.MustCompile(`(?i)\bunbeknownst to\b`), Label: "archaic 'unbeknownst' construction"},
	{Regex: regexp.MustCompile(`(?i)\bin that moment\b`), Label: "'in that moment' filler"},
	{Regex: regexp.MustCompile(`(?i)\ba (?:wave|surge|flood) of (?:emotion|relief|fear|panic)\b`), Label: "stock emotion metaphor"},
	{Regex: regexp.MustCompile(`(?i)\bwords hung in the air\b`), Label: "'hung in the air' cliche"},
	{Regex: regexp.MustCompile(`(?i)\btime seemed to (?:slow|stand still|stop)\b`), Label: "time-dilation cliche"},
	{Regex: regexp.MustCompile(`(?i)\bdeafening silence\b`), Label: "'deafening silence' oxymoron cliche"},
}

// obviousAIPhrases short-circuit the advisory scorer. Two or more hits make
// the external call pointless.
var obviousAIPhrases = []string{
	"as an ai language model",
	"i cannot fulfill",
	"in conclusion",
	"it is important to note",
	"rich tapestry",
	"delve into",
	"a testament to",
	"furthermore, it is",
	"in today's world",
	"in summary",
}

var advancedVocabulary = wordSet(
	"juxtaposition", "dichotomy", "paradigm", "quintessential", "ubiquitous",
	"ephemeral", "ineffable", "inexorable", "perfunctory", "obfuscate",
	"sycophant", "anachronism", "vicissitude", "pulchritude", "sesquipedalian",
	"grandiloquent", "magnanimous", "perspicacious", "recalcitrant", "truculent",
	"insidious", "pernicious", "deleterious", "salubrious", "soporific",
)

var formalConnectives = wordSet(
	"furthermore", "moreover", "consequently", "nevertheless", "nonetheless",
	"accordingly", "henceforth", "thereby", "whereby", "notwithstanding",
	"subsequently", "additionally", "thus", "hence",
)

var narrativeTransitions = wordSet(
	"meanwhile", "suddenly", "eventually", "ultimately", "gradually",
	"instantly", "momentarily", "presently",
)

var ageBands = []AgeBand{
	{MinAge: 5, MaxAge: 7, MaxAvgSentenceLen: 8, MaxComplexRatio: 0.06, MaxLongWordRatio: 0.10,
		TypicalTopics: []string{"animals", "family", "toys", "school", "friends", "magic"}},
	{MinAge: 8, MaxAge: 10, MaxAvgSentenceLen: 11, MaxComplexRatio: 0.10, MaxLongWordRatio: 0.16,
		TypicalTopics: []string{"adventure", "friends", "school", "sports", "animals", "magic", "space"}},
	{MinAge: 11, MaxAge: 12, MaxAvgSentenceLen: 14, MaxComplexRatio: 0.14, MaxLongWordRatio: 0.22,
		TypicalTopics: []string{"adventure", "mystery", "friendship", "sports", "space", "fantasy"}},
	{MinAge: 13, MaxAge: 15, MaxAvgSentenceLen: 17, MaxComplexRatio: 0.18, MaxLongWordRatio: 0.28, SemicolonsExpected: true,
		TypicalTopics: []string{"identity", "friendship", "adventure", "mystery", "romance", "fantasy"}},
	{MinAge: 16, MaxAge: 99, MaxAvgSentenceLen: 20, MaxComplexRatio: 0.24, MaxLongWordRatio: 0.34, SemicolonsExpected: true,
		TypicalTopics: []string{"identity", "society", "relationships", "future", "conflict"}},
}

var themeTaxonomy = map[string][]string{
	"friendship":   {"friend", "friends", "friendship", "together", "helped", "sharing", "loyal"},
	"courage":      {"brave", "bravely", "courage", "scared", "afraid", "fear", "faced", "dared"},
	"kindness":     {"kind", "kindness", "helped", "caring", "gentle", "shared", "generous"},
	"perseverance": {"tried", "again", "kept", "practice", "practiced", "never", "gave", "finally"},
	"honesty":      {"truth", "honest", "lie", "lied", "admitted", "confessed", "sorry"},
	"family":       {"mom", "dad", "mother", "father", "sister", "brother", "grandma", "grandpa", "family"},
	"growth":       {"learned", "grew", "changed", "realized", "understood", "better", "wiser"},
	"teamwork":     {"team", "together", "worked", "helped", "everyone", "group"},
}

var sensoryWords = map[string][]string{
	"sight": {"saw", "looked", "watched", "bright", "dark", "shiny", "colorful", "glowed", "sparkled"},
	"sound": {"heard", "listened", "loud", "quiet", "whispered", "shouted", "banged", "creaked", "buzzed"},
	"smell": {"smelled", "sniffed", "stinky", "sweet", "fresh", "smoky", "scent"},
	"taste": {"tasted", "sweet", "sour", "bitter", "salty", "yummy", "delicious"},
	"touch": {"felt", "touched", "soft", "rough", "smooth", "cold", "warm", "sticky", "fuzzy"},
}

var narrativeCliches = []string{
	"once upon a time",
	"happily ever after",
	"it was all a dream",
	"in the nick of time",
	"dark and stormy night",
	"the chosen one",
	"before they knew it",
}

var conflictWords = wordSet(
	"problem", "trouble", "scared", "afraid", "lost", "stuck", "fight", "argued",
	"worried", "danger", "broke", "missing", "enemy", "storm",
)

var resolutionWords = wordSet(
	"solved", "fixed", "found", "saved", "safely", "rescued", "figured",
	"resolved", "finally", "home", "won", "escaped", "returned",
)

var growthWords = wordSet(
	"learned", "realized", "understood", "grew", "changed", "braver",
	"stronger", "wiser", "promised", "decided",
)

var problemWords = wordSet(
	"problem", "couldn't", "stuck", "lost", "broken", "needed", "trouble",
	"worried", "scared", "missing", "difficult", "hard",
)

var solutionWords = wordSet(
	"idea", "plan", "tried", "solved", "fixed", "helped", "found",
	"figured", "worked", "decided", "asked",
)

var inappropriateWords = wordSet(
	"kill", "murder", "blood", "gun", "knife", "stab", "drugs", "drunk",
	"cigarette", "suicide", "hell", "damn",
)

// functionWords is the stylometric fingerprint basis. Order is fixed so the
// feature vector is stable.
var functionWords = []string{
	"the", "and", "a", "to", "of", "in", "i", "he", "she", "it",
	"was", "that", "but", "for", "with", "as", "at", "on", "so", "then",
	"because", "however", "therefore", "although", "while", "which",
}

var culturalMarkers = map[string][]string{
	"american": {"mom", "color", "favorite", "soccer", "candy", "sidewalk", "apartment", "vacation", "cookies"},
	"british":  {"mum", "colour", "favourite", "football", "sweets", "pavement", "flat", "holiday", "biscuits"},
}

func wordSet(words ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		out[w] = struct{}{}
	}
	return out
}
