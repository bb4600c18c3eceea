package knowledge

import "testing"

func TestLoad(t *testing.T) {
	b, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(b.AIFavoredVocabulary) == 0 {
		t.Fatal("AI-favored vocabulary is empty")
	}
	if len(b.AIPatterns) == 0 {
		t.Fatal("AI pattern table is empty")
	}
	if len(b.KnownSources) == 0 {
		t.Fatal("known sources table is empty")
	}
	for _, s := range b.KnownSources {
		if s.Phrase == "" || s.Source == "" {
			t.Fatalf("incomplete source entry: %+v", s)
		}
		if s.ReuseRisk < 0 || s.ReuseRisk > 100 {
			t.Fatalf("reuse risk %d out of range for %q", s.ReuseRisk, s.Phrase)
		}
	}
}

func TestKnownSourcesIncludeClassicOpenings(t *testing.T) {
	b, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, s := range b.KnownSources {
		if s.Phrase == "call me ishmael" {
			if s.ReuseRisk < 90 {
				t.Fatalf("reuse risk for %q = %d, want >= 90", s.Phrase, s.ReuseRisk)
			}
			return
		}
	}
	t.Fatal("missing the Moby-Dick opening in known sources")
}

func TestBandForClampsToNearestBand(t *testing.T) {
	b, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	young := b.BandFor(3)
	if young.MinAge != b.AgeBands[0].MinAge {
		t.Fatalf("age 3 band = %+v, want the youngest band", young)
	}
	old := b.BandFor(25)
	if old.MaxAge != b.AgeBands[len(b.AgeBands)-1].MaxAge {
		t.Fatalf("age 25 band = %+v, want the oldest band", old)
	}

	mid := b.BandFor(9)
	if mid.MinAge > 9 || mid.MaxAge < 9 {
		t.Fatalf("age 9 mapped to band %d-%d", mid.MinAge, mid.MaxAge)
	}
}

func TestAgeBandsAreOrderedAndContiguous(t *testing.T) {
	b, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for i := 1; i < len(b.AgeBands); i++ {
		prev, cur := b.AgeBands[i-1], b.AgeBands[i]
		if cur.MinAge != prev.MaxAge+1 {
			t.Fatalf("band %d starts at %d, band %d ends at %d: gap or overlap",
				i, cur.MinAge, i-1, prev.MaxAge)
		}
		if cur.MaxAvgSentenceLen <= prev.MaxAvgSentenceLen {
			t.Fatalf("sentence-length ceiling should grow with age: %v then %v",
				prev.MaxAvgSentenceLen, cur.MaxAvgSentenceLen)
		}
	}
}
