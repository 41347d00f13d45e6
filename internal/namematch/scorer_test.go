package namematch

import (
	"errors"
	"testing"

	"tdpool/internal/services"
)

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()
	scorer, err := NewScorer(DefaultThresholds(), nil)
	if err != nil {
		t.Fatalf("NewScorer: %v", err)
	}
	return scorer
}

func TestScoreExactMatch(t *testing.T) {
	scorer := newTestScorer(t)
	score, reason := scorer.Score("Patrick Mahomes", "Patrick Mahomes")
	if score != 1.0 {
		t.Fatalf("score = %v, want 1.0", score)
	}
	if reason != "exact match" {
		t.Fatalf("reason = %q", reason)
	}
	if scorer.Confidence(score) != ConfidenceExact {
		t.Fatalf("confidence = %s", scorer.Confidence(score))
	}
}

func TestScoreNormalizedMatch(t *testing.T) {
	scorer := newTestScorer(t)
	score, _ := scorer.Score("AJ Brown", "A.J. Brown")
	if score != 0.95 {
		t.Fatalf("score = %v, want 0.95", score)
	}
	if !scorer.AutoAccept(score) {
		t.Fatal("expected auto-accept at 0.95")
	}
}

func TestScoreSurnameShortCircuit(t *testing.T) {
	scorer := newTestScorer(t)
	score, _ := scorer.Score("Mahomes", "Patrick Mahomes")
	if score != 0.95 {
		t.Fatalf("score = %v, want 0.95", score)
	}
	if scorer.Confidence(score) != ConfidenceHigh {
		t.Fatalf("confidence = %s, want high", scorer.Confidence(score))
	}
	if !scorer.AutoAccept(score) {
		t.Fatal("expected auto-accept for bare surname")
	}
}

func TestScoreNicknameVariants(t *testing.T) {
	scorer := newTestScorer(t)
	cases := [][2]string{
		{"Chris Olave", "Christopher Olave"},
		{"Hollywood", "Marquise Brown"},
		{"CMC", "Christian McCaffrey"},
	}
	for _, pair := range cases {
		score, _ := scorer.Score(pair[0], pair[1])
		if score != 0.90 {
			t.Errorf("Score(%q, %q) = %v, want 0.90", pair[0], pair[1], score)
		}
	}
}

func TestScoreOrderSwap(t *testing.T) {
	scorer := newTestScorer(t)
	score, _ := scorer.Score("Kelce Travis", "Travis Kelce")
	if score != 0.92 {
		t.Fatalf("score = %v, want 0.92", score)
	}
}

func TestScoreInitials(t *testing.T) {
	scorer := newTestScorer(t)
	score, _ := scorer.Score("P. Mahomes", "Patrick Mahomes")
	if score != 0.88 {
		t.Fatalf("score = %v, want 0.88", score)
	}
}

func TestScoreDifferentPlayersSameSurnameStaysLow(t *testing.T) {
	scorer := newTestScorer(t)
	score, _ := scorer.Score("Travis Kelce", "Jason Kelce")
	if score >= scorer.Thresholds().Medium {
		t.Fatalf("score = %v, expected below medium threshold %v",
			score, scorer.Thresholds().Medium)
	}
	if scorer.Confidence(score) != ConfidenceLow {
		t.Fatalf("confidence = %s, want low", scorer.Confidence(score))
	}
}

func TestScoreTypoLandsInMediumTier(t *testing.T) {
	scorer := newTestScorer(t)
	score, _ := scorer.Score("Patrik Mahomes", "Patrick Mahomes")
	if score < scorer.Thresholds().Medium || score >= scorer.Thresholds().High {
		t.Fatalf("score = %v, expected within [%v, %v)",
			score, scorer.Thresholds().Medium, scorer.Thresholds().High)
	}
	if scorer.AutoAccept(score) {
		t.Fatal("medium score must not auto-accept")
	}
}

func TestScoreTypoRescueFloor(t *testing.T) {
	scorer := newTestScorer(t)
	// Single-character edits inside an unbroken string keep the blend from
	// dropping below 85% of the Levenshtein similarity.
	score, _ := scorer.Score("Hockensonn", "Hockenson")
	lev := LevenshteinSimilarity("hockensonn", "hockenson")
	if lev < 0.90 {
		t.Fatalf("test fixture too noisy: lev = %v", lev)
	}
	if score < lev*0.85 {
		t.Fatalf("score = %v dropped below rescue floor %v", score, lev*0.85)
	}
}

func TestThresholdValidation(t *testing.T) {
	cases := []struct {
		name       string
		thresholds Thresholds
	}{
		{"exact above one", Thresholds{Exact: 1.5, High: 0.85, Medium: 0.70, AutoAccept: 0.85}},
		{"negative medium", Thresholds{Exact: 1.0, High: 0.85, Medium: -0.1, AutoAccept: 0.85}},
		{"medium above auto-accept", Thresholds{Exact: 1.0, High: 0.85, Medium: 0.90, AutoAccept: 0.85}},
		{"auto-accept above exact", Thresholds{Exact: 0.9, High: 0.85, Medium: 0.70, AutoAccept: 0.95}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewScorer(tc.thresholds, nil)
			if err == nil {
				t.Fatal("expected a configuration error")
			}
			if !errors.Is(err, services.ErrConfiguration) {
				t.Fatalf("error %v is not a configuration error", err)
			}
		})
	}
}

func TestNicknameTableCopiedAtConstruction(t *testing.T) {
	table := map[string]string{"pat": "patrick"}
	scorer, err := NewScorer(DefaultThresholds(), table)
	if err != nil {
		t.Fatalf("NewScorer: %v", err)
	}
	table["pat"] = "patricia"
	score, _ := scorer.Score("Pat Mahomes", "Patrick Mahomes")
	if score != 0.90 {
		t.Fatalf("score = %v, want 0.90 from the original table", score)
	}
}
