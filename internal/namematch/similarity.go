package namematch

import "math"

const (
	surnameTokenScore   = 0.95
	firstNameTokenScore = 0.75
	tokenBaseWeight     = 0.80
	tokenPenaltyWeight  = 0.20
	lastNameBonus       = 1.15
)

// LevenshteinSimilarity maps edit distance into [0, 1]:
// 1 - distance/max(len). Empty versus non-empty scores 0; two empty strings
// score 1. Symmetric by construction.
func LevenshteinSimilarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	ra := []rune(a)
	rb := []rune(b)
	distance := levenshteinDistance(ra, rb)
	longest := max(len(ra), len(rb))
	return 1 - float64(distance)/float64(longest)
}

// levenshteinDistance computes the standard insert/delete/substitute edit
// distance with unit costs, using the two-row dynamic programming recurrence.
func levenshteinDistance(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	if len(b) == 0 {
		return len(a)
	}

	previous := make([]int, len(b)+1)
	current := make([]int, len(b)+1)
	for j := range previous {
		previous[j] = j
	}
	for i, ca := range a {
		current[0] = i + 1
		for j, cb := range b {
			insertion := previous[j+1] + 1
			deletion := current[j] + 1
			substitution := previous[j]
			if ca != cb {
				substitution++
			}
			current[j+1] = min(insertion, deletion, substitution)
		}
		previous, current = current, previous
	}
	return previous[len(b)]
}

// TokenSimilarity scores two names by word overlap. A single-token name
// against a multi-token name is special-cased: matching the surname scores
// 0.95, matching the first name 0.75. The general case favors the smaller
// name (intersection over the smaller token set), penalizes size mismatch,
// and rewards matching surnames.
func TokenSimilarity(a, b string) float64 {
	ta := Tokenize(a)
	tb := Tokenize(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	if len(ta) == 1 && len(tb) > 1 {
		if ta[0] == tb[len(tb)-1] {
			return surnameTokenScore
		}
		if ta[0] == tb[0] {
			return firstNameTokenScore
		}
	} else if len(tb) == 1 && len(ta) > 1 {
		if tb[0] == ta[len(ta)-1] {
			return surnameTokenScore
		}
		if tb[0] == ta[0] {
			return firstNameTokenScore
		}
	}

	setA := toSet(ta)
	setB := toSet(tb)
	intersection := 0
	for token := range setA {
		if _, ok := setB[token]; ok {
			intersection++
		}
	}
	if intersection == 0 {
		return 0
	}

	smaller := min(len(setA), len(setB))
	longest := max(len(ta), len(tb))
	base := float64(intersection) / float64(smaller)
	sizePenalty := 1 - math.Abs(float64(len(ta)-len(tb)))/float64(longest)
	score := base*tokenBaseWeight + sizePenalty*tokenPenaltyWeight

	if ta[len(ta)-1] == tb[len(tb)-1] {
		score = math.Min(1, score*lastNameBonus)
	}
	return score
}

// SequenceSimilarity is the character-level alignment ratio 2*M/T, where M is
// the longest common subsequence length and T the total length of both
// strings. Inputs are expected to be normalized already.
func SequenceSimilarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	ra := []rune(a)
	rb := []rune(b)
	matched := lcsLength(ra, rb)
	return 2 * float64(matched) / float64(len(ra)+len(rb))
}

func lcsLength(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	previous := make([]int, len(b)+1)
	current := make([]int, len(b)+1)
	for _, ca := range a {
		for j, cb := range b {
			if ca == cb {
				current[j+1] = previous[j] + 1
			} else {
				current[j+1] = max(previous[j+1], current[j])
			}
		}
		previous, current = current, previous
		for j := range current {
			current[j] = 0
		}
	}
	return previous[len(b)]
}

func toSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		set[token] = struct{}{}
	}
	return set
}
