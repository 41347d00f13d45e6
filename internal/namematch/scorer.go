package namematch

import (
	"fmt"
	"strings"

	"tdpool/internal/services"
)

// Confidence is the qualitative bucket derived from a numeric score.
type Confidence string

const (
	ConfidenceExact  Confidence = "exact"
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Fixed rule scores and blend weights. The short-circuit scores are part of
// the grading contract; they are not configurable.
const (
	exactScore      = 1.0
	normalizedScore = 0.95
	orderSwapScore  = 0.92
	nicknameScore   = 0.90
	initialsScore   = 0.88
	surnameScore    = 0.95

	tokenWeight       = 0.55
	levenshteinWeight = 0.25
	sequenceWeight    = 0.20

	typoRescueMinLevenshtein = 0.90
	typoRescueFactor         = 0.85
)

// Thresholds holds the confidence cut-offs applied to raw scores.
type Thresholds struct {
	Exact      float64
	High       float64
	Medium     float64
	AutoAccept float64
}

// DefaultThresholds returns the standard cut-offs.
func DefaultThresholds() Thresholds {
	return Thresholds{Exact: 1.0, High: 0.85, Medium: 0.70, AutoAccept: 0.85}
}

// Validate rejects thresholds outside [0, 1] or ordered such that
// medium <= auto_accept <= exact does not hold.
func (t Thresholds) Validate() error {
	values := []struct {
		name  string
		value float64
	}{
		{"exact", t.Exact},
		{"high", t.High},
		{"medium", t.Medium},
		{"auto_accept", t.AutoAccept},
	}
	for _, v := range values {
		if v.value < 0 || v.value > 1 {
			return services.Wrap(services.ErrConfiguration, "namematch", "thresholds",
				fmt.Sprintf("%s threshold %v outside [0, 1]", v.name, v.value), nil)
		}
	}
	if t.Medium > t.AutoAccept {
		return services.Wrap(services.ErrConfiguration, "namematch", "thresholds",
			fmt.Sprintf("medium %v exceeds auto_accept %v", t.Medium, t.AutoAccept), nil)
	}
	if t.AutoAccept > t.Exact {
		return services.Wrap(services.ErrConfiguration, "namematch", "thresholds",
			fmt.Sprintf("auto_accept %v exceeds exact %v", t.AutoAccept, t.Exact), nil)
	}
	return nil
}

// Scorer turns two name strings into a similarity score with a reason.
// Construction is the only mutation point: the nickname table is copied and
// the thresholds validated up front.
type Scorer struct {
	thresholds Thresholds
	nicknames  map[string]string
}

// NewScorer builds a Scorer. A nil nickname table selects DefaultNicknames.
func NewScorer(thresholds Thresholds, nicknames map[string]string) (*Scorer, error) {
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}
	if nicknames == nil {
		nicknames = DefaultNicknames()
	}
	table := make(map[string]string, len(nicknames))
	for nick, full := range nicknames {
		table[Normalize(nick)] = strings.ToLower(strings.TrimSpace(full))
	}
	return &Scorer{thresholds: thresholds, nicknames: table}, nil
}

// Thresholds returns the configured cut-offs.
func (s *Scorer) Thresholds() Thresholds {
	return s.thresholds
}

// Score applies the match rules in order and returns the first that fires,
// falling through to the weighted similarity blend. Well-formed string input
// never fails; empty names simply score low.
func (s *Scorer) Score(pickName, candidateName string) (float64, string) {
	if pickName == candidateName {
		return exactScore, "exact match"
	}

	normPick := Normalize(pickName)
	normCandidate := Normalize(candidateName)
	if normPick == normCandidate {
		return normalizedScore, "normalized exact match"
	}

	if reason, ok := s.nicknameMatch(pickName, candidateName, normPick, normCandidate); ok {
		return nicknameScore, reason
	}

	pickTokens := strings.Fields(normPick)
	candidateTokens := strings.Fields(normCandidate)

	if len(pickTokens) == 2 && len(candidateTokens) == 2 &&
		pickTokens[0] == candidateTokens[1] && pickTokens[1] == candidateTokens[0] {
		return orderSwapScore, "name order variation (last, first)"
	}

	if initialsMatch(pickTokens, candidateTokens) {
		return initialsScore, fmt.Sprintf("initial match: %q -> %q", pickName, candidateName)
	}

	if surnameMatch(pickTokens, candidateTokens) {
		return surnameScore, fmt.Sprintf("surname match: %q -> %q", pickName, candidateName)
	}

	tokenSim := TokenSimilarity(pickName, candidateName)
	levSim := LevenshteinSimilarity(normPick, normCandidate)
	seqSim := SequenceSimilarity(normPick, normCandidate)

	combined := tokenSim*tokenWeight + levSim*levenshteinWeight + seqSim*sequenceWeight
	// Typo rescue: a near-identical string should not be dragged down by weak
	// token overlap.
	if levSim >= typoRescueMinLevenshtein && combined < levSim*typoRescueFactor {
		combined = levSim * typoRescueFactor
	}

	label := "low"
	switch {
	case combined >= s.thresholds.High:
		label = "high"
	case combined >= s.thresholds.Medium:
		label = "medium"
	}
	reason := fmt.Sprintf("%s similarity (token %.2f, levenshtein %.2f, sequence %.2f)",
		label, tokenSim, levSim, seqSim)
	return combined, reason
}

// Confidence classifies a score against the configured thresholds.
func (s *Scorer) Confidence(score float64) Confidence {
	switch {
	case score >= s.thresholds.Exact:
		return ConfidenceExact
	case score >= s.thresholds.High:
		return ConfidenceHigh
	case score >= s.thresholds.Medium:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// AutoAccept reports whether a score is confident enough to grade a pick
// without operator review.
func (s *Scorer) AutoAccept(score float64) bool {
	return score >= s.thresholds.AutoAccept
}

func (s *Scorer) nicknameMatch(pickName, candidateName, normPick, normCandidate string) (string, bool) {
	pickVariants := s.expandVariants(pickName)
	candidateVariants := s.expandVariants(candidateName)
	for _, pv := range pickVariants {
		for _, cv := range candidateVariants {
			if pv == cv {
				return fmt.Sprintf("nickname match: %q -> %q", pickName, candidateName), true
			}
			if pv == normPick && cv == normCandidate {
				// Unexpanded pair: bare token overlap is handled by the
				// surname rule and the blend, not the nickname rule.
				continue
			}
			if singleTokenEdgeMatch(strings.Fields(pv), strings.Fields(cv)) {
				return fmt.Sprintf("nickname expansion match: %q -> %q", pickName, candidateName), true
			}
		}
	}
	return "", false
}

// singleTokenEdgeMatch reports whether one side is a single token equal to
// the first or last token of the other side.
func singleTokenEdgeMatch(a, b []string) bool {
	if len(a) == 1 && len(b) > 1 {
		return a[0] == b[len(b)-1] || a[0] == b[0]
	}
	if len(b) == 1 && len(a) > 1 {
		return b[0] == a[len(a)-1] || b[0] == a[0]
	}
	return false
}

// surnameMatch reports whether a single-token name equals the other side's
// final token.
func surnameMatch(a, b []string) bool {
	if len(a) == 1 && len(b) > 1 {
		return a[0] == b[len(b)-1]
	}
	if len(b) == 1 && len(a) > 1 {
		return b[0] == a[len(a)-1]
	}
	return false
}

// initialsMatch requires equal token counts where every pair either matches
// exactly or pairs an initial (length <= 2) with a longer token it prefixes.
// At least one initial pair must be present.
func initialsMatch(a, b []string) bool {
	if len(a) == 0 || len(a) != len(b) {
		return false
	}
	sawInitial := false
	for i := range a {
		at, bt := a[i], b[i]
		switch {
		case len(at) <= 2 && len(at) < len(bt):
			if !strings.HasPrefix(bt, at) {
				return false
			}
			sawInitial = true
		case len(bt) <= 2 && len(bt) < len(at):
			if !strings.HasPrefix(at, bt) {
				return false
			}
			sawInitial = true
		default:
			if at != bt {
				return false
			}
		}
	}
	return sawInitial
}
