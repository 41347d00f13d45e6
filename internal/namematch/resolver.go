package namematch

// MatchResult reports the outcome of resolving one picked name against a
// candidate pool.
type MatchResult struct {
	PickName    string
	MatchedName string
	Score       float64
	Confidence  Confidence
	Reason      string
	AutoAccept  bool
}

// ConfidenceStats summarizes a batch of match results by tier.
type ConfidenceStats struct {
	Total          int
	Exact          int
	High           int
	Medium         int
	Low            int
	Unmatched      int
	AutoAccept     int
	AutoAcceptRate float64
}

// Resolver finds the best-scoring candidate for a picked name.
type Resolver struct {
	scorer *Scorer
}

// NewResolver wraps a scorer in a Resolver.
func NewResolver(scorer *Scorer) *Resolver {
	return &Resolver{scorer: scorer}
}

// Scorer exposes the underlying scorer.
func (r *Resolver) Scorer() *Scorer {
	return r.scorer
}

// FindBestMatch scores pickName against every candidate and returns the
// strictly highest scorer, keeping the first encountered on ties. It returns
// nil when no candidate scores above zero or the best score falls below
// minScore.
func (r *Resolver) FindBestMatch(pickName string, candidates []string, minScore float64) *MatchResult {
	var best *MatchResult
	for _, candidate := range candidates {
		score, reason := r.scorer.Score(pickName, candidate)
		if score <= 0 {
			continue
		}
		if best != nil && score <= best.Score {
			continue
		}
		best = &MatchResult{
			PickName:    pickName,
			MatchedName: candidate,
			Score:       score,
			Confidence:  r.scorer.Confidence(score),
			Reason:      reason,
			AutoAccept:  r.scorer.AutoAccept(score),
		}
	}
	if best == nil || best.Score < minScore {
		return nil
	}
	return best
}

// BatchMatch resolves each picked name against the same candidate pool. The
// returned slice is positionally aligned with pickNames; unresolved entries
// are nil.
func (r *Resolver) BatchMatch(pickNames, candidates []string, minScore float64) []*MatchResult {
	results := make([]*MatchResult, len(pickNames))
	for i, name := range pickNames {
		results[i] = r.FindBestMatch(name, candidates, minScore)
	}
	return results
}

// SummarizeMatches tallies a batch of results by confidence tier. Nil entries
// count as unmatched.
func SummarizeMatches(results []*MatchResult) ConfidenceStats {
	stats := ConfidenceStats{Total: len(results)}
	for _, result := range results {
		if result == nil {
			stats.Unmatched++
			continue
		}
		switch result.Confidence {
		case ConfidenceExact:
			stats.Exact++
		case ConfidenceHigh:
			stats.High++
		case ConfidenceMedium:
			stats.Medium++
		default:
			stats.Low++
		}
		if result.AutoAccept {
			stats.AutoAccept++
		}
	}
	if stats.Total > 0 {
		stats.AutoAcceptRate = float64(stats.AutoAccept) / float64(stats.Total)
	}
	return stats
}
