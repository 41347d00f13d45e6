package review

import (
	"context"
	"sort"

	"tdpool/internal/store"
)

// Stats aggregates match decisions by review state and confidence tier.
type Stats struct {
	Total          int
	NeedsReview    int
	AutoAccepted   int
	Approved       int
	Rejected       int
	AutoAcceptRate float64
	ByConfidence   map[string]int
}

// Stats tallies every recorded decision.
func (w *Workflow) Stats(ctx context.Context) (*Stats, error) {
	decisions, err := w.store.AllDecisions(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{ByConfidence: make(map[string]int)}
	for _, decision := range decisions {
		stats.Total++
		stats.ByConfidence[decision.Confidence]++
		switch decision.State() {
		case store.StateNeedsReview:
			stats.NeedsReview++
		case store.StateAutoAccepted:
			stats.AutoAccepted++
		case store.StateManuallyApproved:
			stats.Approved++
		case store.StateManuallyRejected:
			stats.Rejected++
		}
	}
	if stats.Total > 0 {
		stats.AutoAcceptRate = float64(stats.AutoAccepted) / float64(stats.Total)
	}
	return stats, nil
}

// PendingSort orders the review queue listing.
type PendingSort string

const (
	SortByDate       PendingSort = "date"
	SortByConfidence PendingSort = "confidence"
	SortByScore      PendingSort = "score"
)

var confidenceRank = map[string]int{
	"exact":  0,
	"high":   1,
	"medium": 2,
	"low":    3,
}

// Pending returns the open decisions ordered by the requested sort. Date
// order is oldest first; confidence and score orders put the strongest
// matches first.
func (w *Workflow) Pending(ctx context.Context, order PendingSort) ([]*store.MatchDecision, error) {
	pending, err := w.store.DecisionsNeedingReview(ctx)
	if err != nil {
		return nil, err
	}

	switch order {
	case SortByConfidence:
		sort.SliceStable(pending, func(i, j int) bool {
			ri, rj := confidenceRank[pending[i].Confidence], confidenceRank[pending[j].Confidence]
			if ri != rj {
				return ri < rj
			}
			return pending[i].Score > pending[j].Score
		})
	case SortByScore:
		sort.SliceStable(pending, func(i, j int) bool {
			return pending[i].Score > pending[j].Score
		})
	default:
		// DecisionsNeedingReview already returns oldest first.
	}
	return pending, nil
}
