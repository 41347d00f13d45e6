package grading

import "tdpool/internal/store"

// Payout computes the profit for a settled pick from American odds. A win at
// positive odds pays stake*odds/100, at negative odds stake*100/|odds|. A
// loss forfeits the stake. Pending and push outcomes pay nothing.
func Payout(outcome store.Outcome, odds int, stake float64) float64 {
	switch outcome {
	case store.OutcomeWin:
		if odds > 0 {
			return stake * float64(odds) / 100
		}
		if odds < 0 {
			return stake * 100 / float64(-odds)
		}
		return 0
	case store.OutcomeLoss:
		return -stake
	default:
		return 0
	}
}
