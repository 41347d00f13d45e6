package grading

import "tdpool/internal/store"

// KindCounts tallies graded picks of one bet type within a run.
type KindCounts struct {
	Graded      int
	Won         int
	Lost        int
	NeedsReview int
	Skipped     int
}

func (c *KindCounts) add(other KindCounts) {
	c.Graded += other.Graded
	c.Won += other.Won
	c.Lost += other.Lost
	c.NeedsReview += other.NeedsReview
	c.Skipped += other.Skipped
}

// GradeResult summarizes one grading run. A run that finds nothing to grade
// reports Err without returning a hard error, so callers can distinguish an
// empty week from a broken one.
type GradeResult struct {
	RunID       string
	Season      int
	Week        int
	GamesGraded int
	FirstTD     KindCounts
	Anytime     KindCounts
	WeeksGraded []int
	Err         string
}

// Success reports whether the run completed without a soft failure.
func (r *GradeResult) Success() bool {
	return r.Err == ""
}

// Totals combines the per-kind tallies.
func (r *GradeResult) Totals() KindCounts {
	totals := r.FirstTD
	totals.add(r.Anytime)
	return totals
}

func (r *GradeResult) countsFor(kind store.PickKind) *KindCounts {
	if kind == store.KindFirstTD {
		return &r.FirstTD
	}
	return &r.Anytime
}
