package store

import "time"

// PickKind distinguishes the two pool bet types.
type PickKind string

const (
	// KindFirstTD pays only on the game's first touchdown scorer.
	KindFirstTD PickKind = "ftd"
	// KindAnytime pays on any touchdown scorer in the game.
	KindAnytime PickKind = "atts"
)

// ValidKind reports whether the kind is one of the known bet types.
func ValidKind(kind PickKind) bool {
	return kind == KindFirstTD || kind == KindAnytime
}

// Outcome is the graded result of a pick.
type Outcome string

const (
	OutcomePending Outcome = "pending"
	OutcomeWin     Outcome = "win"
	OutcomeLoss    Outcome = "loss"
	OutcomePush    Outcome = "push"
)

// ManualDecision records an operator's ruling on a match decision.
type ManualDecision string

const (
	ManualNone     ManualDecision = ""
	ManualApproved ManualDecision = "approved"
	ManualRejected ManualDecision = "rejected"
)

// DecisionState describes where a match decision sits in the review
// lifecycle.
type DecisionState string

const (
	StateAutoAccepted     DecisionState = "auto_accepted"
	StateNeedsReview      DecisionState = "needs_review"
	StateManuallyApproved DecisionState = "manually_approved"
	StateManuallyRejected DecisionState = "manually_rejected"
)

// Game is one scheduled matchup within a season week.
type Game struct {
	ID              int64
	GameID          string
	Season          int
	Week            int
	HomeTeam        string
	AwayTeam        string
	FirstScorerName string
	FirstScorerTeam string
	Final           bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ScorerRecord is one touchdown scorer credited in a game. First marks the
// game's opening touchdown.
type ScorerRecord struct {
	ID         int64
	GameID     string
	PlayerName string
	Team       string
	PlayerID   string
	First      bool
}

// Pick is one pool entry: an owner's named player in a game at given odds
// and stake.
type Pick struct {
	ID         int64
	Owner      string
	GameID     string
	Kind       PickKind
	PlayerName string
	Odds       int
	Stake      float64
	Outcome    Outcome
	Payout     float64
	GradedAt   *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Graded reports whether the pick has a settled outcome.
func (p *Pick) Graded() bool {
	return p.Outcome != OutcomePending && p.Outcome != ""
}

// MatchDecision records how a picked name was resolved against a scorer,
// and any manual review applied afterwards.
type MatchDecision struct {
	ID           int64
	PickID       int64
	PickName     string
	ScorerName   string
	Score        float64
	Confidence   string
	Reason       string
	AutoAccepted bool
	NeedsReview  bool
	Manual       ManualDecision
	ReviewedBy   string
	CreatedAt    time.Time
	ReviewedAt   *time.Time
}

// State derives the review lifecycle position from the stored flags. Manual
// rulings dominate; an open decision is needs_review.
func (d *MatchDecision) State() DecisionState {
	switch d.Manual {
	case ManualApproved:
		return StateManuallyApproved
	case ManualRejected:
		return StateManuallyRejected
	}
	if d.NeedsReview {
		return StateNeedsReview
	}
	return StateAutoAccepted
}

// Open reports whether the decision still awaits an operator ruling.
func (d *MatchDecision) Open() bool {
	return d.State() == StateNeedsReview
}
