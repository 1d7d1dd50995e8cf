package deal

import "time"

// Stage tracks a deal through the brokerage pipeline.
type Stage string

const (
	StageSubmitted    Stage = "submitted"
	StageMatched      Stage = "matched"
	StageUnderwriting Stage = "underwriting"
	StageFunded       Stage = "funded"
	StageDeclined     Stage = "declined"
)

func (s Stage) Valid() bool {
	switch s {
	case StageSubmitted, StageMatched, StageUnderwriting, StageFunded, StageDeclined:
		return true
	default:
		return false
	}
}

// canTransition encodes the pipeline: deals move forward one stage at a
// time and can be declined from any stage before funding. Funded and
// declined are terminal.
func canTransition(from, to Stage) bool {
	switch from {
	case StageSubmitted:
		return to == StageMatched || to == StageDeclined
	case StageMatched:
		return to == StageUnderwriting || to == StageDeclined
	case StageUnderwriting:
		return to == StageFunded || to == StageDeclined
	default:
		return false
	}
}

// Deal mirrors the deals table.
type Deal struct {
	ID              string
	BusinessName    string
	LenderCategory  string
	LenderID        *string
	RequestedAmount int64
	FundedAmount    *int64
	CommissionCents *int64
	Stage           Stage
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TimelineEvent records a stage change on a deal.
type TimelineEvent struct {
	ID        string
	DealID    string
	FromStage Stage
	ToStage   Stage
	ActorID   *string
	Note      string
	CreatedAt time.Time
}
