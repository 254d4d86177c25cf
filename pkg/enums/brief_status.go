package enums

// BriefStatus tracks a project brief from submission to closure.
type BriefStatus string

const (
	BriefStatusPending   BriefStatus = "pending"
	BriefStatusActive    BriefStatus = "active"
	BriefStatusCompleted BriefStatus = "completed"
	BriefStatusCancelled BriefStatus = "cancelled"
)

var (
	briefStatuses = closedSet[BriefStatus]{
		BriefStatusPending, BriefStatusActive, BriefStatusCompleted, BriefStatusCancelled,
	}
	briefFlow = edges[BriefStatus]{
		BriefStatusPending: {BriefStatusActive, BriefStatusCancelled},
		BriefStatusActive:  {BriefStatusCompleted, BriefStatusCancelled},
	}
)

func (s BriefStatus) String() string { return string(s) }

func (s BriefStatus) IsValid() bool { return briefStatuses.has(s) }

// IsTerminal reports whether no further transitions are allowed.
func (s BriefStatus) IsTerminal() bool { return briefFlow.terminal(s) }

func (s BriefStatus) CanTransitionTo(next BriefStatus) bool { return briefFlow.allows(s, next) }

func ParseBriefStatus(value string) (BriefStatus, error) {
	return briefStatuses.parse("brief status", value)
}
