package enums

// ConsultationStatus tracks a consultation request. Values are capitalised on
// the wire.
type ConsultationStatus string

const (
	ConsultationStatusPending   ConsultationStatus = "Pending"
	ConsultationStatusScheduled ConsultationStatus = "Scheduled"
	ConsultationStatusCompleted ConsultationStatus = "Completed"
	ConsultationStatusCancelled ConsultationStatus = "Cancelled"
)

var (
	consultationStatuses = closedSet[ConsultationStatus]{
		ConsultationStatusPending, ConsultationStatusScheduled,
		ConsultationStatusCompleted, ConsultationStatusCancelled,
	}
	consultationFlow = edges[ConsultationStatus]{
		ConsultationStatusPending:   {ConsultationStatusScheduled, ConsultationStatusCancelled},
		ConsultationStatusScheduled: {ConsultationStatusCompleted, ConsultationStatusCancelled},
	}
)

func (s ConsultationStatus) String() string { return string(s) }

func (s ConsultationStatus) IsValid() bool { return consultationStatuses.has(s) }

func (s ConsultationStatus) CanTransitionTo(next ConsultationStatus) bool {
	return consultationFlow.allows(s, next)
}

func ParseConsultationStatus(value string) (ConsultationStatus, error) {
	return consultationStatuses.parse("consultation status", value)
}
