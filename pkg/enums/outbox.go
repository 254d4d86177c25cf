package enums

// OutboxAggregateType names the entity an outbox event describes.
type OutboxAggregateType string

const (
	AggregateOrder        OutboxAggregateType = "order"
	AggregateVendor       OutboxAggregateType = "vendor"
	AggregateOtpChallenge OutboxAggregateType = "otp_challenge"
	AggregateProjectBrief OutboxAggregateType = "project_brief"
	AggregateConsultation OutboxAggregateType = "consultation_request"
)

var aggregateTypes = closedSet[OutboxAggregateType]{
	AggregateOrder, AggregateVendor, AggregateOtpChallenge, AggregateProjectBrief, AggregateConsultation,
}

func (a OutboxAggregateType) IsValid() bool { return aggregateTypes.has(a) }

// OutboxEventType names a domain event relayed through the outbox. The value
// doubles as the pub/sub routing key.
type OutboxEventType string

const (
	EventOrderPlaced           OutboxEventType = "order_placed"
	EventVendorRegistered      OutboxEventType = "vendor_registered"
	EventOtpRequested          OutboxEventType = "otp_requested"
	EventProjectBriefCreated   OutboxEventType = "project_brief_created"
	EventConsultationRequested OutboxEventType = "consultation_requested"
)

var eventTypes = closedSet[OutboxEventType]{
	EventOrderPlaced, EventVendorRegistered, EventOtpRequested,
	EventProjectBriefCreated, EventConsultationRequested,
}

func (e OutboxEventType) IsValid() bool { return eventTypes.has(e) }

func ParseOutboxEventType(value string) (OutboxEventType, error) {
	return eventTypes.parse("event type", value)
}
