package domain

const (
	CanonicalEventClassDomain        = "domain"
	CanonicalEventClassAnalyticsOnly = "analytics_only"
	CanonicalEventClassOps           = "ops"
)

const (
	EventEscrowTransferCreated = "escrow.transfer_created"
	EventEscrowDisputed        = "escrow.disputed"
	EventEscrowPartialRelease  = "escrow.partial_release"
	EventEscrowFullyReleased   = "escrow.fully_released"
)

func IsCanonicalEmittedEvent(eventType string) bool {
	switch eventType {
	case EventEscrowTransferCreated, EventEscrowDisputed, EventEscrowPartialRelease, EventEscrowFullyReleased:
		return true
	default:
		return false
	}
}

func CanonicalEventClass(eventType string) string {
	switch eventType {
	case EventEscrowTransferCreated, EventEscrowDisputed, EventEscrowFullyReleased:
		return CanonicalEventClassDomain
	case EventEscrowPartialRelease:
		return CanonicalEventClassAnalyticsOnly
	default:
		return ""
	}
}

func CanonicalPartitionKeyPath(eventType string) string {
	if IsCanonicalEmittedEvent(eventType) {
		return "data.object_id"
	}
	return ""
}
