package notification

// Channel represents a delivery channel.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
)

// Valid reports whether the channel is a known delivery channel.
func (c Channel) Valid() bool {
	switch c {
	case ChannelEmail, ChannelSMS, ChannelWhatsApp:
		return true
	default:
		return false
	}
}

// Channels lists all supported delivery channels.
func Channels() []Channel {
	return []Channel{ChannelEmail, ChannelSMS, ChannelWhatsApp}
}

// Status represents the delivery lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transition is allowed from the status.
// failed is terminal for direct transitions but may still be reset to
// pending through IncrementRetry while the retry budget lasts.
func (s Status) Terminal() bool {
	switch s {
	case StatusDelivered, StatusCancelled, StatusFailed:
		return true
	default:
		return false
	}
}

// Priority orders commands relative to each other. Commands produced from
// one source event share a priority.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
	PriorityUrgent
)

// MetadataKeyDedup is the metadata key under which the deduplication
// fingerprint is stored.
const MetadataKeyDedup = "dedup_key"

// MetadataKeyEventType is the metadata key carrying the source event type.
const MetadataKeyEventType = "event_type"
