package contactexchange

// ExchangeStatus is the state of a contact exchange request.
type ExchangeStatus string

const (
	StatusPending  ExchangeStatus = "pending"
	StatusApproved ExchangeStatus = "approved"
	StatusDenied   ExchangeStatus = "denied"
	StatusExpired  ExchangeStatus = "expired"
)

// Valid reports whether the status is one of the persisted enum values.
func (s ExchangeStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusDenied, StatusExpired:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s ExchangeStatus) Terminal() bool {
	return s == StatusDenied || s == StatusExpired
}

// NotificationType identifies which lifecycle step a notification announces.
type NotificationType string

const (
	TypeRequestReceived  NotificationType = "request_received"
	TypeApprovalGranted  NotificationType = "approval_granted"
	TypeDenialSent       NotificationType = "denial_sent"
	TypeExpirationNotice NotificationType = "expiration_notice"
)

// Valid reports whether the type is one of the persisted enum values.
func (t NotificationType) Valid() bool {
	switch t {
	case TypeRequestReceived, TypeApprovalGranted, TypeDenialSent, TypeExpirationNotice:
		return true
	}
	return false
}

// typeForStatus is the fixed pairing of lifecycle step and notification type.
var typeForStatus = map[ExchangeStatus]NotificationType{
	StatusPending:  TypeRequestReceived,
	StatusApproved: TypeApprovalGranted,
	StatusDenied:   TypeDenialSent,
	StatusExpired:  TypeExpirationNotice,
}

// ValidPair reports whether the notification type matches the status it
// announces.
func ValidPair(status ExchangeStatus, typ NotificationType) bool {
	return typeForStatus[status] == typ
}

var transitions = map[ExchangeStatus][]ExchangeStatus{
	StatusPending:  {StatusApproved, StatusDenied, StatusExpired},
	StatusApproved: {StatusExpired},
}

// CanTransition reports whether the exchange may move from one status to
// another. Denied and expired are terminal; self-transitions are rejected.
func CanTransition(from, to ExchangeStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
