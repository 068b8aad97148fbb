package contactexchange

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ContactExchangeNotification records one lifecycle step of a contact
// exchange request. Entities are immutable after construction except for
// the sent marker; a new entity is created per step rather than mutating
// the previous one.
type ContactExchangeNotification struct {
	ID               uuid.UUID         `json:"id"`
	RequestID        string            `json:"request_id"`
	RequesterID      string            `json:"requester_id"`
	OwnerID          string            `json:"owner_id"`
	PostID           string            `json:"post_id,omitempty"`
	Status           ExchangeStatus    `json:"status"`
	Type             NotificationType  `json:"type"`
	EncryptedContact []byte            `json:"encrypted_contact,omitempty"`
	ExpiresAt        *time.Time        `json:"expires_at,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
	Sent             bool              `json:"sent"`
	SentAt           *time.Time        `json:"sent_at,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
}

// Option configures a ContactExchangeNotification at construction time.
type Option func(*ContactExchangeNotification)

// WithPostID links the exchange to the post it concerns.
func WithPostID(postID string) Option {
	return func(n *ContactExchangeNotification) {
		n.PostID = postID
	}
}

// WithEncryptedContact attaches the sealed contact payload. Required for
// approvals.
func WithEncryptedContact(blob []byte) Option {
	return func(n *ContactExchangeNotification) {
		n.EncryptedContact = blob
	}
}

// WithExpiresAt bounds how long the shared contact stays readable.
func WithExpiresAt(at time.Time) Option {
	return func(n *ContactExchangeNotification) {
		n.ExpiresAt = &at
	}
}

// WithMetadata merges metadata into the notification.
func WithMetadata(md map[string]string) Option {
	return func(n *ContactExchangeNotification) {
		for k, v := range md {
			n.Metadata[k] = v
		}
	}
}

// New builds a notification for one lifecycle step and validates its
// invariants: requester and owner must differ, the type must match the
// status, and approvals must carry the encrypted contact payload.
func New(requestID, requesterID, ownerID string, status ExchangeStatus, typ NotificationType, opts ...Option) (*ContactExchangeNotification, error) {
	if requestID == "" {
		return nil, ErrEmptyRequestID
	}
	if requesterID == "" {
		return nil, ErrEmptyRequester
	}
	if ownerID == "" {
		return nil, ErrEmptyOwner
	}
	if requesterID == ownerID {
		return nil, ErrSelfExchange
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, typ)
	}
	if !ValidPair(status, typ) {
		return nil, fmt.Errorf("%w: %s with %s", ErrStatusTypeMismatch, status, typ)
	}

	n := &ContactExchangeNotification{
		ID:          uuid.New(),
		RequestID:   requestID,
		RequesterID: requesterID,
		OwnerID:     ownerID,
		Status:      status,
		Type:        typ,
		Metadata:    make(map[string]string),
		CreatedAt:   time.Now(),
	}

	for _, opt := range opts {
		opt(n)
	}

	if typ == TypeApprovalGranted && len(n.EncryptedContact) == 0 {
		return nil, ErrMissingContactPayload
	}
	return n, nil
}

// Recipients resolves who this notification targets. Expiration notices fan
// out to both parties; every other type targets exactly one.
func (n *ContactExchangeNotification) Recipients() []string {
	switch n.Type {
	case TypeRequestReceived:
		return []string{n.OwnerID}
	case TypeApprovalGranted, TypeDenialSent:
		return []string{n.RequesterID}
	case TypeExpirationNotice:
		return []string{n.RequesterID, n.OwnerID}
	}
	return nil
}

// HasContactPayload reports whether a sealed contact blob is attached.
func (n *ContactExchangeNotification) HasContactPayload() bool {
	return len(n.EncryptedContact) > 0
}

// MarkSent records that the notification was delivered. Idempotent sends
// are rejected.
func (n *ContactExchangeNotification) MarkSent() error {
	if n.Sent {
		return ErrAlreadySent
	}
	now := time.Now()
	n.Sent = true
	n.SentAt = &now
	return nil
}
