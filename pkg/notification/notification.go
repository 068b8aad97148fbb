package notification

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/findly-now/fn-notifications/pkg/dedup"
)

const (
	// MaxTitleLength bounds titles so downstream providers never truncate.
	MaxTitleLength = 200
	// MaxBodyLength bounds bodies; SMS segments are the limiting channel.
	MaxBodyLength = 2000
	// DefaultMaxRetries is the retry budget applied when none is given.
	DefaultMaxRetries = 3
)

// Notification is one delivery attempt to one recipient over one channel.
type Notification struct {
	ID            uuid.UUID         `json:"id"`
	RecipientID   string            `json:"recipient_id"`
	Channel       Channel           `json:"channel"`
	Status        Status            `json:"status"`
	Title         string            `json:"title"`
	Body          string            `json:"body"`
	Priority      Priority          `json:"priority"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	ScheduledAt   *time.Time        `json:"scheduled_at,omitempty"`
	SentAt        *time.Time        `json:"sent_at,omitempty"`
	DeliveredAt   *time.Time        `json:"delivered_at,omitempty"`
	FailedAt      *time.Time        `json:"failed_at,omitempty"`
	FailureReason string            `json:"failure_reason,omitempty"`
	RetryCount    int               `json:"retry_count"`
	MaxRetries    int               `json:"max_retries"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// Option configures a Notification at construction time.
type Option func(*Notification)

// WithMetadata merges metadata into the notification.
func WithMetadata(md map[string]string) Option {
	return func(n *Notification) {
		for k, v := range md {
			n.Metadata[k] = v
		}
	}
}

// WithPriority sets the delivery priority.
func WithPriority(p Priority) Option {
	return func(n *Notification) {
		n.Priority = p
	}
}

// WithMaxRetries overrides the default retry budget.
func WithMaxRetries(max int) Option {
	return func(n *Notification) {
		if max >= 0 {
			n.MaxRetries = max
		}
	}
}

// WithScheduledAt marks the notification for delayed delivery.
func WithScheduledAt(at time.Time) Option {
	return func(n *Notification) {
		n.ScheduledAt = &at
	}
}

// New builds a pending notification and validates its invariants.
// The deduplication fingerprint is computed from the content and attached
// to the metadata under MetadataKeyDedup.
func New(recipientID string, channel Channel, title, body string, opts ...Option) (*Notification, error) {
	if recipientID == "" {
		return nil, ErrEmptyRecipient
	}
	if !channel.Valid() {
		return nil, ErrInvalidChannel
	}
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return nil, ErrTitleTooLong
	}
	if body == "" {
		return nil, ErrEmptyBody
	}
	if utf8.RuneCountInString(body) > MaxBodyLength {
		return nil, ErrBodyTooLong
	}

	now := time.Now()
	n := &Notification{
		ID:          uuid.New(),
		RecipientID: recipientID,
		Channel:     channel,
		Status:      StatusPending,
		Title:       title,
		Body:        body,
		Priority:    PriorityNormal,
		Metadata:    make(map[string]string),
		MaxRetries:  DefaultMaxRetries,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for _, opt := range opts {
		opt(n)
	}

	n.Metadata[MetadataKeyDedup] = n.DedupKey()
	return n, nil
}

// DedupKey returns the content fingerprint of the notification.
func (n *Notification) DedupKey() string {
	return dedup.Key(n.RecipientID, string(n.Channel), n.Title, n.Body)
}

// MarkAsSent transitions pending → sent.
func (n *Notification) MarkAsSent() error {
	if n.Status != StatusPending {
		return newTransitionError(n.Status, StatusSent)
	}
	now := time.Now()
	n.Status = StatusSent
	n.SentAt = &now
	n.UpdatedAt = now
	return nil
}

// MarkAsDelivered transitions sent → delivered.
func (n *Notification) MarkAsDelivered() error {
	if n.Status != StatusSent {
		return newTransitionError(n.Status, StatusDelivered)
	}
	now := time.Now()
	n.Status = StatusDelivered
	n.DeliveredAt = &now
	n.UpdatedAt = now
	return nil
}

// MarkAsFailed transitions pending|sent → failed and records the reason.
func (n *Notification) MarkAsFailed(reason string) error {
	if n.Status != StatusPending && n.Status != StatusSent {
		return newTransitionError(n.Status, StatusFailed)
	}
	now := time.Now()
	n.Status = StatusFailed
	n.FailedAt = &now
	n.FailureReason = reason
	n.UpdatedAt = now
	return nil
}

// Cancel transitions pending → cancelled and records the reason.
func (n *Notification) Cancel(reason string) error {
	if n.Status != StatusPending {
		return newTransitionError(n.Status, StatusCancelled)
	}
	now := time.Now()
	n.Status = StatusCancelled
	n.FailureReason = reason
	n.UpdatedAt = now
	return nil
}

// IncrementRetry resets a failed notification back to pending and consumes
// one retry from the budget. Once RetryCount reaches MaxRetries the
// notification stays failed permanently and ErrRetriesExhausted is returned.
func (n *Notification) IncrementRetry() error {
	if n.Status != StatusFailed {
		return newTransitionError(n.Status, StatusPending)
	}
	if n.RetryCount >= n.MaxRetries {
		return ErrRetriesExhausted
	}
	now := time.Now()
	n.RetryCount++
	n.Status = StatusPending
	n.FailedAt = nil
	n.FailureReason = ""
	n.UpdatedAt = now
	return nil
}

// CanRetry reports whether the notification is eligible for another attempt.
func (n *Notification) CanRetry() bool {
	return n.Status == StatusFailed && n.RetryCount < n.MaxRetries
}
