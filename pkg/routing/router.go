package routing

import (
	"context"
	"time"

	"github.com/findly-now/fn-notifications/pkg/notification"
	"github.com/findly-now/fn-notifications/pkg/preferences"
)

// Reason codes for routing decisions. Stable: they end up in failure
// reasons and downstream alerting.
const (
	ReasonOK               = "ok"
	ReasonGloballyDisabled = "notifications_disabled"
	ReasonChannelDisabled  = "channel_disabled"
	ReasonMissingContact   = "missing_contact"
	ReasonQuietHours       = "quiet_hours"
	ReasonFrequencyLimited = "frequency_limited"
)

// Decision is the outcome of routing one notification.
type Decision struct {
	ShouldDeliver bool
	DelayUntil    *time.Time
	Reason        string
}

// DeliveryCounter reports how many notifications were delivered to the
// recipient on the channel within the trailing window. Used to enforce
// per-channel frequency limits; nil disables the check.
type DeliveryCounter func(ctx context.Context, recipientID string, channel notification.Channel, window time.Duration) (int, error)

// Router evaluates recipient preferences against the clock.
type Router struct {
	now     func() time.Time
	counter DeliveryCounter
}

// Option configures a Router.
type Option func(*Router)

// WithNow injects a clock, used by tests.
func WithNow(now func() time.Time) Option {
	return func(r *Router) {
		if now != nil {
			r.now = now
		}
	}
}

// WithDeliveryCounter enables frequency-limit enforcement.
func WithDeliveryCounter(counter DeliveryCounter) Option {
	return func(r *Router) {
		r.counter = counter
	}
}

// New creates a Router.
func New(opts ...Option) *Router {
	r := &Router{now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Route decides whether the notification may be delivered now.
func (r *Router) Route(ctx context.Context, n *notification.Notification, prefs *preferences.UserPreferences) Decision {
	if !prefs.GlobalEnabled {
		return Decision{Reason: ReasonGloballyDisabled}
	}
	if !prefs.ChannelEnabled(n.Channel) {
		return Decision{Reason: ReasonChannelDisabled}
	}
	if prefs.ContactFor(n.Channel) == "" {
		return Decision{Reason: ReasonMissingContact}
	}

	localNow := r.now().In(prefs.Location())
	if settings, ok := prefs.Channels[n.Channel]; ok && settings.QuietHours != nil {
		if settings.QuietHours.Contains(localNow) {
			end := settings.QuietHours.EndOfWindow(localNow)
			return Decision{Reason: ReasonQuietHours, DelayUntil: &end}
		}
	}

	if r.counter != nil {
		if settings, ok := prefs.Channels[n.Channel]; ok && settings.FrequencyLimit != nil {
			count, err := r.counter(ctx, n.RecipientID, n.Channel, 24*time.Hour)
			// A broken counter must not block delivery; limit enforcement
			// is best effort.
			if err == nil && count >= *settings.FrequencyLimit {
				return Decision{Reason: ReasonFrequencyLimited}
			}
		}
	}

	return Decision{ShouldDeliver: true, Reason: ReasonOK}
}

// AllowedNow is a convenience wrapper answering "may the recipient be
// notified on this channel right now".
func (r *Router) AllowedNow(ctx context.Context, n *notification.Notification, prefs *preferences.UserPreferences) bool {
	return r.Route(ctx, n, prefs).ShouldDeliver
}
