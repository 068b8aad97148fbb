package dispatch

import (
	"context"

	"github.com/findly-now/fn-notifications/pkg/bulkhead"
	"github.com/findly-now/fn-notifications/pkg/notification"
	"github.com/findly-now/fn-notifications/pkg/preferences"
)

// ChannelSender delivers notifications over one channel. Implementations
// are invoked only through the bulkhead and circuit breaker.
type ChannelSender interface {
	// Channel reports which channel this sender serves.
	Channel() notification.Channel

	// Deliver sends the notification to the recipient resolved from the
	// preferences.
	Deliver(ctx context.Context, n *notification.Notification, prefs *preferences.UserPreferences) error
}

// categoryFor maps a channel to its bulkhead category.
func categoryFor(c notification.Channel) string {
	switch c {
	case notification.ChannelSMS:
		return bulkhead.CategorySMSDelivery
	case notification.ChannelWhatsApp:
		return bulkhead.CategoryWhatsAppDelivery
	default:
		return bulkhead.CategoryEmailDelivery
	}
}

// dependencyFor maps a channel to its circuit breaker dependency name.
func dependencyFor(c notification.Channel) string {
	return string(c) + "-provider"
}
