package dispatch

import (
	"context"
	"log/slog"

	"github.com/findly-now/fn-notifications/pkg/notification"
	"github.com/findly-now/fn-notifications/pkg/preferences"
	"github.com/findly-now/fn-notifications/pkg/privacy"
)

// DevSender logs deliveries instead of sending them. It serves any channel
// and is the default for channels without a wired provider. Recipients are
// masked before logging.
type DevSender struct {
	channel notification.Channel
	log     *slog.Logger
}

// NewDevSender creates a logging sender for the given channel.
func NewDevSender(channel notification.Channel, log *slog.Logger) *DevSender {
	if log == nil {
		log = slog.Default()
	}
	return &DevSender{channel: channel, log: log}
}

// Channel implements ChannelSender.
func (s *DevSender) Channel() notification.Channel {
	return s.channel
}

// Deliver implements ChannelSender.
func (s *DevSender) Deliver(ctx context.Context, n *notification.Notification, prefs *preferences.UserPreferences) error {
	contact := prefs.ContactFor(s.channel)
	if s.channel == notification.ChannelEmail {
		contact = privacy.MaskEmail(contact)
	} else {
		contact = privacy.MaskPhone(contact)
	}

	s.log.InfoContext(ctx, "delivery (dev sender)",
		slog.String("notification_id", n.ID.String()),
		slog.String("channel", string(s.channel)),
		slog.String("recipient", contact),
		slog.String("title", n.Title),
	)
	return nil
}
