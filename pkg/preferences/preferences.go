package preferences

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/findly-now/fn-notifications/pkg/notification"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{6,14}$`)
)

// QuietHours is a daily window during which a recipient declines
// notifications on a channel. The window may wrap midnight (22:00-07:00).
// Equal start and end means quiet hours are not in effect.
type QuietHours struct {
	Start string `json:"start"` // "HH:MM"
	End   string `json:"end"`   // "HH:MM"
}

// Validate checks both boundaries parse as HH:MM.
func (q QuietHours) Validate() error {
	if _, err := parseMinutes(q.Start); err != nil {
		return fmt.Errorf("%w: start %q", ErrInvalidWindow, q.Start)
	}
	if _, err := parseMinutes(q.End); err != nil {
		return fmt.Errorf("%w: end %q", ErrInvalidWindow, q.End)
	}
	return nil
}

// Contains reports whether t (already in the recipient's location) falls
// inside the window.
func (q QuietHours) Contains(t time.Time) bool {
	start, err := parseMinutes(q.Start)
	if err != nil {
		return false
	}
	end, err := parseMinutes(q.End)
	if err != nil {
		return false
	}
	if start == end {
		return false
	}

	minute := t.Hour()*60 + t.Minute()
	if start < end {
		return minute >= start && minute < end
	}
	// Window wraps midnight: quiet from start until 24:00 and from 00:00
	// until end.
	return minute >= start || minute < end
}

// EndOfWindow returns the next moment the window closes relative to t.
// Returns t unchanged when t is outside the window.
func (q QuietHours) EndOfWindow(t time.Time) time.Time {
	if !q.Contains(t) {
		return t
	}
	end, err := parseMinutes(q.End)
	if err != nil {
		return t
	}

	endToday := time.Date(t.Year(), t.Month(), t.Day(), end/60, end%60, 0, 0, t.Location())
	if endToday.After(t) {
		return endToday
	}
	return endToday.Add(24 * time.Hour)
}

func parseMinutes(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute %q", s)
	}
	return hour*60 + minute, nil
}

// ChannelSettings configures a single delivery channel for a recipient.
type ChannelSettings struct {
	Enabled        bool        `json:"enabled"`
	QuietHours     *QuietHours `json:"quiet_hours,omitempty"`
	FrequencyLimit *int        `json:"frequency_limit,omitempty"` // max deliveries per 24h
}

// UserPreferences is the per-recipient notification configuration.
type UserPreferences struct {
	UserID        string                                   `json:"user_id"`
	GlobalEnabled bool                                     `json:"global_enabled"`
	Email         string                                   `json:"email,omitempty"`
	Phone         string                                   `json:"phone,omitempty"`
	Timezone      string                                   `json:"timezone"`
	Language      string                                   `json:"language"`
	Channels      map[notification.Channel]ChannelSettings `json:"channels"`
	UpdatedAt     time.Time                                `json:"updated_at"`
}

// Default returns the preferences applied on a lookup miss: notifications
// globally on, email enabled, sms and whatsapp opt-in.
func Default(userID string) *UserPreferences {
	return &UserPreferences{
		UserID:        userID,
		GlobalEnabled: true,
		Timezone:      "UTC",
		Language:      "en",
		Channels: map[notification.Channel]ChannelSettings{
			notification.ChannelEmail:    {Enabled: true},
			notification.ChannelSMS:      {Enabled: false},
			notification.ChannelWhatsApp: {Enabled: false},
		},
		UpdatedAt: time.Now(),
	}
}

// Validate checks invariants: contact fields are format-validated when
// present and channel keys are known.
func (p *UserPreferences) Validate() error {
	if p.UserID == "" {
		return ErrEmptyUserID
	}
	if p.Email != "" && !emailRegex.MatchString(p.Email) {
		return ErrInvalidEmail
	}
	if p.Phone != "" && !phoneRegex.MatchString(p.Phone) {
		return ErrInvalidPhone
	}
	if p.Timezone != "" {
		if _, err := time.LoadLocation(p.Timezone); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidTimezone, p.Timezone)
		}
	}
	for channel, settings := range p.Channels {
		if !channel.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidChannel, channel)
		}
		if settings.QuietHours != nil {
			if err := settings.QuietHours.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Location resolves the recipient's timezone, falling back to UTC.
func (p *UserPreferences) Location() *time.Location {
	if p.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ChannelEnabled reports whether the channel is enabled for the recipient.
// Channels without explicit settings are disabled.
func (p *UserPreferences) ChannelEnabled(c notification.Channel) bool {
	settings, ok := p.Channels[c]
	return ok && settings.Enabled
}

// ContactFor returns the contact address used by the given channel.
func (p *UserPreferences) ContactFor(c notification.Channel) string {
	switch c {
	case notification.ChannelEmail:
		return p.Email
	case notification.ChannelSMS, notification.ChannelWhatsApp:
		return p.Phone
	default:
		return ""
	}
}
