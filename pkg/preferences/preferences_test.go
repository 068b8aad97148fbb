package preferences_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/findly-now/fn-notifications/pkg/notification"
	"github.com/findly-now/fn-notifications/pkg/preferences"
)

func TestQuietHours(t *testing.T) {
	t.Parallel()

	at := func(hour, minute int) time.Time {
		return time.Date(2026, time.March, 10, hour, minute, 0, 0, time.UTC)
	}

	t.Run("plain window", func(t *testing.T) {
		t.Parallel()

		q := preferences.QuietHours{Start: "09:00", End: "17:00"}
		assert.True(t, q.Contains(at(12, 0)))
		assert.True(t, q.Contains(at(9, 0)))
		assert.False(t, q.Contains(at(17, 0)))
		assert.False(t, q.Contains(at(8, 59)))
	})

	t.Run("window wrapping midnight", func(t *testing.T) {
		t.Parallel()

		q := preferences.QuietHours{Start: "22:00", End: "07:00"}
		assert.True(t, q.Contains(at(23, 30)))
		assert.True(t, q.Contains(at(3, 0)))
		assert.True(t, q.Contains(at(22, 0)))
		assert.False(t, q.Contains(at(8, 0)))
		assert.False(t, q.Contains(at(7, 0)))
		assert.False(t, q.Contains(at(21, 59)))
	})

	t.Run("equal boundaries disable the window", func(t *testing.T) {
		t.Parallel()

		q := preferences.QuietHours{Start: "08:00", End: "08:00"}
		assert.False(t, q.Contains(at(8, 0)))
		assert.False(t, q.Contains(at(12, 0)))
	})

	t.Run("end of window", func(t *testing.T) {
		t.Parallel()

		q := preferences.QuietHours{Start: "22:00", End: "07:00"}

		end := q.EndOfWindow(at(23, 30))
		assert.Equal(t, 7, end.Hour())
		assert.True(t, end.After(at(23, 30)))

		outside := at(12, 0)
		assert.Equal(t, outside, q.EndOfWindow(outside))
	})

	t.Run("validate", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, preferences.QuietHours{Start: "22:00", End: "07:00"}.Validate())
		assert.ErrorIs(t, preferences.QuietHours{Start: "25:00", End: "07:00"}.Validate(), preferences.ErrInvalidWindow)
		assert.ErrorIs(t, preferences.QuietHours{Start: "22:00", End: "7pm"}.Validate(), preferences.ErrInvalidWindow)
	})
}

func TestUserPreferences(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		p := preferences.Default("u1")
		assert.True(t, p.GlobalEnabled)
		assert.True(t, p.ChannelEnabled(notification.ChannelEmail))
		assert.False(t, p.ChannelEnabled(notification.ChannelSMS))
		assert.False(t, p.ChannelEnabled(notification.ChannelWhatsApp))
		assert.Equal(t, "UTC", p.Timezone)
		assert.NoError(t, p.Validate())
	})

	t.Run("validation", func(t *testing.T) {
		t.Parallel()

		p := preferences.Default("u1")
		p.Email = "not-an-email"
		assert.ErrorIs(t, p.Validate(), preferences.ErrInvalidEmail)

		p = preferences.Default("u1")
		p.Phone = "abc"
		assert.ErrorIs(t, p.Validate(), preferences.ErrInvalidPhone)

		p = preferences.Default("u1")
		p.Timezone = "Mars/Olympus"
		assert.ErrorIs(t, p.Validate(), preferences.ErrInvalidTimezone)

		p = preferences.Default("u1")
		p.Channels[notification.Channel("pigeon")] = preferences.ChannelSettings{Enabled: true}
		assert.ErrorIs(t, p.Validate(), preferences.ErrInvalidChannel)

		valid := preferences.Default("u1")
		valid.Email = "user@example.com"
		valid.Phone = "+14155552671"
		assert.NoError(t, valid.Validate())
	})

	t.Run("contact for channel", func(t *testing.T) {
		t.Parallel()

		p := preferences.Default("u1")
		p.Email = "user@example.com"
		p.Phone = "+14155552671"
		assert.Equal(t, "user@example.com", p.ContactFor(notification.ChannelEmail))
		assert.Equal(t, "+14155552671", p.ContactFor(notification.ChannelSMS))
		assert.Equal(t, "+14155552671", p.ContactFor(notification.ChannelWhatsApp))
	})

	t.Run("location falls back to UTC", func(t *testing.T) {
		t.Parallel()

		p := preferences.Default("u1")
		p.Timezone = ""
		assert.Equal(t, time.UTC, p.Location())
	})
}
