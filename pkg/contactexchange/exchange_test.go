package contactexchange_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/findly-now/fn-notifications/pkg/contactexchange"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("valid request notification", func(t *testing.T) {
		t.Parallel()

		n, err := contactexchange.New("req-1", "user-finder", "user-owner",
			contactexchange.StatusPending, contactexchange.TypeRequestReceived,
			contactexchange.WithPostID("post-1"),
		)
		require.NoError(t, err)
		assert.NotEqual(t, "", n.ID.String())
		assert.Equal(t, "req-1", n.RequestID)
		assert.Equal(t, "post-1", n.PostID)
		assert.Equal(t, contactexchange.StatusPending, n.Status)
		assert.False(t, n.Sent)
		assert.False(t, n.CreatedAt.IsZero())
	})

	t.Run("requester must differ from owner", func(t *testing.T) {
		t.Parallel()

		_, err := contactexchange.New("req-1", "same-user", "same-user",
			contactexchange.StatusPending, contactexchange.TypeRequestReceived)
		assert.ErrorIs(t, err, contactexchange.ErrSelfExchange)
	})

	t.Run("missing identifiers", func(t *testing.T) {
		t.Parallel()

		_, err := contactexchange.New("", "a", "b",
			contactexchange.StatusPending, contactexchange.TypeRequestReceived)
		assert.ErrorIs(t, err, contactexchange.ErrEmptyRequestID)

		_, err = contactexchange.New("req-1", "", "b",
			contactexchange.StatusPending, contactexchange.TypeRequestReceived)
		assert.ErrorIs(t, err, contactexchange.ErrEmptyRequester)

		_, err = contactexchange.New("req-1", "a", "",
			contactexchange.StatusPending, contactexchange.TypeRequestReceived)
		assert.ErrorIs(t, err, contactexchange.ErrEmptyOwner)
	})

	t.Run("type must match status", func(t *testing.T) {
		t.Parallel()

		_, err := contactexchange.New("req-1", "a", "b",
			contactexchange.StatusPending, contactexchange.TypeApprovalGranted)
		assert.ErrorIs(t, err, contactexchange.ErrStatusTypeMismatch)

		_, err = contactexchange.New("req-1", "a", "b",
			contactexchange.StatusDenied, contactexchange.TypeExpirationNotice)
		assert.ErrorIs(t, err, contactexchange.ErrStatusTypeMismatch)
	})

	t.Run("approval requires encrypted payload", func(t *testing.T) {
		t.Parallel()

		_, err := contactexchange.New("req-1", "a", "b",
			contactexchange.StatusApproved, contactexchange.TypeApprovalGranted)
		assert.ErrorIs(t, err, contactexchange.ErrMissingContactPayload)

		n, err := contactexchange.New("req-1", "a", "b",
			contactexchange.StatusApproved, contactexchange.TypeApprovalGranted,
			contactexchange.WithEncryptedContact([]byte("sealed")),
			contactexchange.WithExpiresAt(time.Now().Add(24*time.Hour)),
		)
		require.NoError(t, err)
		assert.True(t, n.HasContactPayload())
		require.NotNil(t, n.ExpiresAt)
	})

	t.Run("invalid enum values", func(t *testing.T) {
		t.Parallel()

		_, err := contactexchange.New("req-1", "a", "b",
			"granted", contactexchange.TypeApprovalGranted)
		assert.ErrorIs(t, err, contactexchange.ErrInvalidStatus)

		_, err = contactexchange.New("req-1", "a", "b",
			contactexchange.StatusPending, "welcome")
		assert.ErrorIs(t, err, contactexchange.ErrInvalidType)
	})
}

func TestRecipients(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status contactexchange.ExchangeStatus
		typ    contactexchange.NotificationType
		want   []string
	}{
		{"request goes to owner", contactexchange.StatusPending, contactexchange.TypeRequestReceived, []string{"owner"}},
		{"approval goes to requester", contactexchange.StatusApproved, contactexchange.TypeApprovalGranted, []string{"requester"}},
		{"denial goes to requester", contactexchange.StatusDenied, contactexchange.TypeDenialSent, []string{"requester"}},
		{"expiration fans out to both", contactexchange.StatusExpired, contactexchange.TypeExpirationNotice, []string{"requester", "owner"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := []contactexchange.Option{}
			if tt.typ == contactexchange.TypeApprovalGranted {
				opts = append(opts, contactexchange.WithEncryptedContact([]byte("sealed")))
			}
			n, err := contactexchange.New("req-1", "requester", "owner", tt.status, tt.typ, opts...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.Recipients())
		})
	}
}

func TestCanTransition(t *testing.T) {
	t.Parallel()

	allowed := [][2]contactexchange.ExchangeStatus{
		{contactexchange.StatusPending, contactexchange.StatusApproved},
		{contactexchange.StatusPending, contactexchange.StatusDenied},
		{contactexchange.StatusPending, contactexchange.StatusExpired},
		{contactexchange.StatusApproved, contactexchange.StatusExpired},
	}
	for _, pair := range allowed {
		assert.True(t, contactexchange.CanTransition(pair[0], pair[1]),
			"%s -> %s should be allowed", pair[0], pair[1])
	}

	denied := [][2]contactexchange.ExchangeStatus{
		{contactexchange.StatusPending, contactexchange.StatusPending},
		{contactexchange.StatusApproved, contactexchange.StatusPending},
		{contactexchange.StatusApproved, contactexchange.StatusDenied},
		{contactexchange.StatusDenied, contactexchange.StatusApproved},
		{contactexchange.StatusDenied, contactexchange.StatusExpired},
		{contactexchange.StatusExpired, contactexchange.StatusPending},
		{contactexchange.StatusExpired, contactexchange.StatusApproved},
	}
	for _, pair := range denied {
		assert.False(t, contactexchange.CanTransition(pair[0], pair[1]),
			"%s -> %s should be rejected", pair[0], pair[1])
	}
}

func TestMarkSent(t *testing.T) {
	t.Parallel()

	n, err := contactexchange.New("req-1", "requester", "owner",
		contactexchange.StatusPending, contactexchange.TypeRequestReceived)
	require.NoError(t, err)

	require.NoError(t, n.MarkSent())
	assert.True(t, n.Sent)
	require.NotNil(t, n.SentAt)

	assert.ErrorIs(t, n.MarkSent(), contactexchange.ErrAlreadySent)
}
