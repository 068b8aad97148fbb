package privacy_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/findly-now/fn-notifications/pkg/audit"
	"github.com/findly-now/fn-notifications/pkg/privacy"
)

func testKey() []byte {
	return bytes.Repeat([]byte{0x42}, privacy.KeySize)
}

func newEncryptor(t *testing.T, opts ...privacy.EncryptorOption) (*privacy.Encryptor, *audit.MemoryStorage) {
	t.Helper()
	store := audit.NewMemoryStorage()
	logger, err := audit.NewLogger(store)
	require.NoError(t, err)
	enc, err := privacy.NewEncryptor(testKey(), logger, opts...)
	require.NoError(t, err)
	return enc, store
}

func TestNewEncryptor(t *testing.T) {
	t.Parallel()

	store := audit.NewMemoryStorage()
	logger, err := audit.NewLogger(store)
	require.NoError(t, err)

	_, err = privacy.NewEncryptor([]byte("short"), logger)
	assert.ErrorIs(t, err, privacy.ErrInvalidKey)

	_, err = privacy.NewEncryptor(testKey(), nil)
	assert.Error(t, err)
}

func TestEncryptDecrypt(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	payload := privacy.ContactPayload{
		Email: "finder@example.com",
		Phone: "+14155551234",
		Notes: "reachable after 6pm",
	}

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		enc, _ := newEncryptor(t)
		blob, err := enc.Encrypt(ctx, "owner-1", "req-1", payload, 24*time.Hour)
		require.NoError(t, err)

		got, err := enc.Decrypt(ctx, "finder-1", "req-1", blob)
		require.NoError(t, err)
		assert.Equal(t, payload, *got)
	})

	t.Run("plaintext absent from the blob", func(t *testing.T) {
		t.Parallel()

		enc, _ := newEncryptor(t)
		blob, err := enc.Encrypt(ctx, "owner-1", "req-1", payload, 0)
		require.NoError(t, err)
		assert.NotContains(t, string(blob), payload.Email)
		assert.NotContains(t, string(blob), payload.Phone)
	})

	t.Run("envelope shape", func(t *testing.T) {
		t.Parallel()

		enc, _ := newEncryptor(t)
		blob, err := enc.Encrypt(ctx, "owner-1", "req-1", payload, time.Hour)
		require.NoError(t, err)

		var env map[string]any
		require.NoError(t, json.Unmarshal(blob, &env))
		assert.EqualValues(t, 1, env["v"])
		assert.Contains(t, env, "salt")
		assert.Contains(t, env, "nonce")
		assert.Contains(t, env, "ciphertext")
		assert.Contains(t, env, "encrypted_at")
		assert.Contains(t, env, "expires_at")

		// Without ttl no expiry is recorded.
		blob, err = enc.Encrypt(ctx, "owner-1", "req-1", payload, 0)
		require.NoError(t, err)
		env = map[string]any{}
		require.NoError(t, json.Unmarshal(blob, &env))
		assert.NotContains(t, env, "expires_at")
	})

	t.Run("unique envelopes for identical payloads", func(t *testing.T) {
		t.Parallel()

		enc, _ := newEncryptor(t)
		first, err := enc.Encrypt(ctx, "owner-1", "req-1", payload, 0)
		require.NoError(t, err)
		second, err := enc.Encrypt(ctx, "owner-1", "req-1", payload, 0)
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("empty payload rejected", func(t *testing.T) {
		t.Parallel()

		enc, _ := newEncryptor(t)
		_, err := enc.Encrypt(ctx, "owner-1", "req-1", privacy.ContactPayload{Notes: "hi"}, 0)
		assert.ErrorIs(t, err, privacy.ErrEmptyPayload)
	})

	t.Run("expired fails before decryption", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC)
		enc, _ := newEncryptor(t, privacy.WithClock(func() time.Time { return now }))

		blob, err := enc.Encrypt(ctx, "owner-1", "req-1", payload, time.Hour)
		require.NoError(t, err)

		now = now.Add(2 * time.Hour)
		_, err = enc.Decrypt(ctx, "finder-1", "req-1", blob)
		assert.ErrorIs(t, err, privacy.ErrExpired)
	})

	t.Run("tampered ciphertext rejected", func(t *testing.T) {
		t.Parallel()

		enc, _ := newEncryptor(t)
		blob, err := enc.Encrypt(ctx, "owner-1", "req-1", payload, 0)
		require.NoError(t, err)

		var env map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(blob, &env))
		var ciphertext []byte
		require.NoError(t, json.Unmarshal(env["ciphertext"], &ciphertext))
		ciphertext[0] ^= 0xff
		mutated, err := json.Marshal(ciphertext)
		require.NoError(t, err)
		env["ciphertext"] = mutated
		blob, err = json.Marshal(env)
		require.NoError(t, err)

		_, err = enc.Decrypt(ctx, "finder-1", "req-1", blob)
		assert.ErrorIs(t, err, privacy.ErrDecryptionFailed)
	})

	t.Run("garbage blob rejected", func(t *testing.T) {
		t.Parallel()

		enc, _ := newEncryptor(t)
		_, err := enc.Decrypt(ctx, "finder-1", "req-1", []byte("not an envelope"))
		assert.ErrorIs(t, err, privacy.ErrInvalidEnvelope)
	})

	t.Run("different master key cannot open", func(t *testing.T) {
		t.Parallel()

		enc, _ := newEncryptor(t)
		blob, err := enc.Encrypt(ctx, "owner-1", "req-1", payload, 0)
		require.NoError(t, err)

		store := audit.NewMemoryStorage()
		logger, err := audit.NewLogger(store)
		require.NoError(t, err)
		other, err := privacy.NewEncryptor(bytes.Repeat([]byte{0x7}, privacy.KeySize), logger)
		require.NoError(t, err)

		_, err = other.Decrypt(ctx, "finder-1", "req-1", blob)
		assert.ErrorIs(t, err, privacy.ErrDecryptionFailed)
	})
}

func TestAuditTrail(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	payload := privacy.ContactPayload{Email: "finder@example.com"}

	t.Run("success operations audited", func(t *testing.T) {
		t.Parallel()

		enc, store := newEncryptor(t)
		blob, err := enc.Encrypt(ctx, "owner-1", "req-1", payload, 0)
		require.NoError(t, err)
		_, err = enc.Decrypt(ctx, "finder-1", "req-1", blob)
		require.NoError(t, err)

		events, err := store.Query(ctx, audit.Criteria{RequestID: "req-1"})
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, privacy.OpDecrypt, events[0].Operation)
		assert.Equal(t, "finder-1", events[0].ActorID)
		assert.Equal(t, privacy.OpEncrypt, events[1].Operation)
		assert.Equal(t, "owner-1", events[1].ActorID)
	})

	t.Run("failures audited too", func(t *testing.T) {
		t.Parallel()

		enc, store := newEncryptor(t)
		_, err := enc.Decrypt(ctx, "finder-1", "req-9", []byte("garbage"))
		require.Error(t, err)

		events, err := store.Query(ctx, audit.Criteria{
			RequestID: "req-9",
			Result:    audit.ResultFailure,
		})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, privacy.OpDecrypt, events[0].Operation)
		assert.NotEmpty(t, events[0].Error)
	})

	t.Run("audit write failure does not change the outcome", func(t *testing.T) {
		t.Parallel()

		enc, err := privacy.NewEncryptor(testKey(), failingAudit{})
		require.NoError(t, err)

		blob, err := enc.Encrypt(ctx, "owner-1", "req-1", payload, 0)
		require.NoError(t, err)
		got, err := enc.Decrypt(ctx, "finder-1", "req-1", blob)
		require.NoError(t, err)
		assert.Equal(t, payload.Email, got.Email)
	})
}

type failingAudit struct{}

func (failingAudit) Log(ctx context.Context, actorID, operation string, opts ...audit.EventOption) error {
	return errors.New("audit backend down")
}

func (failingAudit) LogError(ctx context.Context, actorID, operation string, opErr error, opts ...audit.EventOption) error {
	return errors.New("audit backend down")
}
