package privacy

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/crypto/hkdf"

	"github.com/findly-now/fn-notifications/pkg/audit"
)

const (
	// KeySize is the required master key length for AES-256.
	KeySize = 32

	// envelopeVersion is bumped when the envelope layout changes.
	envelopeVersion = 1

	// keyInfo provides domain separation for HKDF derivation.
	keyInfo = "fn-notifications-contact-v1"

	saltSize = 16
)

// Audit operation names.
const (
	OpEncrypt = "contact.encrypt"
	OpDecrypt = "contact.decrypt"
)

// ContactPayload is the plaintext contact information shared on approval.
type ContactPayload struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// Validate requires at least one way to reach the user.
func (p ContactPayload) Validate() error {
	if p.Email == "" && p.Phone == "" {
		return ErrEmptyPayload
	}
	return nil
}

// envelope is the stored form of a sealed payload. Byte fields are
// base64-encoded by encoding/json.
type envelope struct {
	Version     int        `json:"v"`
	Salt        []byte     `json:"salt"`
	Nonce       []byte     `json:"nonce"`
	Ciphertext  []byte     `json:"ciphertext"`
	EncryptedAt time.Time  `json:"encrypted_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// Encryptor seals and opens contact payloads.
type Encryptor struct {
	masterKey []byte
	audit     audit.Logger
	log       *slog.Logger
	now       func() time.Time
}

// EncryptorOption configures an Encryptor.
type EncryptorOption func(*Encryptor)

// WithLogger sets the logger used for audit write failures.
func WithLogger(log *slog.Logger) EncryptorOption {
	return func(e *Encryptor) {
		if log != nil {
			e.log = log
		}
	}
}

// WithClock injects a clock for tests.
func WithClock(now func() time.Time) EncryptorOption {
	return func(e *Encryptor) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEncryptor creates an Encryptor from a 32-byte master key. The audit
// logger is mandatory: contact data access without a trail is not allowed.
func NewEncryptor(masterKey []byte, auditLog audit.Logger, opts ...EncryptorOption) (*Encryptor, error) {
	if len(masterKey) != KeySize {
		return nil, ErrInvalidKey
	}
	if auditLog == nil {
		return nil, errors.New("privacy: audit logger cannot be nil")
	}

	key := make([]byte, KeySize)
	copy(key, masterKey)

	e := &Encryptor{
		masterKey: key,
		audit:     auditLog,
		log:       slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Encrypt seals the payload. A positive ttl bounds how long the envelope
// stays readable; zero means no expiry.
func (e *Encryptor) Encrypt(ctx context.Context, actorID, requestID string, payload ContactPayload, ttl time.Duration) ([]byte, error) {
	blob, err := e.seal(payload, ttl)
	e.writeAudit(ctx, actorID, requestID, OpEncrypt, err)
	if err != nil {
		return nil, err
	}
	return blob, nil
}

// Decrypt opens a sealed envelope. Expired envelopes fail with ErrExpired
// before any decryption is attempted; tampered ones fail with
// ErrDecryptionFailed.
func (e *Encryptor) Decrypt(ctx context.Context, actorID, requestID string, blob []byte) (*ContactPayload, error) {
	payload, err := e.open(blob)
	e.writeAudit(ctx, actorID, requestID, OpDecrypt, err)
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (e *Encryptor) seal(payload ContactPayload, ttl time.Duration) ([]byte, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	plaintext, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}

	gcm, err := e.aead(salt)
	if err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}

	now := e.now()
	env := envelope{
		Version:     envelopeVersion,
		Salt:        salt,
		Nonce:       nonce,
		Ciphertext:  gcm.Seal(nil, nonce, plaintext, nil),
		EncryptedAt: now,
	}
	if ttl > 0 {
		expires := now.Add(ttl)
		env.ExpiresAt = &expires
	}

	blob, err := json.Marshal(env)
	if err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}
	return blob, nil
}

func (e *Encryptor) open(blob []byte) (*ContactPayload, error) {
	var env envelope
	if err := json.Unmarshal(blob, &env); err != nil {
		return nil, errors.Join(ErrInvalidEnvelope, err)
	}
	if env.Version != envelopeVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidEnvelope, env.Version)
	}
	if len(env.Salt) != saltSize || len(env.Nonce) == 0 || len(env.Ciphertext) == 0 {
		return nil, ErrInvalidEnvelope
	}

	// Expiry is checked before the ciphertext is touched.
	if env.ExpiresAt != nil && e.now().After(*env.ExpiresAt) {
		return nil, ErrExpired
	}

	gcm, err := e.aead(env.Salt)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}
	if len(env.Nonce) != gcm.NonceSize() {
		return nil, ErrInvalidEnvelope
	}

	plaintext, err := gcm.Open(nil, env.Nonce, env.Ciphertext, nil)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}

	var payload ContactPayload
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}
	return &payload, nil
}

// aead derives the per-envelope key and builds the AES-GCM cipher.
func (e *Encryptor) aead(salt []byte) (cipher.AEAD, error) {
	hkdfReader := hkdf.New(sha256.New, e.masterKey, salt, []byte(keyInfo))
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdfReader, key); err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// writeAudit records the operation unconditionally. Audit write failures
// are logged and swallowed: the crypto outcome stands either way.
func (e *Encryptor) writeAudit(ctx context.Context, actorID, requestID, operation string, opErr error) {
	var err error
	if opErr != nil {
		err = e.audit.LogError(ctx, actorID, operation, opErr, audit.WithRequestID(requestID))
	} else {
		err = e.audit.Log(ctx, actorID, operation, audit.WithRequestID(requestID))
	}
	if err != nil {
		e.log.ErrorContext(ctx, "audit write failed",
			slog.String("operation", operation),
			slog.String("request_id", requestID),
			slog.Any("error", err),
		)
	}
}
