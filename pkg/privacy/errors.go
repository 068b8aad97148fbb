package privacy

import "errors"

var (
	// ErrInvalidKey rejects master keys that are not exactly 32 bytes.
	ErrInvalidKey = errors.New("privacy: master key must be 32 bytes")

	// ErrEmptyPayload rejects payloads with no contact details at all.
	ErrEmptyPayload = errors.New("privacy: payload must carry an email or phone")

	// ErrEncryptionFailed wraps failures while sealing a payload.
	ErrEncryptionFailed = errors.New("privacy: encryption failed")

	// ErrDecryptionFailed wraps failures while opening an envelope,
	// including tampered ciphertext.
	ErrDecryptionFailed = errors.New("privacy: decryption failed")

	// ErrInvalidEnvelope is returned for blobs that are not a sealed
	// envelope of a supported version.
	ErrInvalidEnvelope = errors.New("privacy: invalid envelope")

	// ErrExpired is returned when the envelope's expiry has passed. The
	// ciphertext is not touched in that case.
	ErrExpired = errors.New("privacy: contact payload expired")
)
