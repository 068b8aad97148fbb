// Package privacy seals and opens contact payloads exchanged between users.
//
// A ContactPayload is serialized to JSON and encrypted with AES-256-GCM
// under a per-envelope key derived from the 32-byte master key via
// HKDF-SHA256 with a random salt. The resulting envelope records when it
// was sealed and optionally when it stops being readable; Decrypt refuses
// expired envelopes before touching the ciphertext.
//
// Every encrypt and decrypt writes an audit event, also on failure. An
// audit write that itself fails is logged and does not change the outcome
// of the operation.
//
// MaskEmail and MaskPhone produce redacted forms for diagnostics; raw
// contact values must never reach a log line.
package privacy
