// Package preferences manages per-recipient notification configuration:
// the global enable flag, contact details, timezone, language, and
// per-channel settings including quiet hours and frequency limits.
//
// Preferences are created lazily: a lookup for an unknown recipient returns
// freshly persisted defaults (email enabled, sms and whatsapp disabled)
// instead of an error. The Service wraps a Storage with a short-TTL
// read-through cache that is invalidated on every write, so routing
// decisions see recent updates without a storage round trip per
// notification.
package preferences
