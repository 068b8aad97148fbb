// Package translator is the anti-corruption layer between peer services and
// the notification core. It converts external lifecycle events (item
// posting, matching, user management, secure contact sharing) into validated
// internal delivery commands.
//
// Inbound events arrive as a JSON envelope:
//
//	{"event_type": "<namespace>.<action>", "data": {...}}
//
// Dispatch is a lookup table keyed by the full event type, populated per
// namespace at construction. Each mapping function extracts its required
// fields, failing with a MissingFieldError when one is absent, and returns
// zero or more commands. Unknown event types yield an UnknownEventTypeError
// so callers can log and discard without treating the event as fatal.
//
// Translation is stateless and performs no I/O, which keeps every mapping
// unit-testable with fixture payloads.
package translator
