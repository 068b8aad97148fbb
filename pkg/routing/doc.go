// Package routing decides whether a notification should be delivered to a
// recipient right now.
//
// The router is pure and synchronous: it consults the already-loaded
// notification and preferences plus the wall clock, and returns a Decision
// with a stable reason code. Checks run in a fixed order (global enable,
// channel enable, contact availability, quiet hours, frequency limit) and
// the first failing check wins.
//
// Quiet hours are evaluated in the recipient's timezone and may wrap
// midnight. When a notification is rejected for quiet hours, DelayUntil
// carries the end of the window so callers can report when delivery would
// next be possible.
package routing
