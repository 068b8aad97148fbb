// Package dedup suppresses duplicate notifications within a per-channel
// time window.
//
// A deduplication key is a content-derived SHA-256 fingerprint over the
// (recipient, channel, title, body) tuple. Two notifications with identical
// content produce identical keys; any field change produces a different key.
//
// The Window interface tracks first sightings of a key. Seen atomically
// records the key and reports whether it was already recorded inside the
// window, so concurrent consumers never deliver the same content twice.
// Two implementations are provided: MemoryWindow for tests and single-node
// deployments, and RedisWindow for multi-instance deployments where the
// suppression window must be shared.
package dedup
