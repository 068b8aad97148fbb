// Package notification holds the delivery-attempt lifecycle record and its
// state machine.
//
// A Notification represents one delivery attempt to one recipient over one
// channel. Its status only moves along the legal transition table:
//
//	pending  → sent | failed | cancelled
//	sent     → delivered | failed
//
// delivered and cancelled are terminal. failed is terminal unless the retry
// budget allows IncrementRetry, which resets the record to pending. Every
// transition stamps the matching timestamp and UpdatedAt. Records are never
// deleted; the storage contract deliberately has no delete operation so the
// delivery history stays available for audit.
//
// Persistence is abstracted behind the Storage interface. MemoryStorage
// backs tests and local development; PostgresStorage backs production.
package notification
