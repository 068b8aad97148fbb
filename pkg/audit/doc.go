// Package audit records who touched protected contact data and what
// happened.
//
// Every encrypt and decrypt of a contact payload produces exactly one
// Event carrying the acting user, the exchange request it belongs to, the
// operation name and its outcome. Failures are recorded the same way as
// successes so the trail stays complete even when something goes wrong.
//
// Logger writes events; Reader queries them by actor, request or
// operation. Storage is the persistence contract with an in-memory
// implementation for tests and local development.
package audit
