// Package bulkhead isolates resource usage per work category so a slow or
// failing channel cannot exhaust the process.
//
// Each category (email-delivery, sms-delivery, whatsapp-delivery,
// event-processing, ...) owns a fixed number of concurrency slots and a
// bounded FIFO wait queue. Execute admits the caller immediately when a
// slot is free, otherwise the caller queues and blocks until a slot is
// handed over, the acquire timeout expires (ErrAcquireTimeout), or the
// context is cancelled. When the queue is at its cap the caller is turned
// away at once with ErrPoolExhausted.
//
// A released slot is handed directly to the longest-waiting caller, which
// preserves arrival order under contention. Unrelated categories never
// share state and proceed fully in parallel.
//
// Utilization per category is exposed for health reporting.
package bulkhead
