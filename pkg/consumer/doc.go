// Package consumer pulls raw events from a source and turns them into
// dispatched notifications.
//
// The Processor pulls batches, translates each event into delivery
// commands, suppresses duplicates within per-channel windows, persists the
// resulting notifications and hands them to the dispatcher. Messages are
// processed concurrently with a bounded degree of parallelism; commands
// from one event share its priority but are otherwise independent, and a
// failure of one command never blocks the others.
//
// Events the translator cannot understand are dead-lettered and
// acknowledged: a malformed or unknown event is never retried and never
// stops the consumer.
//
// Two Source implementations ship with the package: MemorySource for tests
// and local development, and RedisSource backed by a Redis list. Dead
// letters likewise go to memory, the log, or a Redis list.
package consumer
