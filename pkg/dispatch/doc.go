// Package dispatch drives one notification through the delivery pipeline.
//
// The Coordinator loads the entity, consults the recipient's preferences,
// asks the router whether delivery may proceed, then hands the actual send
// to the channel's sender behind the bulkhead and the provider's circuit
// breaker. Outcomes are persisted as state transitions: sent on success,
// failed with a stable reason code otherwise. Transient failures schedule
// a delayed re-attempt while the retry budget lasts.
//
// Channel senders implement ChannelSender. PostmarkSender delivers email
// through Postmark; DevSender logs a masked recipient and is used for
// channels without a wired provider and in local development.
package dispatch
