// Package retry schedules delayed re-delivery of failed notifications.
//
// Delays grow as base * 3^attempt and cap at the third step: with the
// default 30 second base the sequence is 30s, 90s, 270s, then 270s for any
// further attempt. The Scheduler persists a Job for the future attempt;
// the Worker claims due jobs and re-runs the delivery pipeline against the
// same notification id.
//
// A fired job re-checks the notification first: if it is no longer failed,
// or its retry budget ran out, the job is dropped without side effects.
// That makes a scheduled retry safely supersedable by whatever happened to
// the entity in the meantime.
package retry
