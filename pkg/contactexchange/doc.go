// Package contactexchange models the secure contact-sharing lifecycle
// between the person who reported an item and the person who claimed it.
//
// A contact exchange request moves through pending, approved, denied and
// expired; an approval can still expire later, denial and expiration are
// final. Each step produces exactly one ContactExchangeNotification whose
// type is fixed by the step: request_received goes to the item owner,
// approval_granted carries the encrypted contact payload to the requester,
// denial_sent informs the requester, and expiration_notice fans out to both
// parties.
//
// The contact payload is stored as an opaque encrypted blob; this package
// never sees plaintext contact details. Sealing and opening live in
// pkg/privacy.
package contactexchange
