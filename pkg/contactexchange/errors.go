package contactexchange

import "errors"

var (
	// ErrEmptyRequestID rejects notifications without a correlation id.
	ErrEmptyRequestID = errors.New("contactexchange: request id cannot be empty")

	// ErrEmptyRequester rejects notifications without a requester.
	ErrEmptyRequester = errors.New("contactexchange: requester id cannot be empty")

	// ErrEmptyOwner rejects notifications without an owner.
	ErrEmptyOwner = errors.New("contactexchange: owner id cannot be empty")

	// ErrSelfExchange rejects exchanges where requester and owner are the
	// same user.
	ErrSelfExchange = errors.New("contactexchange: requester and owner must differ")

	// ErrInvalidStatus is returned for statuses outside the persisted enum.
	ErrInvalidStatus = errors.New("contactexchange: invalid exchange status")

	// ErrInvalidType is returned for types outside the persisted enum.
	ErrInvalidType = errors.New("contactexchange: invalid notification type")

	// ErrStatusTypeMismatch is returned when the notification type does not
	// belong to the lifecycle step it announces.
	ErrStatusTypeMismatch = errors.New("contactexchange: notification type does not match exchange status")

	// ErrMissingContactPayload is returned when an approval carries no
	// encrypted contact details.
	ErrMissingContactPayload = errors.New("contactexchange: approval requires an encrypted contact payload")

	// ErrAlreadySent guards against double sends of the same notification.
	ErrAlreadySent = errors.New("contactexchange: notification already sent")

	// ErrNotFound is returned when a notification does not exist.
	ErrNotFound = errors.New("contactexchange: notification not found")

	// ErrAlreadyExists is returned when a notification id is already stored.
	ErrAlreadyExists = errors.New("contactexchange: notification already exists")

	// ErrInvalidTransition is returned for moves the state machine forbids.
	ErrInvalidTransition = errors.New("contactexchange: invalid status transition")
)
