package translator

import (
	"github.com/findly-now/fn-notifications/pkg/notification"
)

func (t *Translator) registerUserEvents() {
	t.register("user.registered", mapUserRegistered)
	t.register("user.staff_added", mapUserStaffAdded)
}

func mapUserRegistered(e *Envelope) ([]Command, error) {
	userID, err := e.field("user_id")
	if err != nil {
		return nil, err
	}
	email, err := e.field("email")
	if err != nil {
		return nil, err
	}

	return []Command{{
		RecipientID: userID,
		Channel:     notification.ChannelEmail,
		Title:       "Welcome to Findly",
		Body:        "Your account is ready. Report a lost or found item to get started.",
		Priority:    notification.PriorityNormal,
		Metadata:    baseMetadata(e, map[string]string{"email": email}),
	}}, nil
}

func mapUserStaffAdded(e *Envelope) ([]Command, error) {
	userID, err := e.field("user_id")
	if err != nil {
		return nil, err
	}
	orgID, err := e.field("organization_id")
	if err != nil {
		return nil, err
	}

	return []Command{{
		RecipientID: userID,
		Channel:     notification.ChannelEmail,
		Title:       "Staff Access Granted",
		Body:        "You were added as staff for your organization. You can now manage its lost and found posts.",
		Priority:    notification.PriorityNormal,
		Metadata:    baseMetadata(e, map[string]string{"organization_id": orgID}),
	}}, nil
}
