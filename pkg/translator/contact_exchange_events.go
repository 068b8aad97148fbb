package translator

import (
	"github.com/findly-now/fn-notifications/pkg/notification"
)

func (t *Translator) registerContactExchangeEvents() {
	t.register("contact.exchange.requested", mapExchangeRequested)
	t.register("contact.exchange.approved", mapExchangeApproved)
	t.register("contact.exchange.denied", mapExchangeDenied)
	t.register("contact.exchange.expired", mapExchangeExpired)
}

func mapExchangeRequested(e *Envelope) ([]Command, error) {
	requestID, err := e.field("request_id")
	if err != nil {
		return nil, err
	}
	requesterID, err := e.field("requester_id")
	if err != nil {
		return nil, err
	}
	ownerID, err := e.field("owner_id")
	if err != nil {
		return nil, err
	}
	postID, err := e.field("post_id")
	if err != nil {
		return nil, err
	}

	return []Command{{
		RecipientID: ownerID,
		Channel:     notification.ChannelEmail,
		Title:       "Contact Request Received",
		Body:        "Someone asked to exchange contact details about your post. Approve or decline the request in the app.",
		Priority:    notification.PriorityNormal,
		Metadata: baseMetadata(e, map[string]string{
			"request_id":   requestID,
			"requester_id": requesterID,
			"post_id":      postID,
		}),
	}}, nil
}

func mapExchangeApproved(e *Envelope) ([]Command, error) {
	requestID, err := e.field("request_id")
	if err != nil {
		return nil, err
	}
	requesterID, err := e.field("requester_id")
	if err != nil {
		return nil, err
	}
	ownerID, err := e.field("owner_id")
	if err != nil {
		return nil, err
	}

	return []Command{{
		RecipientID: requesterID,
		Channel:     notification.ChannelEmail,
		Title:       "Contact Request Approved",
		Body:        "Your contact request was approved. The shared details are available in the app for a limited time.",
		Priority:    notification.PriorityHigh,
		Metadata: baseMetadata(e, map[string]string{
			"request_id": requestID,
			"owner_id":   ownerID,
		}),
	}}, nil
}

func mapExchangeDenied(e *Envelope) ([]Command, error) {
	requestID, err := e.field("request_id")
	if err != nil {
		return nil, err
	}
	requesterID, err := e.field("requester_id")
	if err != nil {
		return nil, err
	}

	// Deliberately neutral wording; the denial reason is never shared.
	return []Command{{
		RecipientID: requesterID,
		Channel:     notification.ChannelEmail,
		Title:       "Contact Request Update",
		Body:        "Your contact request was not approved this time. You can keep following the post for updates.",
		Priority:    notification.PriorityNormal,
		Metadata:    baseMetadata(e, map[string]string{"request_id": requestID}),
	}}, nil
}

// mapExchangeExpired notifies the requester and fans out to the owner so
// both sides know the shared contact details are no longer accessible.
func mapExchangeExpired(e *Envelope) ([]Command, error) {
	requestID, err := e.field("request_id")
	if err != nil {
		return nil, err
	}
	requesterID, err := e.field("requester_id")
	if err != nil {
		return nil, err
	}
	ownerID, err := e.field("owner_id")
	if err != nil {
		return nil, err
	}

	md := map[string]string{"request_id": requestID}

	return []Command{
		{
			RecipientID: requesterID,
			Channel:     notification.ChannelEmail,
			Title:       "Contact Request Expired",
			Body:        "The contact exchange expired and the shared details are no longer accessible. Submit a new request if you still need them.",
			Priority:    notification.PriorityNormal,
			Metadata:    baseMetadata(e, md),
		},
		{
			RecipientID: ownerID,
			Channel:     notification.ChannelEmail,
			Title:       "Contact Request Expired",
			Body:        "A contact exchange on your post expired. The details you shared are no longer accessible.",
			Priority:    notification.PriorityNormal,
			Metadata:    baseMetadata(e, md),
		},
	}, nil
}
