package translator

import (
	"fmt"

	"github.com/findly-now/fn-notifications/pkg/notification"
)

func (t *Translator) registerPostEvents() {
	t.register("post.created", mapPostCreated)
	t.register("post.matched", mapPostMatched)
	t.register("post.claimed", mapPostClaimed)
	t.register("post.resolved", mapPostResolved)
}

func mapPostCreated(e *Envelope) ([]Command, error) {
	postID, err := e.field("post_id")
	if err != nil {
		return nil, err
	}
	reporterID, err := e.field("reporter_id")
	if err != nil {
		return nil, err
	}
	postTitle := e.optionalField("title", "your item")

	return []Command{{
		RecipientID: reporterID,
		Channel:     notification.ChannelEmail,
		Title:       "Post Confirmed",
		Body:        fmt.Sprintf("Your post for %q is live. We will notify you as soon as a potential match turns up.", postTitle),
		Priority:    notification.PriorityNormal,
		Metadata:    baseMetadata(e, map[string]string{"post_id": postID}),
	}}, nil
}

func mapPostMatched(e *Envelope) ([]Command, error) {
	postID, err := e.field("post_id")
	if err != nil {
		return nil, err
	}
	matchedPostID, err := e.field("matched_post_id")
	if err != nil {
		return nil, err
	}
	reporterID, err := e.field("reporter_id")
	if err != nil {
		return nil, err
	}
	matchedReporterID, err := e.field("matched_reporter_id")
	if err != nil {
		return nil, err
	}

	md := map[string]string{"post_id": postID, "matched_post_id": matchedPostID}
	body := "A post matching yours was found. Open the app to review the match and get in touch."

	return []Command{
		{
			RecipientID: reporterID,
			Channel:     notification.ChannelEmail,
			Title:       "Potential Match Found",
			Body:        body,
			Priority:    notification.PriorityHigh,
			Metadata:    baseMetadata(e, md),
		},
		{
			RecipientID: matchedReporterID,
			Channel:     notification.ChannelEmail,
			Title:       "Potential Match Found",
			Body:        body,
			Priority:    notification.PriorityHigh,
			Metadata:    baseMetadata(e, md),
		},
	}, nil
}

// mapPostClaimed fans out to both parties: the reporter gets an urgent SMS
// because a claim is time-sensitive, the claimer an email confirmation.
func mapPostClaimed(e *Envelope) ([]Command, error) {
	postID, err := e.field("post_id")
	if err != nil {
		return nil, err
	}
	reporterID, err := e.field("reporter_id")
	if err != nil {
		return nil, err
	}
	claimerID, err := e.field("claimer_id")
	if err != nil {
		return nil, err
	}

	md := map[string]string{"post_id": postID, "claimer_id": claimerID}

	return []Command{
		{
			RecipientID: reporterID,
			Channel:     notification.ChannelSMS,
			Title:       "Your item was claimed",
			Body:        "Someone claimed the item you reported. Review the claim in the app to confirm or decline.",
			Priority:    notification.PriorityUrgent,
			Metadata:    baseMetadata(e, md),
		},
		{
			RecipientID: claimerID,
			Channel:     notification.ChannelEmail,
			Title:       "Claim Submitted",
			Body:        "Your claim was submitted. The reporter will review it and you will hear back shortly.",
			Priority:    notification.PriorityUrgent,
			Metadata:    baseMetadata(e, md),
		},
	}, nil
}

func mapPostResolved(e *Envelope) ([]Command, error) {
	postID, err := e.field("post_id")
	if err != nil {
		return nil, err
	}
	reporterID, err := e.field("reporter_id")
	if err != nil {
		return nil, err
	}

	return []Command{{
		RecipientID: reporterID,
		Channel:     notification.ChannelEmail,
		Title:       "Post Resolved",
		Body:        "Your post was marked as resolved. Thanks for helping reunite items with their owners.",
		Priority:    notification.PriorityNormal,
		Metadata:    baseMetadata(e, map[string]string{"post_id": postID}),
	}}, nil
}
