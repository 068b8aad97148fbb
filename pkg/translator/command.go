package translator

import (
	"github.com/findly-now/fn-notifications/pkg/notification"
)

// Command is a validated internal delivery instruction produced from one
// external event. One event may fan out into several commands.
type Command struct {
	RecipientID string
	Channel     notification.Channel
	Title       string
	Body        string
	Priority    notification.Priority
	Metadata    map[string]string
}

// Envelope is the inbound event shape shared by all peer services.
type Envelope struct {
	EventType string         `json:"event_type"`
	Data      map[string]any `json:"data"`
}

// field extracts a non-empty string field from the event data.
func (e *Envelope) field(name string) (string, error) {
	v, ok := e.Data[name]
	if !ok {
		return "", &MissingFieldError{EventType: e.EventType, Field: name}
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", &MissingFieldError{EventType: e.EventType, Field: name}
	}
	return s, nil
}

// optionalField extracts a string field, returning fallback when absent.
func (e *Envelope) optionalField(name, fallback string) string {
	if v, ok := e.Data[name]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return fallback
}
