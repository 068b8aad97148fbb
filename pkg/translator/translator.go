package translator

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/findly-now/fn-notifications/pkg/notification"
)

// Namespaces handled by the translator.
const (
	NamespacePost            = "post"
	NamespaceUser            = "user"
	NamespaceContactExchange = "contact.exchange"
)

type mappingFunc func(e *Envelope) ([]Command, error)

// Translator maps external event payloads into delivery commands.
type Translator struct {
	mappings map[string]mappingFunc
}

// New builds a translator with the full event table registered.
func New() *Translator {
	t := &Translator{
		mappings: make(map[string]mappingFunc),
	}
	t.registerPostEvents()
	t.registerUserEvents()
	t.registerContactExchangeEvents()
	return t
}

// Translate decodes the envelope and dispatches to the mapping registered
// for its event type. The context is accepted for interface symmetry with
// the rest of the pipeline; translation itself performs no I/O.
func (t *Translator) Translate(ctx context.Context, raw []byte) ([]Command, error) {
	var envelope Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, errors.Join(ErrMalformedEvent, err)
	}
	if envelope.EventType == "" {
		return nil, errors.Join(ErrMalformedEvent, errors.New("empty event_type"))
	}

	mapping, ok := t.mappings[envelope.EventType]
	if !ok {
		return nil, &UnknownEventTypeError{EventType: envelope.EventType}
	}
	return mapping(&envelope)
}

// Supports reports whether the event type has a registered mapping.
func (t *Translator) Supports(eventType string) bool {
	_, ok := t.mappings[eventType]
	return ok
}

// Namespace extracts the namespace prefix of an event type, e.g.
// "contact.exchange" from "contact.exchange.approved".
func Namespace(eventType string) string {
	idx := strings.LastIndex(eventType, ".")
	if idx < 0 {
		return eventType
	}
	return eventType[:idx]
}

func (t *Translator) register(eventType string, fn mappingFunc) {
	t.mappings[eventType] = fn
}

func baseMetadata(e *Envelope, pairs map[string]string) map[string]string {
	md := map[string]string{
		notification.MetadataKeyEventType: e.EventType,
	}
	for k, v := range pairs {
		md[k] = v
	}
	return md
}
