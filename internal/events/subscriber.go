package events

import (
	"encoding/json"
	"fmt"
)

// Message is one event received from the bus.
type Message struct {
	Topic string
	Data  []byte
}

// Subscriber receives events from the event bus.
type Subscriber interface {
	// Subscribe delivers messages on the returned channel.
	// Call the returned cancel function to unsubscribe and close the channel.
	Subscribe(topic string) (<-chan Message, func(), error)
	Close() error
}

// Decode unmarshals m into the event type registered for its topic.
// Unknown topics decode into a map.
func Decode(m Message) (any, error) {
	var ev any
	switch m.Topic {
	case TopicSchemaImported:
		ev = &SchemaImported{}
	case TopicSchemaExported:
		ev = &SchemaExported{}
	case TopicFieldUpdated:
		ev = &FieldUpdated{}
	case TopicFormReset:
		ev = &FormReset{}
	case TopicRecordSubmitted:
		ev = &RecordSubmitted{}
	default:
		ev = &map[string]any{}
	}
	if err := json.Unmarshal(m.Data, ev); err != nil {
		return nil, fmt.Errorf("decoding %s event: %w", m.Topic, err)
	}
	return ev, nil
}
