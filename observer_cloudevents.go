package servicelayer

import (
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
)

// CloudEvent is an alias for the CloudEvents Event type, so hosts can
// implement Observer without importing the SDK under a second name.
type CloudEvent = cloudevents.Event

// NewCloudEvent assembles a lifecycle event with the required
// CloudEvents attributes set and the data encoded as JSON.
func NewCloudEvent(eventType, source string, data any) cloudevents.Event {
	event := cloudevents.NewEvent()
	event.SetID(eventID())
	event.SetSource(source)
	event.SetType(eventType)
	event.SetTime(time.Now())
	if data != nil {
		_ = event.SetData(cloudevents.ApplicationJSON, data)
	}
	return event
}

// eventID returns a time-ordered UUIDv7 so event ids sort by emission,
// falling back to v4 if v7 generation fails.
func eventID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}
