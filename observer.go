package servicelayer

import (
	"context"
	"fmt"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
)

// Observer receives lifecycle events from the layer. Events use the
// CloudEvents specification for standardized format and interoperability.
type Observer interface {
	// OnEvent is called for each event the observer subscribed to.
	// Observers should return quickly; errors are logged, not propagated.
	OnEvent(ctx context.Context, event cloudevents.Event) error

	// ObserverID returns a unique identifier for this observer, used for
	// registration tracking and debugging.
	ObserverID() string
}

// Subject is the event-emitting side of the observer pattern. The
// ServiceLayer implements it.
type Subject interface {
	// RegisterObserver adds an observer, optionally filtered to the given
	// event types. An empty filter receives everything.
	RegisterObserver(observer Observer, eventTypes ...string) error

	// UnregisterObserver removes an observer. Idempotent.
	UnregisterObserver(observer Observer) error

	// NotifyObservers delivers an event to every interested observer.
	NotifyObservers(ctx context.Context, event cloudevents.Event) error

	// GetObservers reports the currently registered observers.
	GetObservers() []ObserverInfo
}

// ObserverInfo describes one registered observer for debugging and
// monitoring.
type ObserverInfo struct {
	ID           string    `json:"id"`
	EventTypes   []string  `json:"eventTypes"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// Event types emitted by the layer, using reverse domain notation per
// the CloudEvents specification.
const (
	EventTypeLayerStarted   = "com.servicelayer.layer.started"
	EventTypeLayerDestroyed = "com.servicelayer.layer.destroyed"
	EventTypeLayerFailed    = "com.servicelayer.layer.failed"

	EventTypeServiceConstructed = "com.servicelayer.service.constructed"
	EventTypeServiceShared      = "com.servicelayer.service.shared"
	EventTypeServiceDestroyed   = "com.servicelayer.service.destroyed"

	EventTypeLookupDenied = "com.servicelayer.lookup.denied"
)

// observerRegistration holds one registered observer and its filter.
type observerRegistration struct {
	observer     Observer
	eventTypes   map[string]bool
	registeredAt time.Time
}

// RegisterObserver adds an observer to receive layer lifecycle events.
// Register before Start to see construction events.
func (l *ServiceLayer) RegisterObserver(observer Observer, eventTypes ...string) error {
	l.observerMu.Lock()
	defer l.observerMu.Unlock()

	filter := make(map[string]bool, len(eventTypes))
	for _, eventType := range eventTypes {
		filter[eventType] = true
	}
	l.observers[observer.ObserverID()] = &observerRegistration{
		observer:     observer,
		eventTypes:   filter,
		registeredAt: time.Now(),
	}

	l.logger.Debug("Observer registered", "observerID", observer.ObserverID(), "eventTypes", eventTypes)
	return nil
}

// UnregisterObserver removes an observer. It does not error if the
// observer was never registered.
func (l *ServiceLayer) UnregisterObserver(observer Observer) error {
	l.observerMu.Lock()
	defer l.observerMu.Unlock()

	delete(l.observers, observer.ObserverID())
	return nil
}

// NotifyObservers delivers a CloudEvent to every observer whose filter
// matches. Delivery is synchronous: the layer has a single logical owner
// and observers are expected to be fast. Observer errors and panics are
// logged and never propagate.
func (l *ServiceLayer) NotifyObservers(ctx context.Context, event cloudevents.Event) error {
	l.observerMu.RLock()
	defer l.observerMu.RUnlock()

	if event.Time().IsZero() {
		event.SetTime(time.Now())
	}
	if err := event.Validate(); err != nil {
		l.logger.Error("Invalid event", "eventType", event.Type(), "error", err)
		return fmt.Errorf("invalid event %s: %w", event.Type(), err)
	}

	for _, registration := range l.observers {
		if len(registration.eventTypes) > 0 && !registration.eventTypes[event.Type()] {
			continue
		}
		l.deliver(ctx, registration, event)
	}
	return nil
}

func (l *ServiceLayer) deliver(ctx context.Context, registration *observerRegistration, event cloudevents.Event) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("Observer panicked",
				"observerID", registration.observer.ObserverID(), "event", event.Type(), "panic", r)
		}
	}()

	if err := registration.observer.OnEvent(ctx, event); err != nil {
		l.logger.Error("Observer error",
			"observerID", registration.observer.ObserverID(), "event", event.Type(), "error", err)
	}
}

// GetObservers returns information about currently registered observers.
func (l *ServiceLayer) GetObservers() []ObserverInfo {
	l.observerMu.RLock()
	defer l.observerMu.RUnlock()

	info := make([]ObserverInfo, 0, len(l.observers))
	for _, registration := range l.observers {
		eventTypes := make([]string, 0, len(registration.eventTypes))
		for eventType := range registration.eventTypes {
			eventTypes = append(eventTypes, eventType)
		}
		info = append(info, ObserverInfo{
			ID:           registration.observer.ObserverID(),
			EventTypes:   eventTypes,
			RegisteredAt: registration.registeredAt,
		})
	}
	return info
}

// emitEvent builds and delivers a layer event. Failures to notify are
// logged and swallowed; event emission never affects layer semantics.
func (l *ServiceLayer) emitEvent(ctx context.Context, eventType string, data any) {
	event := NewCloudEvent(eventType, "servicelayer", data)
	if err := l.NotifyObservers(ctx, event); err != nil {
		l.logger.Error("Failed to notify observers", "event", eventType, "error", err)
	}
}

// FunctionalObserver wraps a plain function as an Observer, for tests
// and simple hosts.
type FunctionalObserver struct {
	id      string
	handler func(ctx context.Context, event cloudevents.Event) error
}

// NewFunctionalObserver creates an observer that delegates to handler.
func NewFunctionalObserver(id string, handler func(ctx context.Context, event cloudevents.Event) error) *FunctionalObserver {
	return &FunctionalObserver{id: id, handler: handler}
}

func (o *FunctionalObserver) OnEvent(ctx context.Context, event cloudevents.Event) error {
	return o.handler(ctx, event)
}

func (o *FunctionalObserver) ObserverID() string {
	return o.id
}
