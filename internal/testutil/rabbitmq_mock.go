package testutil

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// PublishedEvent is one event captured by MockPublisher.
type PublishedEvent struct {
	RoutingKey string
	EventData  interface{}
	RawJSON    []byte
}

// MockPublisher records events in memory. Set Err to make every Publish fail.
type MockPublisher struct {
	mu     sync.Mutex
	events []PublishedEvent
	Err    error
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(_ context.Context, routingKey string, eventData interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	raw, err := json.Marshal(eventData)
	if err != nil {
		return err
	}
	m.events = append(m.events, PublishedEvent{RoutingKey: routingKey, EventData: eventData, RawJSON: raw})
	return nil
}

func (m *MockPublisher) Close() error { return nil }

// ByKey returns a copy of the events published under routingKey, oldest first.
func (m *MockPublisher) ByKey(routingKey string) []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []PublishedEvent
	for _, e := range m.events {
		if e.RoutingKey == routingKey {
			out = append(out, e)
		}
	}
	return out
}

// Last returns the newest event for routingKey, or nil.
func (m *MockPublisher) Last(routingKey string) *PublishedEvent {
	events := m.ByKey(routingKey)
	if len(events) == 0 {
		return nil
	}
	return &events[len(events)-1]
}

func (m *MockPublisher) AssertEventCount(t *testing.T, routingKey string, expected int) {
	t.Helper()
	assert.Len(t, m.ByKey(routingKey), expected, "events with routing key %q", routingKey)
}
