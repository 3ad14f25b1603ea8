package messaging

import (
	"time"

	"github.com/google/uuid"
)

// ServiceName identifies this app in event payloads.
const ServiceName = "health-record-editor"

// Event routing keys
const (
	EventSectionSaved  = "health_record.section_saved"
	EventRecordFetched = "health_record.fetched"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventType   string    `json:"event_type"`
	EventID     string    `json:"event_id"`
	Timestamp   time.Time `json:"timestamp"`
	ServiceName string    `json:"service_name"`
}

// SectionSavedEvent is published after an editor commits a section to the store.
type SectionSavedEvent struct {
	BaseEvent
	Data SectionSavedData `json:"data"`
}

type SectionSavedData struct {
	RecordID  int       `json:"record_id"`
	Section   string    `json:"section"`
	ItemCount int       `json:"item_count"` // list sections only
	SavedAt   time.Time `json:"saved_at"`
}

// RecordFetchedEvent is published when a fetched record is applied to the store.
type RecordFetchedEvent struct {
	BaseEvent
	Data RecordFetchedData `json:"data"`
}

type RecordFetchedData struct {
	RecordID     int       `json:"record_id"`
	SymptomCount int       `json:"symptom_count"`
	FetchedAt    time.Time `json:"fetched_at"`
}

// NewBaseEvent creates a base event with common fields
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventType:   eventType,
		EventID:     uuid.NewString(),
		Timestamp:   time.Now().UTC(),
		ServiceName: ServiceName,
	}
}

// NewSectionSavedEvent builds the payload for EventSectionSaved.
func NewSectionSavedEvent(recordID int, section string, itemCount int) SectionSavedEvent {
	base := NewBaseEvent(EventSectionSaved)
	return SectionSavedEvent{
		BaseEvent: base,
		Data: SectionSavedData{
			RecordID:  recordID,
			Section:   section,
			ItemCount: itemCount,
			SavedAt:   base.Timestamp,
		},
	}
}

// NewRecordFetchedEvent builds the payload for EventRecordFetched.
func NewRecordFetchedEvent(recordID, symptomCount int) RecordFetchedEvent {
	base := NewBaseEvent(EventRecordFetched)
	return RecordFetchedEvent{
		BaseEvent: base,
		Data: RecordFetchedData{
			RecordID:     recordID,
			SymptomCount: symptomCount,
			FetchedAt:    base.Timestamp,
		},
	}
}
