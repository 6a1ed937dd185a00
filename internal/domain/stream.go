package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stream names
const (
	StreamStopEvents   = "stream:stops:events"
	StreamStopImport   = "stream:stops:import"
	StreamStopImported = "stream:stops:imported"
)

type StopEventType string

const (
	StopEventCreated            StopEventType = "created"
	StopEventUpdated            StopEventType = "updated"
	StopEventDeleted            StopEventType = "deleted"
	StopEventDepartureRefreshed StopEventType = "departure_refreshed"
)

// StopEvent - уведомление об изменении остановки
type StopEvent struct {
	EventID    uuid.UUID     `json:"event_id"`
	Type       StopEventType `json:"type"`
	StopID     int64         `json:"stop_id"`
	OccurredAt time.Time     `json:"occurred_at"`
}

func NewStopEvent(eventType StopEventType, stopID int64, at time.Time) StopEvent {
	return StopEvent{
		EventID:    uuid.New(),
		Type:       eventType,
		StopID:     stopID,
		OccurredAt: at,
	}
}

// StopImportEvent - входящий запрос на импорт остановок
type StopImportEvent struct {
	RequestID uuid.UUID `json:"request_id"`
	Query     string    `json:"query"`
}

// StopImportDoneEvent - результат импорта
type StopImportDoneEvent struct {
	RequestID uuid.UUID `json:"request_id"`
	Query     string    `json:"query"`
	Created   []int64   `json:"created,omitempty"`
	Existing  []int64   `json:"existing,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
