package dto

import "github.com/stop-registry/internal/domain"

// Link - гиперссылка на ресурс остановки
type Link struct {
	Href string `json:"href"`
}

// Links - навигационные ссылки. Next/Prev отсутствуют на границе.
type Links struct {
	Self Link  `json:"self"`
	Next *Link `json:"next,omitempty"`
	Prev *Link `json:"prev,omitempty"`
}

// StopSummary - краткое представление остановки после записи
type StopSummary struct {
	StopID      int64  `json:"stop_id"`
	LastUpdated string `json:"last_updated"`
	Links       Links  `json:"_links"`
}

// ImportStopsResponse - результат импорта
type ImportStopsResponse struct {
	Created  []StopSummary `json:"created"`
	Existing []int64       `json:"existing,omitempty"`
	Message  string        `json:"message,omitempty"`
}

// HasCreated - был ли создан хотя бы один stop
func (r *ImportStopsResponse) HasCreated() bool {
	return len(r.Created) > 0
}

// CreateStopResponse - результат прямого создания
type CreateStopResponse struct {
	Stop    StopSummary `json:"stop"`
	Created bool        `json:"created"`
	Message string      `json:"message,omitempty"`
}

// DepartureStatusNotFound - на табло нет отправления с платформой и направлением
const DepartureStatusNotFound = "not_found"

// StopView - обогащенное представление остановки.
// stop_id и _links присутствуют всегда, остальные поля зависят от include.
type StopView struct {
	StopID          int64    `json:"stop_id"`
	LastUpdated     *string  `json:"last_updated,omitempty"`
	Name            *string  `json:"name,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	NextDeparture   *string  `json:"next_departure,omitempty"`
	DepartureStatus string   `json:"departure_status,omitempty"`
	Links           Links    `json:"_links"`
}

// DeleteStopResponse - ответ на удаление
type DeleteStopResponse struct {
	Message string `json:"message"`
	StopID  int64  `json:"stop_id"`
}

// OperatorProfilesResponse - справки о перевозчиках остановки
type OperatorProfilesResponse struct {
	StopID   int64                    `json:"stop_id"`
	Profiles []domain.OperatorProfile `json:"profiles"`
}

// HealthResponse - состояние зависимостей
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
	Time   string            `json:"time"`
}
