package domain

import (
	"strconv"
	"time"
)

// TimestampLayout - формат last_updated: YYYY-MM-DD-HH:MM:SS
const TimestampLayout = "2006-01-02-15:04:05"

// Stop - сохраненная остановка. ID назначается провайдером транспортных данных.
type Stop struct {
	ID            int64    `json:"stop_id" db:"id"`
	Name          *string  `json:"name,omitempty" db:"name"`
	Latitude      *float64 `json:"latitude,omitempty" db:"latitude"`
	Longitude     *float64 `json:"longitude,omitempty" db:"longitude"`
	LastUpdated   string   `json:"last_updated" db:"last_updated"`
	SelfLink      string   `json:"self_link" db:"self_link"`
	NextDeparture *string  `json:"next_departure,omitempty" db:"next_departure"`
}

// NewStop - остановка из результата поиска провайдера
func NewStop(id int64, name string, lat, lon float64, baseURL string, now time.Time) *Stop {
	return &Stop{
		ID:          id,
		Name:        &name,
		Latitude:    &lat,
		Longitude:   &lon,
		LastUpdated: FormatTimestamp(now),
		SelfLink:    StopLink(baseURL, id),
	}
}

// StopFieldDiff - набор изменяемых полей. nil означает "не менять".
// LastUpdated == nil означает "текущее время хранилища".
type StopFieldDiff struct {
	Name          *string
	NextDeparture *string
	Latitude      *float64
	Longitude     *float64
	LastUpdated   *string
}

// IsEmpty - нет ни одного поля для записи (кроме метки времени)
func (d StopFieldDiff) IsEmpty() bool {
	return d.Name == nil && d.NextDeparture == nil && d.Latitude == nil && d.Longitude == nil
}

// Neighbors - соседние по порядку id. nil на границе.
type Neighbors struct {
	Next *int64
	Prev *int64
}

// CreateStatus - результат создания остановки
type CreateStatus int

const (
	StopCreated CreateStatus = iota
	StopAlreadyExists
)

func (s CreateStatus) String() string {
	switch s {
	case StopCreated:
		return "created"
	case StopAlreadyExists:
		return "already_exists"
	default:
		return "unknown"
	}
}

// StopLink строит URI ресурса остановки только из базового URL и числового id
func StopLink(baseURL string, id int64) string {
	return baseURL + "/stops/" + strconv.FormatInt(id, 10)
}

func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
