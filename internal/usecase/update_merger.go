package usecase

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/stop-registry/internal/domain"
	"github.com/stop-registry/internal/pkg/errors"
)

// Поля тела PATCH
const (
	FieldName          = "name"
	FieldNextDeparture = "next_departure"
	FieldLatitude      = "latitude"
	FieldLongitude     = "longitude"
	FieldLastUpdated   = "last_updated"
)

// updatableFields в порядке проверки: первое невалидное поле прерывает обновление
var updatableFields = []string{
	FieldName,
	FieldNextDeparture,
	FieldLatitude,
	FieldLongitude,
	FieldLastUpdated,
}

// forbiddenFields - идентичность и ссылки остановки не меняются
var forbiddenFields = []string{"stop_id", "id", "_links", "self_link"}

var timestampPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}-\d{2}:\d{2}:\d{2}$`)

// MergeStopUpdate проверяет тело частичного обновления и собирает diff.
// Ничего не пишет: при любой ошибке хранилище не затрагивается.
// Без last_updated подставляется now.
func MergeStopUpdate(fields map[string]json.RawMessage, now time.Time) (domain.StopFieldDiff, error) {
	var diff domain.StopFieldDiff

	for _, name := range forbiddenFields {
		if _, ok := fields[name]; ok {
			return diff, errors.ErrForbiddenField.WithDetails(map[string]interface{}{"field": name})
		}
	}

	present := false
	for _, name := range updatableFields {
		if _, ok := fields[name]; ok {
			present = true
			break
		}
	}
	if !present {
		return diff, errors.ErrNoUpdatableField
	}

	for _, name := range updatableFields {
		raw, ok := fields[name]
		if !ok {
			continue
		}

		switch name {
		case FieldName, FieldNextDeparture:
			s, ok := parseNonEmptyString(raw)
			if !ok {
				return domain.StopFieldDiff{}, invalidField(name)
			}
			if name == FieldName {
				diff.Name = &s
			} else {
				diff.NextDeparture = &s
			}

		case FieldLatitude, FieldLongitude:
			f, ok := parseFloat(raw)
			if !ok {
				return domain.StopFieldDiff{}, invalidField(name)
			}
			if name == FieldLatitude {
				diff.Latitude = &f
			} else {
				diff.Longitude = &f
			}

		case FieldLastUpdated:
			ts, ok := parseTimestamp(raw)
			if !ok {
				return domain.StopFieldDiff{}, errors.ErrInvalidTimestamp.WithDetails(map[string]interface{}{
					"field":  name,
					"format": "YYYY-MM-DD-HH:MM:SS",
				})
			}
			diff.LastUpdated = &ts
		}
	}

	if diff.LastUpdated == nil {
		ts := domain.FormatTimestamp(now)
		diff.LastUpdated = &ts
	}

	return diff, nil
}

func invalidField(name string) error {
	return errors.ErrInvalidField.WithDetails(map[string]interface{}{"field": name})
}

// parseNonEmptyString принимает только JSON-строку, непустую после обрезки пробелов
func parseNonEmptyString(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || isNull(raw) {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// parseFloat принимает JSON-число или строку с числом
func parseFloat(raw json.RawMessage) (float64, bool) {
	if isNull(raw) {
		return 0, false
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		f, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseTimestamp требует точное совпадение с форматом YYYY-MM-DD-HH:MM:SS
// и корректную календарную дату
func parseTimestamp(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || isNull(raw) {
		return "", false
	}
	if !timestampPattern.MatchString(s) {
		return "", false
	}
	if _, err := time.Parse(domain.TimestampLayout, s); err != nil {
		return "", false
	}
	return s, true
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
