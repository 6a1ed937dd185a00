package usecase

import (
	"strings"

	"github.com/stop-registry/internal/pkg/errors"
	"github.com/stop-registry/internal/usecase/dto"
)

// IncludeFilter - набор полей, запрошенных через ?include=
type IncludeFilter struct {
	active bool
	fields map[string]bool
}

// ParseInclude разбирает список через запятую. Пустой список - все поля.
// stop_id и _links всегда присутствуют, поэтому их нельзя запрашивать явно.
// Неизвестные имена игнорируются.
func ParseInclude(raw string) (IncludeFilter, error) {
	filter := IncludeFilter{fields: make(map[string]bool)}

	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if item == "stop_id" || item == "_links" {
			return IncludeFilter{}, errors.ErrInvalidInclude.WithDetails(map[string]interface{}{"include": item})
		}
		filter.active = true
		filter.fields[item] = true
	}

	return filter, nil
}

// Includes - попадет ли поле в ответ
func (f IncludeFilter) Includes(field string) bool {
	return !f.active || f.fields[field]
}

// Apply убирает из view незапрошенные поля. departure_status не фильтруется:
// отсутствие отправления сообщается при любом include.
func (f IncludeFilter) Apply(view *dto.StopView) {
	if !f.active {
		return
	}
	if !f.fields[FieldLastUpdated] {
		view.LastUpdated = nil
	}
	if !f.fields[FieldName] {
		view.Name = nil
	}
	if !f.fields[FieldLatitude] {
		view.Latitude = nil
	}
	if !f.fields[FieldLongitude] {
		view.Longitude = nil
	}
	if !f.fields[FieldNextDeparture] {
		view.NextDeparture = nil
	}
}
