package dto

// ImportStopsRequest - запрос на импорт остановок по поисковому запросу
type ImportStopsRequest struct {
	Query string `json:"query" query:"query" validate:"required"`
}

// CreateStopRequest - прямое создание остановки с id провайдера
type CreateStopRequest struct {
	StopID    int64   `json:"stop_id" validate:"required,gt=0"`
	Name      string  `json:"name" validate:"required"`
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}
