package domain

import "fmt"

// LocationTypeStop - тип результата поиска, который можно сохранить как остановку
const LocationTypeStop = "stop"

// StopCandidate - результат поиска локаций у провайдера
type StopCandidate struct {
	Type      string
	ID        int64
	Name      string
	Latitude  float64
	Longitude float64
}

// Departure - строка табло отправлений. Порядок задает провайдер.
type Departure struct {
	Platform     *string `json:"platform"`
	Direction    *string `json:"direction"`
	OperatorName *string `json:"operator_name,omitempty"`
}

// DepartureInfo - выбранное ближайшее отправление
type DepartureInfo struct {
	Platform  string
	Direction string
}

// Describe - человекочитаемое описание для next_departure
func (d DepartureInfo) Describe() string {
	return fmt.Sprintf("Platform %s towards %s", d.Platform, d.Direction)
}

// OperatorProfile - справка о перевозчике
type OperatorProfile struct {
	OperatorName string `json:"operator_name"`
	Information  string `json:"information"`
}
