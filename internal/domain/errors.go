package domain

import "errors"

var (
	// ErrStopNotFound - остановки нет в хранилище
	ErrStopNotFound = errors.New("stop not found")

	// ErrNoDeparture - на табло нет отправления с платформой и направлением
	ErrNoDeparture = errors.New("no departure with platform and direction")

	ErrUpstreamBadRequest  = errors.New("upstream rejected request")
	ErrUpstreamNotFound    = errors.New("upstream resource not found")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrGenerationFailed - сервис генерации текста не ответил или вернул пустой текст
	ErrGenerationFailed = errors.New("text generation failed")
)
