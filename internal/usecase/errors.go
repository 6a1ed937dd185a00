package usecase

import (
	"context"
	stderrors "errors"

	"github.com/stop-registry/internal/domain"
	"github.com/stop-registry/internal/pkg/errors"
)

// transitError переводит ошибку провайдера транспортных данных в ответ API
func transitError(err error) error {
	switch {
	case stderrors.Is(err, domain.ErrUpstreamBadRequest):
		return errors.ErrTransportBadRequest.Wrap(err)
	case stderrors.Is(err, domain.ErrUpstreamNotFound):
		return errors.ErrTransportNotFound.Wrap(err)
	case stderrors.Is(err, domain.ErrNoDeparture):
		return errors.ErrNoDeparture.Wrap(err)
	default:
		// сетевые ошибки, таймауты, некорректный JSON
		return errors.ErrTransportUnavailable.Wrap(err)
	}
}

// storeError переводит ошибку хранилища: неизвестный id - 404, прочее - 503
func storeError(err error) error {
	if stderrors.Is(err, domain.ErrStopNotFound) {
		return errors.ErrStopNotFound.Wrap(err)
	}
	return errors.ErrDatabaseUnavailable.Wrap(err)
}

// generationError - любая ошибка генерации текста означает недоступность сервиса
func generationError(err error) error {
	return errors.ErrAIUnavailable.Wrap(err)
}

// isCanceled - клиент ушел, логировать как ошибку не нужно
func isCanceled(err error) bool {
	return stderrors.Is(err, context.Canceled)
}
