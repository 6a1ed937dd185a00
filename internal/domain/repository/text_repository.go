package repository

import "context"

// TextGenerationRepository - внешний сервис генерации текста
type TextGenerationRepository interface {
	// GenerateText возвращает ответ модели на prompt.
	// Пустой ответ или ошибка сервиса - domain.ErrGenerationFailed.
	GenerateText(ctx context.Context, prompt string) (string, error)
}
