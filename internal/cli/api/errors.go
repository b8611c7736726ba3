package api

import (
	"errors"
	"fmt"
)

// ErrValidation — сентинел для errors.Is: запрос отклонён до обращения к сети.
var ErrValidation = errors.New("invalid webhook message")

// ValidationError описывает некорректный URL, embeds или пустое сообщение.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Is позволяет сравнивать с ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// DeliveryError — ошибка доставки. StatusCode == 0 означает сбой транспорта (Err задан).
// Body содержит тело ответа как есть, но не больше MaxErrorBody байт;
// если ответ был длиннее, Body обрезан и Truncated == true.
type DeliveryError struct {
	StatusCode int
	Body       string
	Truncated  bool
	Err        error
}

func (e *DeliveryError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("webhook request failed: %v", e.Err)
	}
	if e.Truncated {
		return fmt.Sprintf("Discord error %d: %s (truncated)", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("Discord error %d: %s", e.StatusCode, e.Body)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
