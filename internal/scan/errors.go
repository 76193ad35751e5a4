package scan

import (
	"errors"
	"fmt"
)

var (
	// ErrDecodeFailure изображение целиком не удалось декодировать
	ErrDecodeFailure = errors.New("decode failure")

	// ErrImageTooLarge изображение превышает лимит по размеру или числу пикселей
	ErrImageTooLarge = errors.New("image too large")

	// ErrUnsupportedImage формат изображения не распознан или файл поврежден
	ErrUnsupportedImage = errors.New("unsupported or corrupt image")

	// ErrInvalidUTF8 payload детекции не является корректным UTF-8
	ErrInvalidUTF8 = errors.New("payload is not valid UTF-8")
)

// Стадии, на которых возможен DecodeFailure
const (
	StageImage  = "image"
	StageDetect = "detect"
	StageText   = "text"
)

// DecodeError описывает отказ декодирования всего изображения.
// errors.Is(err, ErrDecodeFailure) истинно для любого DecodeError.
type DecodeError struct {
	Err   error
	Stage string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode failure at %s stage: %v", e.Stage, e.Err)
}

// Unwrap возвращает ErrDecodeFailure и исходную причину
func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecodeFailure, e.Err}
}

func newDecodeError(stage string, err error) *DecodeError {
	return &DecodeError{Stage: stage, Err: err}
}
