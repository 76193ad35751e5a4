package scan

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"

	// Декодеры форматов регистрируются в image через init
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	// DefaultMaxBytes лимит размера загружаемого файла по умолчанию (20 MiB)
	DefaultMaxBytes int64 = 20 << 20
	// DefaultMaxPixels лимит площади изображения по умолчанию (40 мегапикселей)
	DefaultMaxPixels = 40_000_000
)

// Limits ограничения на входное изображение
type Limits struct {
	MaxBytes  int64 // MaxBytes максимальный размер закодированного файла, 0 - без лимита
	MaxPixels int   // MaxPixels максимальное число пикселей, 0 - без лимита
}

// DefaultLimits возвращает лимиты по умолчанию
func DefaultLimits() Limits {
	return Limits{
		MaxBytes:  DefaultMaxBytes,
		MaxPixels: DefaultMaxPixels,
	}
}

// LoadImage читает и декодирует изображение, проверяя лимиты до полного декодирования.
// Возвращает изображение и имя формата (png, jpeg, gif, bmp, tiff, webp).
func LoadImage(r io.Reader, limits Limits) (image.Image, string, error) {
	src := r
	if limits.MaxBytes > 0 {
		src = io.LimitReader(r, limits.MaxBytes+1)
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}

	if limits.MaxBytes > 0 && int64(len(data)) > limits.MaxBytes {
		return nil, "", fmt.Errorf("%w: more than %d bytes", ErrImageTooLarge, limits.MaxBytes)
	}

	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty input", ErrUnsupportedImage)
	}

	// Сначала читаем только заголовок, чтобы не выделять память под огромный bitmap
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", wrapImageError(err)
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", fmt.Errorf("%w: invalid dimensions %dx%d", ErrUnsupportedImage, cfg.Width, cfg.Height)
	}

	if limits.MaxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(limits.MaxPixels) {
		return nil, "", fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrImageTooLarge, cfg.Width, cfg.Height, limits.MaxPixels)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", wrapImageError(err)
	}

	return img, format, nil
}

func wrapImageError(err error) error {
	if errors.Is(err, image.ErrFormat) {
		return fmt.Errorf("%w: unknown format", ErrUnsupportedImage)
	}
	return fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
}
