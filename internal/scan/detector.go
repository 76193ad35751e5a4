// Package scan превращает изображение в последовательность QR-записей.
package scan

import "image"

// Detection сырое срабатывание детектора штрихкодов
type Detection struct {
	Symbology string // Symbology тег символики (QRCODE, CODE128, ...)
	RawBytes  []byte // RawBytes payload как вернул детектор
}

// Detector ищет штрихкоды на изображении.
// Если символов нет, возвращает пустой срез без ошибки.
type Detector interface {
	Detect(img image.Image) ([]Detection, error)
}

// DetectorFunc адаптер обычной функции к Detector
type DetectorFunc func(img image.Image) ([]Detection, error)

// Detect вызывает f(img)
func (f DetectorFunc) Detect(img image.Image) ([]Detection, error) {
	return f(img)
}
