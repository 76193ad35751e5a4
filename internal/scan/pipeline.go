package scan

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/iudanet/qrscan/internal/models"
	"github.com/iudanet/qrscan/internal/wifi"
)

// Pipeline декодирует изображения в QR-записи.
// Pipeline не хранит состояния между вызовами и не трогает историю сессии.
type Pipeline struct {
	detector Detector
	logger   *slog.Logger
	now      func() time.Time
}

// NewPipeline создает pipeline поверх детектора
func NewPipeline(detector Detector, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		detector: detector,
		logger:   logger,
		now:      time.Now,
	}
}

// Decode запускает детектор, оставляет только QRCODE, проставляет время захвата
// и разбирает WIFI payload. Порядок записей совпадает с порядком детектора.
// Невалидный UTF-8 в любой детекции проваливает весь вызов.
func (p *Pipeline) Decode(img image.Image) (res Result) {
	// Паника в детекторе - тоже отказ декодирования, а не падение вызывающего
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Detector panicked", "panic", r)
			res = failure(newDecodeError(StageDetect, fmt.Errorf("detector panic: %v", r)))
		}
	}()

	if img == nil {
		return failure(newDecodeError(StageImage, ErrUnsupportedImage))
	}

	detections, err := p.detector.Detect(img)
	if err != nil {
		p.logger.Warn("Barcode detection failed", "error", err)
		return failure(newDecodeError(StageDetect, err))
	}

	records := make([]models.QRRecord, 0, len(detections))
	for i, d := range detections {
		if d.Symbology != models.SymbologyQRCode {
			p.logger.Debug("Skipping non-QR symbol", "index", i, "symbology", d.Symbology)
			continue
		}

		if !utf8.Valid(d.RawBytes) {
			p.logger.Warn("Detection payload is not UTF-8", "index", i, "size", len(d.RawBytes))
			return failure(newDecodeError(StageText, fmt.Errorf("detection %d: %w", i, ErrInvalidUTF8)))
		}

		records = append(records, p.buildRecord(d.Symbology, string(d.RawBytes)))
	}

	if len(records) == 0 {
		return noSymbols()
	}

	p.logger.Debug("Image decoded", "detections", len(detections), "records", len(records))

	return Result{
		Outcome: OutcomeDecoded,
		Records: records,
	}
}

// DecodeReader загружает изображение с учетом лимитов и декодирует его.
// Ошибки загрузки возвращаются как OutcomeDecodeFailure стадии image.
func (p *Pipeline) DecodeReader(r io.Reader, limits Limits) Result {
	img, format, err := LoadImage(r, limits)
	if err != nil {
		p.logger.Warn("Failed to load image", "error", err)
		return failure(newDecodeError(StageImage, err))
	}

	p.logger.Debug("Image loaded", "format", format,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())

	return p.Decode(img)
}

func (p *Pipeline) buildRecord(symbology, payload string) models.QRRecord {
	record := models.QRRecord{
		Type:      symbology,
		Timestamp: models.FormatTimestamp(p.now()),
		Data:      payload,
	}

	if wifi.HasPrefix(payload) {
		fields := wifi.Extract(payload)
		record.WiFi = &fields
	}

	return record
}
