package scan

import (
	"errors"
	"fmt"
	"image"

	"github.com/makiuchi-d/gozxing"
	multiqr "github.com/makiuchi-d/gozxing/multi/qrcode"
	"github.com/makiuchi-d/gozxing/oned"

	"github.com/iudanet/qrscan/internal/models"
)

// Имена символик в нотации zbar
const (
	SymbologyQRCode  = models.SymbologyQRCode
	SymbologyCode128 = "CODE128"
)

// ZXingDetector детектор на базе gozxing.
// QR-ридер находит все QR-коды на изображении, Code 128 - не более одного символа.
type ZXingDetector struct {
	readers []func() zxingReader
}

// zxingReader возвращает все символы, найденные одним ридером
type zxingReader func(bmp *gozxing.BinaryBitmap) ([]*gozxing.Result, error)

// NewZXingDetector создает детектор QR-кодов и Code 128
func NewZXingDetector() *ZXingDetector {
	return &ZXingDetector{
		readers: []func() zxingReader{
			newQRReader,
			newCode128Reader,
		},
	}
}

func newQRReader() zxingReader {
	reader := multiqr.NewQRCodeMultiReader()
	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER:    true,
		gozxing.DecodeHintType_CHARACTER_SET: "UTF-8",
	}
	return func(bmp *gozxing.BinaryBitmap) ([]*gozxing.Result, error) {
		return reader.DecodeMultiple(bmp, hints)
	}
}

func newCode128Reader() zxingReader {
	reader := oned.NewCode128Reader()
	return func(bmp *gozxing.BinaryBitmap) ([]*gozxing.Result, error) {
		result, err := reader.Decode(bmp, nil)
		if err != nil {
			return nil, err
		}
		return []*gozxing.Result{result}, nil
	}
}

// Detect возвращает найденные символы: сначала QR-коды в порядке ридера, затем Code 128.
// Ридеры создаются на каждый вызов, Detect безопасен для конкурентного использования.
//
// gozxing отдает уже декодированный текст, поэтому RawBytes всегда валидный UTF-8.
func (d *ZXingDetector) Detect(img image.Image) ([]Detection, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("failed to build binary bitmap: %w", err)
	}

	detections := make([]Detection, 0)
	for _, newReader := range d.readers {
		results, err := newReader()(bmp)
		if err != nil {
			// NotFound/Checksum/Format означают "символа нет", а не отказ
			var readerErr gozxing.ReaderException
			if errors.As(err, &readerErr) {
				continue
			}
			return nil, fmt.Errorf("barcode reader failed: %w", err)
		}

		for _, result := range results {
			detections = append(detections, Detection{
				Symbology: symbologyName(result.GetBarcodeFormat()),
				RawBytes:  []byte(result.GetText()),
			})
		}
	}

	return detections, nil
}

func symbologyName(format gozxing.BarcodeFormat) string {
	switch format {
	case gozxing.BarcodeFormat_QR_CODE:
		return SymbologyQRCode
	case gozxing.BarcodeFormat_CODE_128:
		return SymbologyCode128
	default:
		return format.String()
	}
}
