package scan

import "github.com/iudanet/qrscan/internal/models"

// Outcome итог одного вызова декодирования
type Outcome string

const (
	// OutcomeDecoded найден хотя бы один QR-код
	OutcomeDecoded Outcome = "decoded"
	// OutcomeNoSymbols QR-кодов нет; это не ошибка
	OutcomeNoSymbols Outcome = "no_symbols"
	// OutcomeDecodeFailure изображение не удалось обработать
	OutcomeDecodeFailure Outcome = "decode_failure"
)

// Result результат декодирования одного изображения.
// Records пуст для OutcomeNoSymbols и OutcomeDecodeFailure; Err задан только для отказа.
type Result struct {
	Err     error
	Outcome Outcome
	Records []models.QRRecord
}

// Failed сообщает, завершился ли вызов отказом декодирования
func (r Result) Failed() bool {
	return r.Outcome == OutcomeDecodeFailure
}

// Message текст для пользователя; пустой при успешном декодировании
func (r Result) Message() string {
	switch r.Outcome {
	case OutcomeNoSymbols:
		return "no QR code detected"
	case OutcomeDecodeFailure:
		if r.Err != nil {
			return "decode error: " + r.Err.Error()
		}
		return "decode error"
	default:
		return ""
	}
}

func failure(err *DecodeError) Result {
	return Result{
		Outcome: OutcomeDecodeFailure,
		Records: []models.QRRecord{},
		Err:     err,
	}
}

func noSymbols() Result {
	return Result{
		Outcome: OutcomeNoSymbols,
		Records: []models.QRRecord{},
	}
}
