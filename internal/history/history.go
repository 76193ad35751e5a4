// Package history хранит историю сканирований одной сессии в памяти процесса.
package history

import (
	"sync"

	"github.com/iudanet/qrscan/internal/models"
)

// History упорядоченная append-only последовательность QR-записей.
// Дедупликации нет: повторное сканирование добавляет новую запись.
type History struct {
	records []models.QRRecord
	mu      sync.RWMutex
}

// New создает пустую историю
func New() *History {
	return &History{}
}

// Append добавляет записи в конец истории в переданном порядке
func (h *History) Append(records ...models.QRRecord) {
	if len(records) == 0 {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.records = append(h.records, records...)
}

// List возвращает копию истории; никогда не nil
func (h *History) List() []models.QRRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]models.QRRecord, len(h.records))
	copy(out, h.records)
	return out
}

// Len возвращает число записей
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.records)
}

// Clear удаляет все записи
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.records = nil
}
