package history

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/qrscan/internal/models"
)

func record(data string) models.QRRecord {
	return models.QRRecord{Type: models.SymbologyQRCode, Timestamp: "2024-01-01 00:00:00", Data: data}
}

func TestHistory_AppendKeepsCallOrder(t *testing.T) {
	h := New()

	h.Append(record("a"))
	h.Append(record("b"), record("c"))

	got := h.List()
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].Data)
	assert.Equal(t, "b", got[1].Data)
	assert.Equal(t, "c", got[2].Data)
	assert.Equal(t, 3, h.Len())
}

func TestHistory_NoDeduplication(t *testing.T) {
	h := New()

	h.Append(record("same"))
	h.Append(record("same"))

	assert.Equal(t, 2, h.Len())
}

func TestHistory_AppendNothing(t *testing.T) {
	h := New()

	h.Append()

	assert.Equal(t, 0, h.Len())
	assert.NotNil(t, h.List())
}

func TestHistory_Clear(t *testing.T) {
	tests := []struct {
		name    string
		initial int
	}{
		{name: "empty history", initial: 0},
		{name: "one record", initial: 1},
		{name: "many records", initial: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New()
			for i := 0; i < tt.initial; i++ {
				h.Append(record("x"))
			}

			h.Clear()

			assert.Empty(t, h.List())
			assert.Equal(t, 0, h.Len())
		})
	}
}

func TestHistory_ListReturnsCopy(t *testing.T) {
	h := New()
	h.Append(record("original"))

	got := h.List()
	got[0].Data = "mutated"

	assert.Equal(t, "original", h.List()[0].Data)
}

func TestHistory_ConcurrentAppend(t *testing.T) {
	h := New()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				h.Append(record("x"))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1000, h.Len())
}
