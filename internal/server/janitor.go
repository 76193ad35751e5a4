package server

import (
	"context"
	"log/slog"
	"time"
)

// IdleSessionDeleter удаляет неактивные сессии
type IdleSessionDeleter interface {
	DeleteIdleSessions(ctx context.Context, before time.Time) (int, error)
}

// Janitor периодически удаляет сессии, неактивные дольше ttl, вместе с их историей
type Janitor struct {
	store    IdleSessionDeleter
	logger   *slog.Logger
	now      func() time.Time
	ttl      time.Duration
	interval time.Duration
}

// NewJanitor создает janitor
func NewJanitor(store IdleSessionDeleter, logger *slog.Logger, ttl, interval time.Duration) *Janitor {
	return &Janitor{
		store:    store,
		logger:   logger,
		ttl:      ttl,
		interval: interval,
		now:      time.Now,
	}
}

// Run выполняет очистку до отмены контекста
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

// Sweep выполняет один проход очистки
func (j *Janitor) Sweep(ctx context.Context) int {
	deleted, err := j.store.DeleteIdleSessions(ctx, j.now().Add(-j.ttl))
	if err != nil {
		j.logger.Error("Failed to delete idle sessions", "error", err)
		return 0
	}

	if deleted > 0 {
		j.logger.Info("Idle sessions deleted", "count", deleted)
	}

	return deleted
}
