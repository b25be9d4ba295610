package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/artcollab/drawgrid/internal/application/port"
	"github.com/artcollab/drawgrid/pkg/logger"
)

const sweepBatchLimit = 50

type SweepOrphansResult struct {
	Deleted int
	Failed  int
}

// SweepOrphansUseCase дочищает объекты, у которых не получилось компенсирующее
// удаление: читает журнал сирот, удаляет объекты из хранилища и снимает записи.
type SweepOrphansUseCase struct {
	orphans port.OrphanLedger
	storage port.ImageStorage
	metrics port.MetricsPublisher // может быть nil
	grace   time.Duration
	logger  *logger.Logger
}

func NewSweepOrphansUseCase(
	orphans port.OrphanLedger,
	storage port.ImageStorage,
	metrics port.MetricsPublisher,
	grace time.Duration,
	log *logger.Logger,
) *SweepOrphansUseCase {
	if grace <= 0 {
		grace = 30 * time.Minute
	}
	return &SweepOrphansUseCase{
		orphans: orphans,
		storage: storage,
		metrics: metrics,
		grace:   grace,
		logger:  log,
	}
}

func (uc *SweepOrphansUseCase) Execute(ctx context.Context) (*SweepOrphansResult, error) {
	if uc.orphans == nil {
		return &SweepOrphansResult{}, nil
	}

	cutoff := time.Now().UTC().Add(-uc.grace)
	entries, err := uc.orphans.ListOlderThan(ctx, cutoff, sweepBatchLimit)
	if err != nil {
		return nil, fmt.Errorf("list orphans: %w", err)
	}

	result := &SweepOrphansResult{}
	for _, orphan := range entries {
		if err := uc.storage.DeleteObject(ctx, orphan.Key); err != nil {
			// Оставляем запись, попробуем в следующий проход.
			uc.logger.Warn("Failed to delete orphaned object",
				"object_key", orphan.Key,
				"error", err.Error(),
			)
			result.Failed++
			continue
		}

		if err := uc.orphans.Remove(ctx, orphan.Key); err != nil {
			uc.logger.Warn("Failed to remove orphan ledger entry",
				"object_key", orphan.Key,
				"error", err.Error(),
			)
			result.Failed++
			continue
		}

		result.Deleted++
	}

	if result.Deleted > 0 {
		uc.logger.Info("Orphan sweep finished",
			"deleted", result.Deleted,
			"failed", result.Failed,
		)
		countMetric(ctx, uc.metrics, uc.logger, "OrphansSwept", float64(result.Deleted))
	}

	return result, nil
}
