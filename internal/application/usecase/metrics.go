package usecase

import (
	"context"

	"github.com/artcollab/drawgrid/internal/application/port"
	"github.com/artcollab/drawgrid/pkg/logger"
)

// countMetric публикует счетчик, если метрики сконфигурированы. Сбой публикации
// логируется и не влияет на исход операции.
func countMetric(ctx context.Context, metrics port.MetricsPublisher, log *logger.Logger, name string, value float64) {
	if metrics == nil {
		return
	}
	if err := metrics.Count(ctx, name, value); err != nil {
		log.Debug("Failed to publish counter", "name", name, "error", err.Error())
	}
}
