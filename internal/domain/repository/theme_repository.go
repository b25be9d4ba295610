package repository

import (
	"context"

	"github.com/artcollab/drawgrid/internal/domain/entity"
)

// ThemeRepository — хранилище единственной записи с темой доски.
type ThemeRepository interface {
	// Get возвращает текущую тему. Если записи нет — тему по умолчанию, без ошибки.
	Get(ctx context.Context) (*entity.Theme, error)

	// Update перезаписывает тему целиком (последняя запись побеждает).
	Update(ctx context.Context, theme *entity.Theme) error
}
