package usecase

import (
	"context"
	"fmt"

	"github.com/artcollab/drawgrid/internal/application/dto"
	"github.com/artcollab/drawgrid/internal/domain/entity"
	"github.com/artcollab/drawgrid/internal/domain/repository"
	"github.com/artcollab/drawgrid/internal/domain/service"
	"github.com/artcollab/drawgrid/pkg/logger"
)

// GetGridUseCase — чистое чтение: тема + сетка фиксированной длины.
// Каждый вызов читает хранилище заново, без кэша.
type GetGridUseCase struct {
	slots    repository.SlotRepository
	themes   repository.ThemeRepository
	composer *service.GridComposer
	logger   *logger.Logger
}

func NewGetGridUseCase(
	slots repository.SlotRepository,
	themes repository.ThemeRepository,
	composer *service.GridComposer,
	log *logger.Logger,
) *GetGridUseCase {
	return &GetGridUseCase{
		slots:    slots,
		themes:   themes,
		composer: composer,
		logger:   log,
	}
}

func (uc *GetGridUseCase) Execute(ctx context.Context) (*dto.GridDTO, error) {
	theme, err := uc.themes.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load theme: %s", entity.ErrPersistenceFailure, err)
	}

	slots, err := uc.slots.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list slots: %s", entity.ErrPersistenceFailure, err)
	}

	return dto.GridToDTO(theme, uc.composer.Compose(slots)), nil
}
