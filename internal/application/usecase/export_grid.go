package usecase

import (
	"context"
	"fmt"

	"github.com/artcollab/drawgrid/internal/application/port"
	"github.com/artcollab/drawgrid/internal/domain/entity"
	"github.com/artcollab/drawgrid/internal/domain/repository"
	"github.com/artcollab/drawgrid/internal/domain/service"
	"github.com/artcollab/drawgrid/pkg/logger"
)

type ExportGridResult struct {
	PNG []byte

	// FailedTiles — индексы слотов, чью картинку не удалось скачать или
	// декодировать; в экспорте они отрисованы как пустые плитки.
	FailedTiles []int
}

// ExportGridUseCase рендерит текущую доску в одну PNG-картинку для скачивания.
// Чистое чтение: сбой скачивания отдельной картинки не трогает ни одной записи
// и не валит весь экспорт.
type ExportGridUseCase struct {
	slots    repository.SlotRepository
	themes   repository.ThemeRepository
	composer *service.GridComposer
	fetcher  port.ImageFetcher
	renderer port.GridRenderer
	metrics  port.MetricsPublisher // может быть nil
	logger   *logger.Logger
}

func NewExportGridUseCase(
	slots repository.SlotRepository,
	themes repository.ThemeRepository,
	composer *service.GridComposer,
	fetcher port.ImageFetcher,
	renderer port.GridRenderer,
	metrics port.MetricsPublisher,
	log *logger.Logger,
) *ExportGridUseCase {
	return &ExportGridUseCase{
		slots:    slots,
		themes:   themes,
		composer: composer,
		fetcher:  fetcher,
		renderer: renderer,
		metrics:  metrics,
		logger:   log,
	}
}

func (uc *ExportGridUseCase) Execute(ctx context.Context) (*ExportGridResult, error) {
	theme, err := uc.themes.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load theme: %s", entity.ErrPersistenceFailure, err)
	}

	slotList, err := uc.slots.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list slots: %s", entity.ErrPersistenceFailure, err)
	}

	grid := uc.composer.Compose(slotList)
	tiles := make([]*port.RenderTile, len(grid))
	failed := make([]int, 0)

	for i, slot := range grid {
		if slot == nil {
			continue
		}

		data, fetchErr := uc.fetcher.Fetch(ctx, slot.ImageURL())
		if fetchErr != nil {
			uc.logger.Warn("Failed to fetch slot image for export",
				"slot_index", i,
				"error", fetchErr.Error(),
			)
			failed = append(failed, i)
			// Плитка останется пустой; имя все равно показываем.
			tiles[i] = &port.RenderTile{ArtistName: slot.ArtistName()}
			continue
		}

		tiles[i] = &port.RenderTile{
			ArtistName: slot.ArtistName(),
			ImageData:  data,
		}
	}

	png, err := uc.renderer.RenderPNG(ctx, port.RenderBoard{
		MainTheme: theme.MainTheme(),
		SubTitle:  theme.SubTitle(),
		Tiles:     tiles,
	})
	if err != nil {
		return nil, fmt.Errorf("render grid: %w", err)
	}

	countMetric(ctx, uc.metrics, uc.logger, "GridExported", 1)

	return &ExportGridResult{PNG: png, FailedTiles: failed}, nil
}
