package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/artcollab/drawgrid/internal/application/port"
	"github.com/artcollab/drawgrid/internal/domain/entity"
	"github.com/artcollab/drawgrid/internal/domain/repository"
	"github.com/artcollab/drawgrid/pkg/logger"
)

const SubjectBoardReset = "board.reset"

type BoardResetEvent struct {
	EventID      string    `json:"event_id"`
	ClearedSlots int       `json:"cleared_slots"`
	ResetAt      time.Time `json:"reset_at"`
}

// ResetBoardUseCase безусловно очищает все слоты. Объекты в хранилище картинок
// не трогает: URL перестают показываться, уборка хранилища — отдельная забота.
type ResetBoardUseCase struct {
	slots   repository.SlotRepository
	events  port.EventPublisher   // может быть nil
	metrics port.MetricsPublisher // может быть nil
	logger  *logger.Logger
}

func NewResetBoardUseCase(
	slots repository.SlotRepository,
	events port.EventPublisher,
	metrics port.MetricsPublisher,
	log *logger.Logger,
) *ResetBoardUseCase {
	return &ResetBoardUseCase{
		slots:   slots,
		events:  events,
		metrics: metrics,
		logger:  log,
	}
}

// Execute возвращает число удаленных слотов.
func (uc *ResetBoardUseCase) Execute(ctx context.Context) (int, error) {
	cleared, err := uc.slots.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: count slots: %s", entity.ErrPersistenceFailure, err)
	}

	if err := uc.slots.Clear(ctx); err != nil {
		return 0, fmt.Errorf("%w: clear slots: %s", entity.ErrPersistenceFailure, err)
	}

	countMetric(ctx, uc.metrics, uc.logger, "BoardReset", 1)
	if uc.events != nil {
		event := BoardResetEvent{
			EventID:      uuid.New().String(),
			ClearedSlots: cleared,
			ResetAt:      time.Now().UTC(),
		}
		if err := uc.events.PublishEvent(ctx, SubjectBoardReset, event); err != nil {
			uc.logger.Warn("Failed to publish board reset event", "error", err.Error())
		}
	}

	uc.logger.Info("Board reset", "cleared_slots", cleared)
	return cleared, nil
}
