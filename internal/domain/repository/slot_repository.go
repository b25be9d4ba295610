package repository

import (
	"context"

	"github.com/artcollab/drawgrid/internal/domain/entity"
)

// SlotRepository — хранилище занятых слотов доски.
// Единственный общий изменяемый ресурс системы.
type SlotRepository interface {
	// List возвращает все слоты по возрастанию индекса.
	List(ctx context.Context) ([]*entity.Slot, error)

	// Insert вставляет слот с уже известным индексом.
	// Занятый индекс — entity.ErrSlotTaken.
	Insert(ctx context.Context, slot *entity.Slot) error

	// ClaimFreeSlot атомарно занимает наименьший свободный индекс в [0, slotCount)
	// и возвращает его. Полная доска — entity.ErrGridFull.
	ClaimFreeSlot(ctx context.Context, slotCount int, artistName, imageURL string) (int, error)

	// Count возвращает число занятых слотов.
	Count(ctx context.Context) (int, error)

	// Clear безусловно удаляет все слоты. Необратимо.
	Clear(ctx context.Context) error
}
