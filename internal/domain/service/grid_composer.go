package service

import (
	"github.com/artcollab/drawgrid/internal/domain/entity"
)

// GridComposer раскладывает множество слотов в последовательность фиксированной
// длины: позиция i содержит слот с индексом i либо nil. Сетка — производное
// представление, никогда не хранится и не кэшируется.
type GridComposer struct {
	slotCount int
}

func NewGridComposer(slotCount int) *GridComposer {
	return &GridComposer{slotCount: slotCount}
}

func (c *GridComposer) SlotCount() int {
	return c.slotCount
}

// Compose строит сетку длиной ровно slotCount. Слоты с индексом за пределами
// текущей конфигурации (оставшиеся от прежнего размера доски) молча отбрасываются.
func (c *GridComposer) Compose(slots []*entity.Slot) []*entity.Slot {
	grid := make([]*entity.Slot, c.slotCount)
	for _, slot := range slots {
		idx := slot.Index().Int()
		if idx < 0 || idx >= c.slotCount {
			continue
		}
		grid[idx] = slot
	}
	return grid
}

// FirstFree возвращает наименьший свободный индекс и признак наличия свободного.
// Используется как чистая модель назначения; авторитетное назначение делает
// хранилище атомарным запросом.
func (c *GridComposer) FirstFree(slots []*entity.Slot) (int, bool) {
	occupied := make(map[int]bool, len(slots))
	for _, slot := range slots {
		occupied[slot.Index().Int()] = true
	}
	for i := 0; i < c.slotCount; i++ {
		if !occupied[i] {
			return i, true
		}
	}
	return -1, false
}
