package valueobject

import "fmt"

// SlotIndex — позиция работы на доске. Валидна только в диапазоне [0, slotCount).
type SlotIndex int

func NewSlotIndex(raw int, slotCount int) (SlotIndex, error) {
	idx := SlotIndex(raw)
	if err := idx.Validate(slotCount); err != nil {
		return 0, err
	}
	return idx, nil
}

func (i SlotIndex) Validate(slotCount int) error {
	if int(i) < 0 || int(i) >= slotCount {
		return fmt.Errorf("slot index %d out of range [0,%d)", int(i), slotCount)
	}
	return nil
}

func (i SlotIndex) Int() int {
	return int(i)
}
