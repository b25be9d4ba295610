package service

import (
	"testing"
	"time"

	"github.com/artcollab/drawgrid/internal/domain/entity"
	"github.com/artcollab/drawgrid/internal/domain/valueobject"
)

func slotAt(t *testing.T, idx int) *entity.Slot {
	t.Helper()
	return entity.ReconstructSlot(valueobject.SlotIndex(idx), "artist", "https://cdn.example.com/img.png", time.Now().UTC())
}

func TestGridComposer_ComposeFixedLength(t *testing.T) {
	composer := NewGridComposer(7)

	grid := composer.Compose([]*entity.Slot{slotAt(t, 1), slotAt(t, 4)})
	if len(grid) != 7 {
		t.Fatalf("expected length 7, got %d", len(grid))
	}
	for i, slot := range grid {
		occupied := i == 1 || i == 4
		if occupied && slot == nil {
			t.Fatalf("expected slot at %d", i)
		}
		if !occupied && slot != nil {
			t.Fatalf("expected nil at %d", i)
		}
	}
}

func TestGridComposer_ComposeDropsOutOfRange(t *testing.T) {
	composer := NewGridComposer(7)

	// Слоты 7 и 8 остались от доски большего размера.
	grid := composer.Compose([]*entity.Slot{slotAt(t, 0), slotAt(t, 7), slotAt(t, 8)})
	if len(grid) != 7 {
		t.Fatalf("expected length 7, got %d", len(grid))
	}
	if grid[0] == nil {
		t.Fatalf("expected slot at 0")
	}
	for i := 1; i < 7; i++ {
		if grid[i] != nil {
			t.Fatalf("expected nil at %d", i)
		}
	}
}

func TestGridComposer_FirstFree(t *testing.T) {
	composer := NewGridComposer(3)

	tests := []struct {
		name     string
		slots    []*entity.Slot
		want     int
		wantFree bool
	}{
		{name: "empty board", slots: nil, want: 0, wantFree: true},
		{name: "gap in the middle", slots: []*entity.Slot{slotAt(t, 0), slotAt(t, 2)}, want: 1, wantFree: true},
		{name: "full board", slots: []*entity.Slot{slotAt(t, 0), slotAt(t, 1), slotAt(t, 2)}, want: -1, wantFree: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, free := composer.FirstFree(tc.slots)
			if got != tc.want || free != tc.wantFree {
				t.Fatalf("FirstFree() = (%d, %v), want (%d, %v)", got, free, tc.want, tc.wantFree)
			}
		})
	}
}
