package dto

import (
	"time"

	"github.com/artcollab/drawgrid/internal/domain/entity"
)

// ThemeDTO — тема доски в формате ответа API.
type ThemeDTO struct {
	MainTheme string `json:"main_theme"`
	SubTitle  string `json:"sub_title"`
}

// SlotDTO — занятый слот в формате ответа API. Пустой слот сериализуется как null.
type SlotDTO struct {
	SlotIndex  int       `json:"slot_index"`
	ArtistName string    `json:"artist_name"`
	ImagePath  string    `json:"image_path"`
	CreatedAt  time.Time `json:"created_at"`
}

// GridDTO — полный ответ GET /api/grid: тема + сетка фиксированной длины.
type GridDTO struct {
	Title ThemeDTO   `json:"title"`
	Grid  []*SlotDTO `json:"grid"`
}

func ThemeToDTO(theme *entity.Theme) ThemeDTO {
	return ThemeDTO{
		MainTheme: theme.MainTheme(),
		SubTitle:  theme.SubTitle(),
	}
}

func SlotToDTO(slot *entity.Slot) *SlotDTO {
	if slot == nil {
		return nil
	}
	return &SlotDTO{
		SlotIndex:  slot.Index().Int(),
		ArtistName: slot.ArtistName(),
		ImagePath:  slot.ImageURL(),
		CreatedAt:  slot.CreatedAt(),
	}
}

func GridToDTO(theme *entity.Theme, grid []*entity.Slot) *GridDTO {
	slots := make([]*SlotDTO, len(grid))
	for i, slot := range grid {
		slots[i] = SlotToDTO(slot)
	}
	return &GridDTO{
		Title: ThemeToDTO(theme),
		Grid:  slots,
	}
}
