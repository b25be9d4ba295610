package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/artcollab/drawgrid/internal/domain/entity"
	"github.com/artcollab/drawgrid/pkg/logger"
)

func TestUpdateThemeUseCase_OverwritesWholesale(t *testing.T) {
	themes := &memoryThemeRepo{theme: entity.NewTheme("Old", "old sub")}
	uc := NewUpdateThemeUseCase(themes, logger.New("error"))

	err := uc.Execute(context.Background(), UpdateThemeCommand{
		MainTheme: "  Winter  ",
		SubTitle:  "week 1",
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if themes.theme.MainTheme() != "Winter" || themes.theme.SubTitle() != "week 1" {
		t.Fatalf("unexpected stored theme: %q / %q", themes.theme.MainTheme(), themes.theme.SubTitle())
	}
}

func TestUpdateThemeUseCase_RejectsEmptyTheme(t *testing.T) {
	themes := &memoryThemeRepo{theme: entity.NewTheme("Old", "old sub")}
	uc := NewUpdateThemeUseCase(themes, logger.New("error"))

	err := uc.Execute(context.Background(), UpdateThemeCommand{MainTheme: "   ", SubTitle: ""})
	if !errors.Is(err, entity.ErrThemeRequired) {
		t.Fatalf("expected ErrThemeRequired, got %v", err)
	}
	if themes.theme.MainTheme() != "Old" {
		t.Fatalf("theme must not change on rejected update, got %q", themes.theme.MainTheme())
	}
}
