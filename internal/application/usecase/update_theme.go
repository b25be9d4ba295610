package usecase

import (
	"context"
	"fmt"

	"github.com/artcollab/drawgrid/internal/domain/entity"
	"github.com/artcollab/drawgrid/internal/domain/repository"
	"github.com/artcollab/drawgrid/pkg/logger"
)

type UpdateThemeCommand struct {
	MainTheme string
	SubTitle  string
}

// UpdateThemeUseCase перезаписывает тему доски целиком. Истории нет,
// последняя запись побеждает.
type UpdateThemeUseCase struct {
	themes repository.ThemeRepository
	logger *logger.Logger
}

func NewUpdateThemeUseCase(themes repository.ThemeRepository, log *logger.Logger) *UpdateThemeUseCase {
	return &UpdateThemeUseCase{themes: themes, logger: log}
}

func (uc *UpdateThemeUseCase) Execute(ctx context.Context, cmd UpdateThemeCommand) error {
	theme := entity.NewTheme(cmd.MainTheme, cmd.SubTitle)
	if theme.IsEmpty() {
		return entity.ErrThemeRequired
	}

	if err := uc.themes.Update(ctx, theme); err != nil {
		return fmt.Errorf("%w: update theme: %s", entity.ErrPersistenceFailure, err)
	}

	uc.logger.Info("Theme updated", "main_theme", theme.MainTheme())
	return nil
}
