package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/artcollab/drawgrid/internal/domain/entity"
)

// PostgresThemeRepository хранит единственную строку настроек (id=1).
type PostgresThemeRepository struct {
	db              *sql.DB
	defaultTheme    string
	defaultSubtitle string
}

func NewPostgresThemeRepository(db *sql.DB, defaultTheme, defaultSubtitle string) *PostgresThemeRepository {
	return &PostgresThemeRepository{
		db:              db,
		defaultTheme:    defaultTheme,
		defaultSubtitle: defaultSubtitle,
	}
}

func (r *PostgresThemeRepository) Get(ctx context.Context) (*entity.Theme, error) {
	query := `SELECT main_theme, sub_title FROM grid_settings WHERE id = 1`

	var mainTheme, subTitle string
	err := r.db.QueryRowContext(ctx, query).Scan(&mainTheme, &subTitle)
	if errors.Is(err, sql.ErrNoRows) {
		// Отсутствие настроек — штатная ситуация новой доски.
		return entity.DefaultTheme(r.defaultTheme, r.defaultSubtitle), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query theme: %w", err)
	}

	return entity.NewTheme(mainTheme, subTitle), nil
}

func (r *PostgresThemeRepository) Update(ctx context.Context, theme *entity.Theme) error {
	query := `
		INSERT INTO grid_settings (id, main_theme, sub_title, updated_at)
		VALUES (1, $1, $2, NOW())
		ON CONFLICT (id) DO UPDATE
		SET main_theme = EXCLUDED.main_theme,
		    sub_title  = EXCLUDED.sub_title,
		    updated_at = NOW()
	`

	if _, err := r.db.ExecContext(ctx, query, theme.MainTheme(), theme.SubTitle()); err != nil {
		return fmt.Errorf("failed to upsert theme: %w", err)
	}

	return nil
}
