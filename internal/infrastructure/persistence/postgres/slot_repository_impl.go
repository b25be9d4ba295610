package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/artcollab/drawgrid/internal/domain/entity"
	"github.com/artcollab/drawgrid/internal/domain/valueobject"
)

const pqUniqueViolation = "23505"

// claimSlotQuery атомарно занимает наименьший свободный индекс: выбор кандидата
// и вставка — одно выражение, две конкурирующие загрузки не могут вставить один
// индекс. Проигравшая вставка возвращает ноль строк и уходит на повтор.
const claimSlotQuery = `
	INSERT INTO grid_slots (slot_index, artist_name, image_path)
	SELECT candidate.idx, $2, $3
	FROM generate_series(0, $1 - 1) AS candidate(idx)
	WHERE NOT EXISTS (
		SELECT 1 FROM grid_slots occupied WHERE occupied.slot_index = candidate.idx
	)
	ORDER BY candidate.idx
	LIMIT 1
	ON CONFLICT (slot_index) DO NOTHING
	RETURNING slot_index
`

// PostgresSlotRepository реализует repository.SlotRepository поверх PostgreSQL.
type PostgresSlotRepository struct {
	db *sql.DB
}

func NewPostgresSlotRepository(db *sql.DB) *PostgresSlotRepository {
	return &PostgresSlotRepository{db: db}
}

func (r *PostgresSlotRepository) List(ctx context.Context) ([]*entity.Slot, error) {
	query := `
		SELECT slot_index, artist_name, image_path, created_at
		FROM grid_slots
		ORDER BY slot_index ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query slots: %w", err)
	}
	defer rows.Close()

	slots := make([]*entity.Slot, 0)
	for rows.Next() {
		var model slotModel
		if err := rows.Scan(&model.SlotIndex, &model.ArtistName, &model.ImagePath, &model.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan slot: %w", err)
		}
		slots = append(slots, model.toEntity())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate slots: %w", err)
	}

	return slots, nil
}

func (r *PostgresSlotRepository) Insert(ctx context.Context, slot *entity.Slot) error {
	query := `
		INSERT INTO grid_slots (slot_index, artist_name, image_path, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query,
		slot.Index().Int(),
		slot.ArtistName(),
		slot.ImageURL(),
		slot.CreatedAt(),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return fmt.Errorf("%w: index %d", entity.ErrSlotTaken, slot.Index().Int())
		}
		return fmt.Errorf("failed to insert slot: %w", err)
	}

	return nil
}

func (r *PostgresSlotRepository) ClaimFreeSlot(ctx context.Context, slotCount int, artistName, imageURL string) (int, error) {
	// Повторы ограничены числом слотов: каждый проигрыш гонки означает, что
	// кто-то другой успешно занял индекс, так что больше slotCount проигрышей
	// подряд быть не может.
	for attempt := 0; attempt < slotCount; attempt++ {
		var index int
		err := r.db.QueryRowContext(ctx, claimSlotQuery, slotCount, artistName, imageURL).Scan(&index)
		if err == nil {
			return index, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%w: claim slot: %s", entity.ErrPersistenceFailure, err)
		}

		// Ноль строк: либо доска полна, либо проигранная гонка за кандидата.
		occupied, countErr := r.Count(ctx)
		if countErr != nil {
			return 0, countErr
		}
		if occupied >= slotCount {
			return 0, entity.ErrGridFull
		}
	}

	return 0, fmt.Errorf("%w: claim retries exhausted", entity.ErrSlotTaken)
}

func (r *PostgresSlotRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM grid_slots`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: count slots: %s", entity.ErrPersistenceFailure, err)
	}
	return count, nil
}

func (r *PostgresSlotRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM grid_slots`); err != nil {
		return fmt.Errorf("failed to clear slots: %w", err)
	}
	return nil
}

type slotModel struct {
	SlotIndex  int
	ArtistName string
	ImagePath  string
	CreatedAt  sql.NullTime
}

func (m slotModel) toEntity() *entity.Slot {
	createdAt := m.CreatedAt.Time
	return entity.ReconstructSlot(
		valueobject.SlotIndex(m.SlotIndex),
		m.ArtistName,
		m.ImagePath,
		createdAt,
	)
}
