package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/artcollab/drawgrid/internal/application/port"
	"github.com/artcollab/drawgrid/internal/domain/entity"
	"github.com/artcollab/drawgrid/internal/domain/repository"
	"github.com/artcollab/drawgrid/internal/domain/valueobject"
	"github.com/artcollab/drawgrid/pkg/logger"
)

const (
	SubjectSlotAssigned   = "board.slot.assigned"
	SubjectUploadOrphaned = "board.upload.orphaned"
)

type SubmitArtworkCommand struct {
	ArtistName  string
	ImageData   []byte
	ContentType string
	Filename    string
}

type SubmitArtworkResult struct {
	SlotIndex int
	ImageURL  string
}

type SubmitArtworkConfig struct {
	SlotCount          int
	KeyPrefix          string
	MaxArtistNameRunes int
}

type SlotAssignedEvent struct {
	EventID    string    `json:"event_id"`
	SlotIndex  int       `json:"slot_index"`
	ArtistName string    `json:"artist_name"`
	ImageURL   string    `json:"image_url"`
	AssignedAt time.Time `json:"assigned_at"`
}

type UploadOrphanedEvent struct {
	EventID    string    `json:"event_id"`
	ObjectKey  string    `json:"object_key"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}

// SubmitArtworkUseCase превращает одну multipart-загрузку в объект во внешнем
// хранилище плюс одну строку слота с наименьшим свободным индексом.
type SubmitArtworkUseCase struct {
	slots   repository.SlotRepository
	storage port.ImageStorage
	orphans port.OrphanLedger
	events  port.EventPublisher   // может быть nil
	metrics port.MetricsPublisher // может быть nil
	config  SubmitArtworkConfig
	logger  *logger.Logger
}

func NewSubmitArtworkUseCase(
	slots repository.SlotRepository,
	storage port.ImageStorage,
	orphans port.OrphanLedger,
	events port.EventPublisher,
	metrics port.MetricsPublisher,
	config SubmitArtworkConfig,
	log *logger.Logger,
) *SubmitArtworkUseCase {
	if config.MaxArtistNameRunes <= 0 {
		config.MaxArtistNameRunes = 64
	}
	return &SubmitArtworkUseCase{
		slots:   slots,
		storage: storage,
		orphans: orphans,
		events:  events,
		metrics: metrics,
		config:  config,
		logger:  log,
	}
}

func (uc *SubmitArtworkUseCase) Execute(ctx context.Context, cmd SubmitArtworkCommand) (*SubmitArtworkResult, error) {
	// Валидация до каких-либо побочных эффектов: невалидный запрос не должен
	// оставить ни объекта в хранилище, ни строки в базе.
	artistName := strings.TrimSpace(cmd.ArtistName)
	if artistName == "" {
		return nil, entity.ErrArtistNameRequired
	}
	if utf8.RuneCountInString(artistName) > uc.config.MaxArtistNameRunes {
		return nil, fmt.Errorf("%w: name longer than %d characters", entity.ErrArtistNameRequired, uc.config.MaxArtistNameRunes)
	}
	if len(cmd.ImageData) == 0 {
		return nil, entity.ErrImageRequired
	}

	format, err := valueobject.DetectImageFormat(cmd.ContentType, cmd.Filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", entity.ErrUnsupportedImage, err)
	}

	if uc.storage == nil {
		return nil, fmt.Errorf("%w: image storage is not configured", entity.ErrStorageFailure)
	}

	key := uc.buildObjectKey(format)
	imageURL, err := uc.storage.PutObject(ctx, key, format.ContentType(), cmd.ImageData)
	if err != nil {
		countMetric(ctx, uc.metrics, uc.logger, "UploadFailed", 1)
		return nil, fmt.Errorf("%w: %s", entity.ErrStorageFailure, err)
	}

	index, err := uc.slots.ClaimFreeSlot(ctx, uc.config.SlotCount, artistName, imageURL)
	if err != nil {
		// Картинка уже лежит в хранилище; компенсируем, иначе фиксируем сироту.
		uc.compensate(ctx, key, err)
		return nil, err
	}

	countMetric(ctx, uc.metrics, uc.logger, "SlotAssigned", 1)
	uc.publish(ctx, SubjectSlotAssigned, SlotAssignedEvent{
		EventID:    uuid.New().String(),
		SlotIndex:  index,
		ArtistName: artistName,
		ImageURL:   imageURL,
		AssignedAt: time.Now().UTC(),
	})

	uc.logger.Info("Artwork submitted",
		"slot_index", index,
		"artist_name", artistName,
		"object_key", key,
	)

	return &SubmitArtworkResult{
		SlotIndex: index,
		ImageURL:  imageURL,
	}, nil
}

func (uc *SubmitArtworkUseCase) buildObjectKey(format valueobject.ImageFormat) string {
	prefix := strings.Trim(uc.config.KeyPrefix, "/")
	if prefix == "" {
		prefix = "artworks"
	}
	now := time.Now().UTC()
	return fmt.Sprintf("%s/%s/%s.%s", prefix, now.Format("2006/01/02"), uuid.New().String(), format.Extension())
}

// compensate удаляет уже загруженный объект после провалившегося назначения слота.
// Если и удаление не удалось — запись в журнал сирот, уборщик дочистит.
func (uc *SubmitArtworkUseCase) compensate(ctx context.Context, key string, cause error) {
	delErr := uc.storage.DeleteObject(ctx, key)
	if delErr == nil {
		uc.logger.Info("Compensating delete for unassigned upload", "object_key", key)
		return
	}
	uc.logger.Warn("Compensating delete failed, recording orphan",
		"object_key", key,
		"error", delErr.Error(),
	)

	countMetric(ctx, uc.metrics, uc.logger, "UploadOrphaned", 1)
	orphan := port.OrphanUpload{
		Key:        key,
		Reason:     cause.Error(),
		UploadedAt: time.Now().UTC(),
	}
	if uc.orphans != nil {
		if recErr := uc.orphans.Record(ctx, orphan); recErr != nil {
			uc.logger.Error("Failed to record orphaned upload", recErr, "object_key", key)
		}
	}
	uc.publish(ctx, SubjectUploadOrphaned, UploadOrphanedEvent{
		EventID:    uuid.New().String(),
		ObjectKey:  key,
		Reason:     orphan.Reason,
		OccurredAt: orphan.UploadedAt,
	})
}

func (uc *SubmitArtworkUseCase) publish(ctx context.Context, subject string, event interface{}) {
	if uc.events == nil {
		return
	}
	if err := uc.events.PublishEvent(ctx, subject, event); err != nil {
		uc.logger.Warn("Failed to publish board event", "subject", subject, "error", err.Error())
	}
}

