package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/artcollab/drawgrid/internal/application/port"
	"github.com/artcollab/drawgrid/internal/domain/entity"
	"github.com/artcollab/drawgrid/pkg/logger"
)

// Параметры объявлены интерфейсами портов: передача nil дает настоящий nil,
// а не типизированный nil-указатель, который обходит проверки в Execute.
func newSubmitUC(repo *memorySlotRepo, storage *mockImageStorage, orphans port.OrphanLedger, events port.EventPublisher) *SubmitArtworkUseCase {
	return NewSubmitArtworkUseCase(repo, storage, orphans, events, &mockMetrics{}, SubmitArtworkConfig{
		SlotCount: 7,
		KeyPrefix: "artworks",
	}, logger.New("error"))
}

func TestSubmitArtworkUseCase_Success(t *testing.T) {
	repo := newMemorySlotRepo()
	storage := &mockImageStorage{}
	events := &mockEventPublisher{}
	uc := newSubmitUC(repo, storage, &mockOrphanLedger{}, events)

	res, err := uc.Execute(context.Background(), SubmitArtworkCommand{
		ArtistName:  "  Youmu  ",
		ImageData:   []byte{0xff, 0xd8, 0xff},
		ContentType: "image/jpeg",
		Filename:    "art.jpg",
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if res.SlotIndex != 0 {
		t.Fatalf("expected slot 0, got %d", res.SlotIndex)
	}
	if !strings.HasPrefix(res.ImageURL, "https://cdn.example.com/artworks/") {
		t.Fatalf("unexpected image URL: %s", res.ImageURL)
	}
	if !strings.HasSuffix(res.ImageURL, ".jpg") {
		t.Fatalf("expected .jpg object key, got %s", res.ImageURL)
	}

	slots, _ := repo.List(context.Background())
	if len(slots) != 1 {
		t.Fatalf("expected 1 stored slot, got %d", len(slots))
	}
	if slots[0].ArtistName() != "Youmu" {
		t.Fatalf("expected trimmed artist name, got %q", slots[0].ArtistName())
	}

	if len(events.events) != 1 || events.events[0].subject != SubjectSlotAssigned {
		t.Fatalf("expected one %s event, got %+v", SubjectSlotAssigned, events.events)
	}
}

func TestSubmitArtworkUseCase_NilOptionalCollaborators(t *testing.T) {
	repo := newMemorySlotRepo()
	uc := NewSubmitArtworkUseCase(repo, &mockImageStorage{}, nil, nil, nil, SubmitArtworkConfig{
		SlotCount: 7,
	}, logger.New("error"))

	// Без журнала сирот, событий и метрик загрузка должна пройти целиком.
	res, err := uc.Execute(context.Background(), SubmitArtworkCommand{
		ArtistName:  "Solo",
		ImageData:   []byte{1},
		ContentType: "image/png",
		Filename:    "art.png",
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.SlotIndex != 0 {
		t.Fatalf("expected slot 0, got %d", res.SlotIndex)
	}

	// И орфан-ветка тоже: полная доска с отказавшим удалением не должна паниковать.
	full := newMemorySlotRepo()
	for i := 0; i < 7; i++ {
		if _, err := full.ClaimFreeSlot(context.Background(), 7, "seed", "https://cdn.example.com/seed"); err != nil {
			t.Fatalf("seed claim failed: %v", err)
		}
	}
	uc = NewSubmitArtworkUseCase(full, &mockImageStorage{delErr: errors.New("s3 unavailable")}, nil, nil, nil, SubmitArtworkConfig{
		SlotCount: 7,
	}, logger.New("error"))

	_, err = uc.Execute(context.Background(), SubmitArtworkCommand{
		ArtistName:  "Late",
		ImageData:   []byte{1},
		ContentType: "image/png",
		Filename:    "art.png",
	})
	if !errors.Is(err, entity.ErrGridFull) {
		t.Fatalf("expected ErrGridFull, got %v", err)
	}
}

func TestSubmitArtworkUseCase_AssignsLowestFreeIndex(t *testing.T) {
	repo := newMemorySlotRepo()
	storage := &mockImageStorage{}
	uc := newSubmitUC(repo, storage, &mockOrphanLedger{}, nil)

	// Занимаем 0 и 2, свободен 1.
	for i := 0; i < 2; i++ {
		if _, err := repo.ClaimFreeSlot(context.Background(), 7, "seed", "https://cdn.example.com/seed"); err != nil {
			t.Fatalf("seed claim failed: %v", err)
		}
	}
	repo.slots[2] = repo.slots[1]
	delete(repo.slots, 1)

	res, err := uc.Execute(context.Background(), SubmitArtworkCommand{
		ArtistName:  "Reimu",
		ImageData:   []byte{0x89, 0x50},
		ContentType: "image/png",
		Filename:    "art.png",
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.SlotIndex != 1 {
		t.Fatalf("expected lowest free index 1, got %d", res.SlotIndex)
	}
}

func TestSubmitArtworkUseCase_ValidationBeforeSideEffects(t *testing.T) {
	tests := []struct {
		name    string
		command SubmitArtworkCommand
		wantErr error
	}{
		{
			name: "empty artist name",
			command: SubmitArtworkCommand{
				ArtistName:  "   ",
				ImageData:   []byte{1},
				ContentType: "image/png",
			},
			wantErr: entity.ErrArtistNameRequired,
		},
		{
			name: "artist name too long",
			command: SubmitArtworkCommand{
				ArtistName:  strings.Repeat("x", 65),
				ImageData:   []byte{1},
				ContentType: "image/png",
			},
			wantErr: entity.ErrArtistNameRequired,
		},
		{
			name: "missing image",
			command: SubmitArtworkCommand{
				ArtistName:  "Marisa",
				ContentType: "image/png",
			},
			wantErr: entity.ErrImageRequired,
		},
		{
			name: "unsupported format",
			command: SubmitArtworkCommand{
				ArtistName:  "Marisa",
				ImageData:   []byte{1},
				ContentType: "image/gif",
				Filename:    "art.gif",
			},
			wantErr: entity.ErrUnsupportedImage,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newMemorySlotRepo()
			storage := &mockImageStorage{}
			uc := newSubmitUC(repo, storage, &mockOrphanLedger{}, nil)

			_, err := uc.Execute(context.Background(), tc.command)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}

			// Никаких побочных эффектов при невалидном запросе.
			if len(storage.puts) != 0 {
				t.Fatalf("expected no uploads, got %d", len(storage.puts))
			}
			if n, _ := repo.Count(context.Background()); n != 0 {
				t.Fatalf("expected no stored slots, got %d", n)
			}
		})
	}
}

func TestSubmitArtworkUseCase_FullGridCompensates(t *testing.T) {
	repo := newMemorySlotRepo()
	storage := &mockImageStorage{}
	uc := newSubmitUC(repo, storage, &mockOrphanLedger{}, nil)

	for i := 0; i < 7; i++ {
		if _, err := repo.ClaimFreeSlot(context.Background(), 7, "seed", "https://cdn.example.com/seed"); err != nil {
			t.Fatalf("seed claim failed: %v", err)
		}
	}

	_, err := uc.Execute(context.Background(), SubmitArtworkCommand{
		ArtistName:  "Late",
		ImageData:   []byte{1},
		ContentType: "image/png",
		Filename:    "art.png",
	})
	if !errors.Is(err, entity.ErrGridFull) {
		t.Fatalf("expected ErrGridFull, got %v", err)
	}

	// Объект был загружен до назначения и удален компенсацией.
	if len(storage.puts) != 1 {
		t.Fatalf("expected the upload to happen before the claim, got %d puts", len(storage.puts))
	}
	if len(storage.deletes) != 1 || storage.deletes[0] != storage.puts[0] {
		t.Fatalf("expected compensating delete of %q, got %v", storage.puts[0], storage.deletes)
	}
}

func TestSubmitArtworkUseCase_FailedCompensationRecordsOrphan(t *testing.T) {
	repo := newMemorySlotRepo()
	repo.claimErr = entity.ErrPersistenceFailure
	storage := &mockImageStorage{delErr: errors.New("s3 unavailable")}
	orphans := &mockOrphanLedger{}
	events := &mockEventPublisher{}
	uc := newSubmitUC(repo, storage, orphans, events)

	_, err := uc.Execute(context.Background(), SubmitArtworkCommand{
		ArtistName:  "Sanae",
		ImageData:   []byte{1},
		ContentType: "image/png",
		Filename:    "art.png",
	})
	if !errors.Is(err, entity.ErrPersistenceFailure) {
		t.Fatalf("expected persistence failure, got %v", err)
	}

	if len(orphans.records) != 1 {
		t.Fatalf("expected 1 orphan record, got %d", len(orphans.records))
	}
	if orphans.records[0].Key != storage.puts[0] {
		t.Fatalf("orphan key mismatch: %q vs %q", orphans.records[0].Key, storage.puts[0])
	}

	found := false
	for _, e := range events.events {
		if e.subject == SubjectUploadOrphaned {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %s event, got %+v", SubjectUploadOrphaned, events.events)
	}
}

func TestSubmitArtworkUseCase_StorageFailureStopsFlow(t *testing.T) {
	repo := newMemorySlotRepo()
	storage := &mockImageStorage{putErr: errors.New("bucket gone")}
	uc := newSubmitUC(repo, storage, &mockOrphanLedger{}, nil)

	_, err := uc.Execute(context.Background(), SubmitArtworkCommand{
		ArtistName:  "Alice",
		ImageData:   []byte{1},
		ContentType: "image/jpeg",
		Filename:    "art.jpeg",
	})
	if !errors.Is(err, entity.ErrStorageFailure) {
		t.Fatalf("expected ErrStorageFailure, got %v", err)
	}
	if n, _ := repo.Count(context.Background()); n != 0 {
		t.Fatalf("expected no slot row after storage failure, got %d", n)
	}
}

func TestSubmitArtworkUseCase_ConcurrentUploadsGetDistinctSlots(t *testing.T) {
	repo := newMemorySlotRepo()
	storage := &mockImageStorage{}
	uc := newSubmitUC(repo, storage, &mockOrphanLedger{}, nil)

	const workers = 10 // слотов всего 7

	var wg sync.WaitGroup
	results := make(chan int, workers)
	failures := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := uc.Execute(context.Background(), SubmitArtworkCommand{
				ArtistName:  "Racer",
				ImageData:   []byte{1},
				ContentType: "image/png",
				Filename:    "art.png",
			})
			if err != nil {
				failures <- err
				return
			}
			results <- res.SlotIndex
		}()
	}
	wg.Wait()
	close(results)
	close(failures)

	seen := make(map[int]bool)
	for idx := range results {
		if seen[idx] {
			t.Fatalf("slot %d assigned twice", idx)
		}
		seen[idx] = true
	}
	if len(seen) != 7 {
		t.Fatalf("expected all 7 slots assigned, got %d", len(seen))
	}

	for err := range failures {
		if !errors.Is(err, entity.ErrGridFull) {
			t.Fatalf("losers must see ErrGridFull, got %v", err)
		}
	}

	// Проигравшие загрузки скомпенсированы удалением.
	if len(storage.deletes) != workers-7 {
		t.Fatalf("expected %d compensating deletes, got %d", workers-7, len(storage.deletes))
	}
}
