package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/artcollab/drawgrid/pkg/logger"
)

func TestResetBoardUseCase_ClearsAllSlots(t *testing.T) {
	repo := newMemorySlotRepo()
	events := &mockEventPublisher{}
	uc := NewResetBoardUseCase(repo, events, &mockMetrics{}, logger.New("error"))

	for i := 0; i < 3; i++ {
		if _, err := repo.ClaimFreeSlot(context.Background(), 7, "seed", "https://cdn.example.com/seed"); err != nil {
			t.Fatalf("seed claim failed: %v", err)
		}
	}

	cleared, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if cleared != 3 {
		t.Fatalf("expected 3 cleared slots, got %d", cleared)
	}

	if n, _ := repo.Count(context.Background()); n != 0 {
		t.Fatalf("expected empty board after reset, got %d slots", n)
	}
	if len(events.events) != 1 || events.events[0].subject != SubjectBoardReset {
		t.Fatalf("expected one %s event, got %+v", SubjectBoardReset, events.events)
	}
}

func TestResetBoardUseCase_EmptyBoardIsFine(t *testing.T) {
	uc := NewResetBoardUseCase(newMemorySlotRepo(), nil, nil, logger.New("error"))

	cleared, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if cleared != 0 {
		t.Fatalf("expected 0 cleared slots, got %d", cleared)
	}
}

func TestResetBoardUseCase_MetricsFailureDoesNotFailReset(t *testing.T) {
	repo := newMemorySlotRepo()
	if _, err := repo.ClaimFreeSlot(context.Background(), 7, "seed", "https://cdn.example.com/seed"); err != nil {
		t.Fatalf("seed claim failed: %v", err)
	}

	metrics := &mockMetrics{countErr: errors.New("cloudwatch throttled")}
	uc := NewResetBoardUseCase(repo, nil, metrics, logger.New("error"))

	cleared, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("reset must not fail on metrics error: %v", err)
	}
	if cleared != 1 {
		t.Fatalf("expected 1 cleared slot, got %d", cleared)
	}
	if n, _ := repo.Count(context.Background()); n != 0 {
		t.Fatalf("expected empty board, got %d slots", n)
	}
}

func TestResetBoardUseCase_SlotsReusableAfterReset(t *testing.T) {
	repo := newMemorySlotRepo()
	uc := NewResetBoardUseCase(repo, nil, nil, logger.New("error"))

	for i := 0; i < 7; i++ {
		if _, err := repo.ClaimFreeSlot(context.Background(), 7, "seed", "https://cdn.example.com/seed"); err != nil {
			t.Fatalf("seed claim failed: %v", err)
		}
	}

	if _, err := uc.Execute(context.Background()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	idx, err := repo.ClaimFreeSlot(context.Background(), 7, "fresh", "https://cdn.example.com/fresh")
	if err != nil {
		t.Fatalf("claim after reset failed: %v", err)
	}
	if idx != 0 {
		t.Fatalf("expected index 0 after reset, got %d", idx)
	}
}
