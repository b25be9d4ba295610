package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/artcollab/drawgrid/internal/application/port"
	"github.com/artcollab/drawgrid/internal/domain/entity"
	"github.com/artcollab/drawgrid/internal/domain/valueobject"
)

// memorySlotRepo повторяет контракт атомарного назначения слота в памяти.
type memorySlotRepo struct {
	mu       sync.Mutex
	slots    map[int]*entity.Slot
	claimErr error
	listErr  error
}

func newMemorySlotRepo() *memorySlotRepo {
	return &memorySlotRepo{slots: make(map[int]*entity.Slot)}
}

func (r *memorySlotRepo) List(_ context.Context) ([]*entity.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}

	indices := make([]int, 0, len(r.slots))
	for idx := range r.slots {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	out := make([]*entity.Slot, 0, len(indices))
	for _, idx := range indices {
		out = append(out, r.slots[idx])
	}
	return out, nil
}

func (r *memorySlotRepo) Insert(_ context.Context, slot *entity.Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := slot.Index().Int()
	if _, taken := r.slots[idx]; taken {
		return entity.ErrSlotTaken
	}
	r.slots[idx] = slot
	return nil
}

func (r *memorySlotRepo) ClaimFreeSlot(_ context.Context, slotCount int, artistName, imageURL string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.claimErr != nil {
		return 0, r.claimErr
	}
	for i := 0; i < slotCount; i++ {
		if _, taken := r.slots[i]; !taken {
			r.slots[i] = entity.ReconstructSlot(valueobject.SlotIndex(i), artistName, imageURL, time.Now().UTC())
			return i, nil
		}
	}
	return 0, entity.ErrGridFull
}

func (r *memorySlotRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.slots), nil
}

func (r *memorySlotRepo) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots = make(map[int]*entity.Slot)
	return nil
}

type memoryThemeRepo struct {
	theme     *entity.Theme
	getErr    error
	updateErr error
}

func (r *memoryThemeRepo) Get(_ context.Context) (*entity.Theme, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	if r.theme == nil {
		return entity.DefaultTheme("Untitled", "..."), nil
	}
	return r.theme, nil
}

func (r *memoryThemeRepo) Update(_ context.Context, theme *entity.Theme) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.theme = theme
	return nil
}

type mockImageStorage struct {
	mu      sync.Mutex
	puts    []string
	deletes []string
	putErr  error
	delErr  error
}

func (m *mockImageStorage) PutObject(_ context.Context, key, _ string, _ []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return "", m.putErr
	}
	m.puts = append(m.puts, key)
	return "https://cdn.example.com/" + key, nil
}

func (m *mockImageStorage) DeleteObject(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.delErr != nil {
		return m.delErr
	}
	m.deletes = append(m.deletes, key)
	return nil
}

type mockOrphanLedger struct {
	mu      sync.Mutex
	records []port.OrphanUpload
	listOut []port.OrphanUpload
	removed []string
}

func (m *mockOrphanLedger) Record(_ context.Context, orphan port.OrphanUpload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, orphan)
	return nil
}

func (m *mockOrphanLedger) ListOlderThan(_ context.Context, cutoff time.Time, _ int) ([]port.OrphanUpload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]port.OrphanUpload, 0, len(m.listOut))
	for _, o := range m.listOut {
		if !o.UploadedAt.After(cutoff) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockOrphanLedger) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = append(m.removed, key)
	return nil
}

type publishedEvent struct {
	subject string
	event   interface{}
}

type mockEventPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (m *mockEventPublisher) PublishEvent(_ context.Context, subject string, event interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, publishedEvent{subject: subject, event: event})
	return nil
}

func (m *mockEventPublisher) Close() error { return nil }

type mockMetrics struct {
	mu       sync.Mutex
	counts   map[string]float64
	countErr error
}

func (m *mockMetrics) Count(_ context.Context, name string, value float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.countErr != nil {
		return m.countErr
	}
	if m.counts == nil {
		m.counts = make(map[string]float64)
	}
	m.counts[name] += value
	return nil
}

func (m *mockMetrics) Flush(_ context.Context) error { return nil }

type mockFetcher struct {
	data  map[string][]byte
	errAt map[string]error
}

func (m *mockFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	if err, ok := m.errAt[url]; ok {
		return nil, err
	}
	return m.data[url], nil
}

type mockRenderer struct {
	boards []port.RenderBoard
}

func (m *mockRenderer) RenderPNG(_ context.Context, board port.RenderBoard) ([]byte, error) {
	m.boards = append(m.boards, board)
	return []byte("png"), nil
}
