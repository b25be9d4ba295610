package port

import (
	"context"
	"time"
)

// OrphanUpload — картинка, загруженная в объектное хранилище, но не получившая
// слот (полная доска, проигранная гонка, сбой вставки) и не удаленная
// компенсирующим запросом.
type OrphanUpload struct {
	Key        string
	Reason     string
	UploadedAt time.Time
}

// OrphanLedger — журнал осиротевших загрузок для периодической уборки.
type OrphanLedger interface {
	Record(ctx context.Context, orphan OrphanUpload) error

	// ListOlderThan возвращает записи старше cutoff (не моложе — загрузка могла
	// еще выигрывать гонку в момент записи).
	ListOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]OrphanUpload, error)

	Remove(ctx context.Context, key string) error
}
