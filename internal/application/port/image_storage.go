package port

import "context"

// ImageStorage — внешнее объектное хранилище картинок.
// PutObject возвращает стабильный URL, по которому картинку читает фронтенд.
type ImageStorage interface {
	PutObject(ctx context.Context, key, contentType string, body []byte) (string, error)
	DeleteObject(ctx context.Context, key string) error
}
