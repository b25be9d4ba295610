package port

import "context"

// ImageFetcher скачивает байты сохраненной картинки по ее URL.
// Нужен только пути экспорта; чтение сетки картинки не трогает.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}
