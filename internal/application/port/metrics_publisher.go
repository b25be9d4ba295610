package port

import "context"

// MetricsPublisher отправляет счетчики работы доски во внешнюю систему метрик.
type MetricsPublisher interface {
	// Count буферизует счетчик; публикация батчами.
	Count(ctx context.Context, name string, value float64) error

	// Flush принудительно публикует буфер (используется при shutdown).
	Flush(ctx context.Context) error
}
