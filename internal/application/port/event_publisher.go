package port

import "context"

// EventPublisher публикует доменные события доски для внешних подписчиков
// (архиватор, бот анонсов). Не используется для push в браузеры.
type EventPublisher interface {
	PublishEvent(ctx context.Context, subject string, event interface{}) error
	Close() error
}
