package notification

import "context"

// Notifier 把检知摘要投递到一个外部渠道
type Notifier interface {
	Name() string
	Notify(ctx context.Context, message string) error
}
