package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

var _ Notifier = (*multiNotifier)(nil)

// multiNotifier 把同一条消息投到多个渠道
// 某个渠道失败不影响其他渠道, 所有错误合并返回
type multiNotifier struct {
	notifiers []Notifier
}

func NewMultiNotifier(notifiers ...Notifier) Notifier {
	return &multiNotifier{notifiers: notifiers}
}

func (m *multiNotifier) Name() string {
	names := lo.Map(m.notifiers, func(n Notifier, _ int) string {
		return n.Name()
	})
	return strings.Join(names, "+")
}

func (m *multiNotifier) Notify(ctx context.Context, message string) error {
	var errs []error
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, message); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
		}
	}
	return errors.Join(errs...)
}
