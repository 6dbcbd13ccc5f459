package schedule

import (
	"context"
	"log/slog"
	"time"
)

// Runner 固定间隔驱动一个 Task
// interval <= 0 只跑一次; 睡眠随 ctx 取消立即中断
type Runner struct {
	task     Task
	interval time.Duration
}

func NewRunner(task Task, interval time.Duration) *Runner {
	return &Runner{
		task:     task,
		interval: interval,
	}
}

func (r *Runner) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if err := r.task.Run(ctx); err != nil {
			if ctx.Err() != nil {
				slog.Info("task interrupted", "task", r.task.Name())
				return nil
			}
			slog.Error("task run failed", "task", r.task.Name(), "error", err)
		}

		if r.interval <= 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			slog.Info("runner stopped", "task", r.task.Name())
			return nil
		case <-time.After(r.interval):
		}
	}
}
