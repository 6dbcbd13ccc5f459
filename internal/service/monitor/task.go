package monitor

import (
	"context"

	"github.com/KNICEX/mt5-monitor/internal/schedule"
	"github.com/samber/lo"
)

type MonitorTask struct {
	monitorSvc   Service
	targets      []Target
	rejectTarget func(ctx context.Context, target Target) bool // if true, reject
}

func NewMonitorTask(monitorSvc Service, targets []Target,
	reject ...func(ctx context.Context, target Target) bool) schedule.Task {
	task := &MonitorTask{
		monitorSvc: monitorSvc,
		targets:    targets,
		rejectTarget: func(ctx context.Context, target Target) bool {
			return false
		},
	}

	if len(reject) > 0 {
		task.rejectTarget = reject[0]
	}
	return task
}

func (t *MonitorTask) Run(ctx context.Context) error {
	targets := lo.Reject(t.targets, func(item Target, index int) bool {
		return t.rejectTarget(ctx, item)
	})

	return t.monitorSvc.Scan(ctx, targets)
}

func (t *MonitorTask) Name() string {
	return "moving average cross monitor task"
}
