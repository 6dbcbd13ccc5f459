package monitor

import (
	"context"

	"github.com/KNICEX/mt5-monitor/internal/service/detect"
	"github.com/KNICEX/mt5-monitor/internal/service/marketdata"
	"github.com/shopspring/decimal"
)

// Target 一个监控对象, 配置值, 创建后不再修改
type Target struct {
	Symbol    string
	Timeframe marketdata.Timeframe

	// 阈值 <= 0 表示对应检测关闭
	SurgeThreshold decimal.Decimal
	CrashThreshold decimal.Decimal

	MAShortPeriod  int
	MAMiddlePeriod int
	MALongPeriod   int
	MAMethod       string

	// RSIPeriod > 0 时启用本地 RSI 交叉校验
	RSIPeriod int
}

// Service 监控服务接口
type Service interface {
	Scan(ctx context.Context, targets []Target) error
}

type Notifier interface {
	Notify(ctx context.Context, message string) error
}

type Detector interface {
	Evaluate(symbol string, timeframe marketdata.Timeframe, bars []marketdata.Bar, th detect.Thresholds) []detect.Event
}
