package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/KNICEX/mt5-monitor/internal/entity"
	"github.com/KNICEX/mt5-monitor/internal/metrics"
	"github.com/KNICEX/mt5-monitor/internal/repo"
	"github.com/KNICEX/mt5-monitor/internal/service/detect"
	"github.com/KNICEX/mt5-monitor/internal/service/marketdata"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const (
	defaultChartCount = 2
	// 终端 RSI 和本地 RSI 允许的最大偏差
	rsiDivergenceLimit = 1
)

// CrossMonitor 对一组监控对象做均线交叉和暴涨暴跌检测
type CrossMonitor struct {
	barSvc   marketdata.Service
	detector Detector
	notifier Notifier

	repo repo.EventRepo

	// 每次检测拉取的K线数量, 只需要最后两根
	chartCount int
	// 失败的监控对象是否在摘要里留一条提示
	notifyFailures bool
}

type consoleNotifier struct {
}

func (c consoleNotifier) Notify(ctx context.Context, message string) error {
	fmt.Println(message)
	return nil
}

type Option func(m *CrossMonitor)

func WithNotifier(notifier Notifier) Option {
	return func(m *CrossMonitor) {
		m.notifier = notifier
	}
}

func WithChartCount(count int) Option {
	return func(m *CrossMonitor) {
		m.chartCount = count
	}
}

func WithFailureNotices() Option {
	return func(m *CrossMonitor) {
		m.notifyFailures = true
	}
}

func NewCrossMonitor(barSvc marketdata.Service, detector Detector, repo repo.EventRepo, opts ...Option) Service {
	monitor := &CrossMonitor{
		barSvc:     barSvc,
		detector:   detector,
		repo:       repo,
		notifier:   consoleNotifier{},
		chartCount: defaultChartCount,
	}
	for _, opt := range opts {
		opt(monitor)
	}
	return monitor
}

// Scan 按给定顺序逐个检测, 单个对象失败不影响其他对象
// 有检出时把摘要交给 notifier, 通知失败只记日志
func (m *CrossMonitor) Scan(ctx context.Context, targets []Target) error {
	var events []detect.Event
	var failures []string

	for _, target := range targets {
		found, err := m.scanTarget(ctx, target)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Error("target detection failed",
				"symbol", target.Symbol, "timeframe", target.Timeframe, "error", err)
			if m.notifyFailures {
				failures = append(failures, fmt.Sprintf("%s %s: detection failed", target.Symbol, target.Timeframe))
			}
			continue
		}
		events = append(events, found...)
	}

	lines := lo.Map(events, func(ev detect.Event, _ int) string {
		return "- " + ev.Message
	})
	for _, failure := range failures {
		lines = append(lines, "- "+failure)
	}
	if len(lines) == 0 {
		return nil
	}

	message := "Detected events:\n\n" + strings.Join(lines, "\n")
	if err := m.notifier.Notify(ctx, message); err != nil {
		slog.Error("failed to notify digest", "error", err, "events", len(lines))
		return nil
	}
	slog.Info("digest notified", "events", len(lines))
	return nil
}

func (m *CrossMonitor) scanTarget(ctx context.Context, target Target) ([]detect.Event, error) {
	bars, err := m.barSvc.CopyMovingAverages(ctx, marketdata.CopyMAReq{
		Symbol:       target.Symbol,
		Timeframe:    target.Timeframe,
		Count:        m.chartCount,
		PeriodShort:  target.MAShortPeriod,
		PeriodMiddle: target.MAMiddlePeriod,
		PeriodLong:   target.MALongPeriod,
		Method:       target.MAMethod,
	})
	if err != nil {
		return nil, err
	}
	if len(bars) < 2 {
		slog.Warn("skip target", "symbol", target.Symbol, "timeframe", target.Timeframe,
			"reason", "too few bars", "bars", len(bars))
		return nil, nil
	}

	slog.Info("analyzing target", "symbol", target.Symbol, "timeframe", target.Timeframe,
		"ma", fmt.Sprintf("%s(%d,%d,%d)", target.MAMethod, target.MAShortPeriod, target.MAMiddlePeriod, target.MALongPeriod))

	events := m.detector.Evaluate(target.Symbol, target.Timeframe, bars, detect.Thresholds{
		SurgeRise: target.SurgeThreshold,
		CrashDrop: target.CrashThreshold,
	})

	for _, ev := range events {
		metrics.EventsDetectedTotal.WithLabelValues(ev.Symbol, string(ev.Kind)).Inc()
		m.saveEvent(ctx, ev)
	}

	if target.RSIPeriod > 0 {
		m.crossCheckRSI(ctx, target)
	}
	return events, nil
}

func (m *CrossMonitor) saveEvent(ctx context.Context, ev detect.Event) {
	if m.repo == nil {
		return
	}
	_, err := m.repo.Create(ctx, entity.Event{
		Symbol:      ev.Symbol,
		Timeframe:   ev.Timeframe.ToString(),
		Kind:        string(ev.Kind),
		BarTime:     ev.BarTime,
		PrevClose:   ev.PrevClose.String(),
		LatestClose: ev.LatestClose.String(),
		Message:     ev.Message,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		slog.Error("failed to save event", "symbol", ev.Symbol, "kind", ev.Kind, "error", err)
	}
}

// crossCheckRSI 终端侧 RSI 为准, 本地重算只做校验
// 偏差过大说明双方对数据或算法的理解不一致, 记 warning 提醒维护者
func (m *CrossMonitor) crossCheckRSI(ctx context.Context, target Target) {
	latest, err := m.barSvc.LatestRSI(ctx, marketdata.LatestRSIReq{
		Symbol:    target.Symbol,
		Timeframe: target.Timeframe,
		Period:    target.RSIPeriod,
		Shift:     1,
	})
	if err != nil {
		slog.Warn("rsi cross-check skipped", "symbol", target.Symbol, "error", err)
		return
	}
	if !latest.RSI.Valid {
		return
	}

	rates, err := m.barSvc.CopyRates(ctx, marketdata.CopyRatesReq{
		Symbol:    target.Symbol,
		Timeframe: target.Timeframe,
		Count:     target.RSIPeriod * 3,
	})
	if err != nil {
		slog.Warn("rsi cross-check skipped", "symbol", target.Symbol, "error", err)
		return
	}

	closes := lo.Map(rates, func(bar marketdata.Bar, _ int) decimal.Decimal {
		return bar.Close
	})
	series := detect.RSI(closes, target.RSIPeriod)

	// 对齐到终端返回的那根K线, 找不到就用最后一个有效值
	local := decimal.NullDecimal{}
	for i, bar := range rates {
		if bar.Time.Equal(latest.Time) && series[i].Valid {
			local = series[i]
			break
		}
	}
	if !local.Valid {
		for i := len(series) - 1; i >= 0; i-- {
			if series[i].Valid {
				local = series[i]
				break
			}
		}
	}
	if !local.Valid {
		return
	}

	diff := local.Decimal.Sub(latest.RSI.Decimal).Abs()
	if diff.GreaterThan(decimal.NewFromInt(rsiDivergenceLimit)) {
		slog.Warn("rsi divergence between terminal and local computation",
			"symbol", target.Symbol, "timeframe", target.Timeframe,
			"terminal", latest.RSI.Decimal.StringFixed(2), "local", local.Decimal.StringFixed(2))
	}
}
