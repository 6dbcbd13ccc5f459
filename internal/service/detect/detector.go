package detect

import (
	"fmt"
	"time"

	"github.com/KNICEX/mt5-monitor/internal/service/marketdata"
	"github.com/shopspring/decimal"
)

// Kind 事件类型
type Kind string

const (
	KindGoldenCross Kind = "golden_cross"
	KindDeathCross  Kind = "death_cross"
	KindSurge       Kind = "surge"
	KindCrash       Kind = "crash"
)

// Key 去重键, 同一根K线上的同类事件只报一次
type Key struct {
	Symbol    string
	Timeframe marketdata.Timeframe
	Kind      Kind
}

// State 去重状态, 进程生命周期内常驻, 只增不减
// 不是全局单例, 由调用方持有并注入, 多个 Detector 实例互不干扰
type State struct {
	lastEvent map[Key]time.Time
}

func NewState() *State {
	return &State{lastEvent: make(map[Key]time.Time)}
}

// mark 记录该键的最新事件时间, 重复则返回 false
func (s *State) mark(key Key, barTime time.Time) bool {
	if last, ok := s.lastEvent[key]; ok && last.Equal(barTime) {
		return false
	}
	s.lastEvent[key] = barTime
	return true
}

// Event 一次检出的行情事件
type Event struct {
	Symbol      string
	Timeframe   marketdata.Timeframe
	Kind        Kind
	BarTime     time.Time
	PrevClose   decimal.Decimal
	LatestClose decimal.Decimal
	Message     string
}

// Thresholds 暴涨暴跌阈值, <= 0 表示对应检测关闭
type Thresholds struct {
	SurgeRise decimal.Decimal
	CrashDrop decimal.Decimal
}

// Detector 基于相邻两根K线的规则检测器
type Detector struct {
	state *State
}

func NewDetector(state *State) *Detector {
	return &Detector{state: state}
}

// Evaluate 对一段K线序列的最后两根做四类检测
// 少于两根不算错误, 只是没有事件; 四类检测相互独立, 同一根K线最多同时报四条
func (d *Detector) Evaluate(symbol string, timeframe marketdata.Timeframe, bars []marketdata.Bar, th Thresholds) []Event {
	if len(bars) < 2 {
		return nil
	}
	prev := bars[len(bars)-2]
	latest := bars[len(bars)-1]

	var events []Event
	emit := func(kind Kind, message string) {
		key := Key{Symbol: symbol, Timeframe: timeframe, Kind: kind}
		if !d.state.mark(key, latest.Time) {
			return
		}
		events = append(events, Event{
			Symbol:      symbol,
			Timeframe:   timeframe,
			Kind:        kind,
			BarTime:     latest.Time,
			PrevClose:   prev.Close,
			LatestClose: latest.Close,
			Message:     message,
		})
	}

	label := timeframe.Label()

	if prev.MAShort.Valid && prev.MALong.Valid && latest.MAShort.Valid && latest.MALong.Valid {
		if DeathCross(prev.MAShort.Decimal, prev.MALong.Decimal, latest.MAShort.Decimal, latest.MALong.Decimal) {
			emit(KindDeathCross, fmt.Sprintf("%s %s: death cross (short MA %s crossed below long MA %s)",
				symbol, label, latest.MAShort.Decimal.StringFixed(5), latest.MALong.Decimal.StringFixed(5)))
		}
		if GoldenCross(prev.MAShort.Decimal, prev.MALong.Decimal, latest.MAShort.Decimal, latest.MALong.Decimal) {
			emit(KindGoldenCross, fmt.Sprintf("%s %s: golden cross (short MA %s crossed above long MA %s)",
				symbol, label, latest.MAShort.Decimal.StringFixed(5), latest.MALong.Decimal.StringFixed(5)))
		}
	}

	if Surge(prev.Close, latest.Close, th.SurgeRise) {
		rise := latest.Close.Sub(prev.Close)
		emit(KindSurge, fmt.Sprintf("%s %s: price surged %s (%s -> %s)",
			symbol, label, rise.StringFixed(2), prev.Close.StringFixed(2), latest.Close.StringFixed(2)))
	}

	if Crash(prev.Close, latest.Close, th.CrashDrop) {
		drop := prev.Close.Sub(latest.Close)
		emit(KindCrash, fmt.Sprintf("%s %s: price crashed %s (%s -> %s)",
			symbol, label, drop.StringFixed(2), prev.Close.StringFixed(2), latest.Close.StringFixed(2)))
	}

	return events
}
