package bridge

import (
	"errors"
	"fmt"
	"strconv"
)

// Action 终端侧 EA 支持的命令类型
type Action string

const (
	ActionCopyMA    Action = "COPY_MA"
	ActionCopyRates Action = "COPY_RATES"
	ActionCopyRSI   Action = "COPY_RSI"
	ActionLatestMA  Action = "GET_MA_LATEST"
	ActionLatestRSI Action = "GET_RSI_LATEST"
	ActionOrderSend Action = "ORDER_SEND"
)

// ProducesData 该命令是否会生成 CSV 数据文件
func (a Action) ProducesData() bool {
	switch a {
	case ActionCopyMA, ActionCopyRates, ActionCopyRSI:
		return true
	default:
		return false
	}
}

// Command 一次桥接命令, 每种 action 对应一个参数结构体
type Command interface {
	Action() Action
	Params() []Pair
}

// Response EA 写回的响应内容
type Response struct {
	OK       bool
	DataFile string
	Fields   map[string]string
}

var (
	// ErrTimeout 超时未收到响应文件
	ErrTimeout = errors.New("bridge: response timeout")
	// ErrMissingDataFile 响应成功但 CSV 数据文件一直没有出现
	ErrMissingDataFile = errors.New("bridge: data file not found")
)

// ResponderError EA 明确返回了失败
type ResponderError struct {
	Reason string
}

func (e *ResponderError) Error() string {
	return fmt.Sprintf("bridge: responder error: %s", e.Reason)
}

const defaultAppliedPrice = "CLOSE"

// CopyMACommand 请求移动平均序列 CSV
type CopyMACommand struct {
	Symbol       string
	Timeframe    string
	Count        int
	PeriodShort  int
	PeriodMiddle int
	PeriodLong   int
	Method       string
	AppliedPrice string
}

func (c CopyMACommand) Action() Action {
	return ActionCopyMA
}

func (c CopyMACommand) Params() []Pair {
	return []Pair{
		{"symbol", c.Symbol},
		{"timeframe", c.Timeframe},
		{"count", strconv.Itoa(c.Count)},
		{"period_short", strconv.Itoa(c.PeriodShort)},
		{"period_middle", strconv.Itoa(c.PeriodMiddle)},
		{"period_long", strconv.Itoa(c.PeriodLong)},
		{"method", c.Method},
		{"applied_price", appliedPriceOrDefault(c.AppliedPrice)},
	}
}

// CopyRatesCommand 请求 OHLCV 序列 CSV
type CopyRatesCommand struct {
	Symbol    string
	Timeframe string
	Count     int
}

func (c CopyRatesCommand) Action() Action {
	return ActionCopyRates
}

func (c CopyRatesCommand) Params() []Pair {
	return []Pair{
		{"symbol", c.Symbol},
		{"timeframe", c.Timeframe},
		{"count", strconv.Itoa(c.Count)},
	}
}

// CopyRSICommand 请求 RSI 序列 CSV
// EA 侧复用 period_short 字段作为 RSI 周期
type CopyRSICommand struct {
	Symbol       string
	Timeframe    string
	Period       int
	Count        int
	AppliedPrice string
}

func (c CopyRSICommand) Action() Action {
	return ActionCopyRSI
}

func (c CopyRSICommand) Params() []Pair {
	return []Pair{
		{"symbol", c.Symbol},
		{"timeframe", c.Timeframe},
		{"period_short", strconv.Itoa(c.Period)},
		{"applied_price", appliedPriceOrDefault(c.AppliedPrice)},
		{"count", strconv.Itoa(c.Count)},
	}
}

// LatestMACommand 取最新一根(或已收盘一根)的 MA 值, 不产生 CSV
// Shift: 0=未收盘bar, 1=已收盘bar
type LatestMACommand struct {
	Symbol       string
	Timeframe    string
	PeriodShort  int
	PeriodMiddle int
	PeriodLong   int
	Method       string
	AppliedPrice string
	Shift        int
}

func (c LatestMACommand) Action() Action {
	return ActionLatestMA
}

func (c LatestMACommand) Params() []Pair {
	return []Pair{
		{"symbol", c.Symbol},
		{"timeframe", c.Timeframe},
		{"period_short", strconv.Itoa(c.PeriodShort)},
		{"period_middle", strconv.Itoa(c.PeriodMiddle)},
		{"period_long", strconv.Itoa(c.PeriodLong)},
		{"method", c.Method},
		{"applied_price", appliedPriceOrDefault(c.AppliedPrice)},
		{"ma_shift", strconv.Itoa(c.Shift)},
	}
}

// LatestRSICommand 取最新一根(或已收盘一根)的 RSI 值, 不产生 CSV
type LatestRSICommand struct {
	Symbol       string
	Timeframe    string
	Period       int
	AppliedPrice string
	Shift        int
}

func (c LatestRSICommand) Action() Action {
	return ActionLatestRSI
}

func (c LatestRSICommand) Params() []Pair {
	return []Pair{
		{"symbol", c.Symbol},
		{"timeframe", c.Timeframe},
		{"period_short", strconv.Itoa(c.Period)},
		{"applied_price", appliedPriceOrDefault(c.AppliedPrice)},
		{"ma_shift", strconv.Itoa(c.Shift)},
	}
}

// OrderCommand 通用下单命令, 参数原样透传
// 下单语义完全由 EA 决定, 这里只负责投递
type OrderCommand struct {
	Fields []Pair
}

func (c OrderCommand) Action() Action {
	return ActionOrderSend
}

func (c OrderCommand) Params() []Pair {
	return c.Fields
}

func appliedPriceOrDefault(p string) string {
	if p == "" {
		return defaultAppliedPrice
	}
	return p
}
