package marketdata

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Timeframe MT5 风格的时间足标识
type Timeframe string

func (t Timeframe) ToString() string {
	return string(t)
}

const (
	TimeframeM1  Timeframe = "M1"
	TimeframeM5  Timeframe = "M5"
	TimeframeM15 Timeframe = "M15"
	TimeframeM30 Timeframe = "M30"
	TimeframeH1  Timeframe = "H1"
	TimeframeH4  Timeframe = "H4"
	TimeframeD1  Timeframe = "D1"
	TimeframeW1  Timeframe = "W1"
	TimeframeMN1 Timeframe = "MN1"
)

// Label 通知消息里用的可读标签
func (t Timeframe) Label() string {
	s := string(t)
	switch {
	case strings.HasPrefix(s, "MN") && isDigits(s[2:]):
		return fmt.Sprintf("%s-month", s[2:])
	case strings.HasPrefix(s, "M") && isDigits(s[1:]):
		return fmt.Sprintf("%s-minute", s[1:])
	case strings.HasPrefix(s, "H") && isDigits(s[1:]):
		return fmt.Sprintf("%s-hour", s[1:])
	case s == "D1":
		return "daily"
	case s == "W1":
		return "weekly"
	}
	return s
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Bar 一根K线, 可选携带终端侧算好的指标值
// 缺失的可选列保持零值 / NullDecimal 的 Valid=false
type Bar struct {
	Time       time.Time
	Open       decimal.Decimal
	High       decimal.Decimal
	Low        decimal.Decimal
	Close      decimal.Decimal
	TickVolume int64
	Spread     int64
	RealVolume int64

	MAShort  decimal.NullDecimal
	MAMiddle decimal.NullDecimal
	MALong   decimal.NullDecimal
	RSI      decimal.NullDecimal
}

// CopyMAReq 拉取移动平均序列
type CopyMAReq struct {
	Symbol       string
	Timeframe    Timeframe
	Count        int
	PeriodShort  int
	PeriodMiddle int
	PeriodLong   int
	Method       string
}

// CopyRatesReq 拉取 OHLCV 序列
type CopyRatesReq struct {
	Symbol    string
	Timeframe Timeframe
	Count     int
}

// CopyRSIReq 拉取 RSI 序列
type CopyRSIReq struct {
	Symbol    string
	Timeframe Timeframe
	Period    int
	Count     int
}

// LatestMAReq 只取最新一根的 MA 值
type LatestMAReq struct {
	Symbol       string
	Timeframe    Timeframe
	PeriodShort  int
	PeriodMiddle int
	PeriodLong   int
	Method       string
	Shift        int
}

// LatestRSIReq 只取最新一根的 RSI 值
type LatestRSIReq struct {
	Symbol    string
	Timeframe Timeframe
	Period    int
	Shift     int
}

type Service interface {
	CopyMovingAverages(ctx context.Context, req CopyMAReq) ([]Bar, error)
	CopyRates(ctx context.Context, req CopyRatesReq) ([]Bar, error)
	CopyRSI(ctx context.Context, req CopyRSIReq) ([]Bar, error)
	LatestMovingAverages(ctx context.Context, req LatestMAReq) (Bar, error)
	LatestRSI(ctx context.Context, req LatestRSIReq) (Bar, error)
}
