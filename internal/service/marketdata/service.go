package marketdata

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/KNICEX/mt5-monitor/internal/service/bridge"
	"github.com/shopspring/decimal"
)

// BridgeClient 底层文件邮箱客户端
type BridgeClient interface {
	Request(ctx context.Context, cmd bridge.Command) (bridge.Response, error)
	Resolve(name string) string
}

var _ Service = (*BarService)(nil)

// BarService 通过桥接客户端取行情数据的服务
// CSV 数据文件读取后立即删除, 一次性消费
type BarService struct {
	cli BridgeClient
}

// NewBarService 创建行情数据服务
func NewBarService(cli BridgeClient) *BarService {
	return &BarService{cli: cli}
}

func (s *BarService) CopyMovingAverages(ctx context.Context, req CopyMAReq) ([]Bar, error) {
	resp, err := s.cli.Request(ctx, bridge.CopyMACommand{
		Symbol:       req.Symbol,
		Timeframe:    req.Timeframe.ToString(),
		Count:        req.Count,
		PeriodShort:  req.PeriodShort,
		PeriodMiddle: req.PeriodMiddle,
		PeriodLong:   req.PeriodLong,
		Method:       req.Method,
	})
	if err != nil {
		return nil, err
	}
	return s.consumeCSV(resp.DataFile, MovingAverageSchema)
}

func (s *BarService) CopyRates(ctx context.Context, req CopyRatesReq) ([]Bar, error) {
	resp, err := s.cli.Request(ctx, bridge.CopyRatesCommand{
		Symbol:    req.Symbol,
		Timeframe: req.Timeframe.ToString(),
		Count:     req.Count,
	})
	if err != nil {
		return nil, err
	}
	return s.consumeCSV(resp.DataFile, RatesSchema)
}

func (s *BarService) CopyRSI(ctx context.Context, req CopyRSIReq) ([]Bar, error) {
	resp, err := s.cli.Request(ctx, bridge.CopyRSICommand{
		Symbol:    req.Symbol,
		Timeframe: req.Timeframe.ToString(),
		Period:    req.Period,
		Count:     req.Count,
	})
	if err != nil {
		return nil, err
	}
	return s.consumeCSV(resp.DataFile, RSISchema)
}

func (s *BarService) LatestMovingAverages(ctx context.Context, req LatestMAReq) (Bar, error) {
	resp, err := s.cli.Request(ctx, bridge.LatestMACommand{
		Symbol:       req.Symbol,
		Timeframe:    req.Timeframe.ToString(),
		PeriodShort:  req.PeriodShort,
		PeriodMiddle: req.PeriodMiddle,
		PeriodLong:   req.PeriodLong,
		Method:       req.Method,
		Shift:        req.Shift,
	})
	if err != nil {
		return Bar{}, err
	}

	bar, err := latestBarBase(resp)
	if err != nil {
		return Bar{}, err
	}
	for _, field := range []struct {
		key string
		dst *decimal.NullDecimal
	}{
		{"ma_short", &bar.MAShort},
		{"ma_middle", &bar.MAMiddle},
		{"ma_long", &bar.MALong},
	} {
		d, err := decimal.NewFromString(resp.Fields[field.key])
		if err != nil {
			return Bar{}, fmt.Errorf("marketdata: response field %q: %w", field.key, err)
		}
		*field.dst = decimal.NullDecimal{Decimal: d, Valid: true}
	}
	return bar, nil
}

func (s *BarService) LatestRSI(ctx context.Context, req LatestRSIReq) (Bar, error) {
	resp, err := s.cli.Request(ctx, bridge.LatestRSICommand{
		Symbol:    req.Symbol,
		Timeframe: req.Timeframe.ToString(),
		Period:    req.Period,
		Shift:     req.Shift,
	})
	if err != nil {
		return Bar{}, err
	}

	bar, err := latestBarBase(resp)
	if err != nil {
		return Bar{}, err
	}
	rsi, err := decimal.NewFromString(resp.Fields["rsi"])
	if err != nil {
		return Bar{}, fmt.Errorf("marketdata: response field \"rsi\": %w", err)
	}
	bar.RSI = decimal.NullDecimal{Decimal: rsi, Valid: true}
	return bar, nil
}

// consumeCSV 解析后删除数据文件, 解析失败也会删除
func (s *BarService) consumeCSV(name string, schema Schema) ([]Bar, error) {
	path := s.cli.Resolve(name)
	bars, err := ParseFile(path, schema)
	if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
		slog.Debug("failed to remove data file", "path", path, "error", rmErr)
	}
	if err != nil {
		return nil, err
	}
	return bars, nil
}

// latestBarBase 解析 GET_*_LATEST 响应里共通的 bar_time 和 close
func latestBarBase(resp bridge.Response) (Bar, error) {
	t, err := ParseTime(resp.Fields["bar_time"])
	if err != nil {
		return Bar{}, fmt.Errorf("marketdata: response field \"bar_time\": %w", err)
	}
	c, err := decimal.NewFromString(resp.Fields["close"])
	if err != nil {
		return Bar{}, fmt.Errorf("marketdata: response field \"close\": %w", err)
	}
	return Bar{Time: t, Close: c}, nil
}
