package marketdata

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/KNICEX/mt5-monitor/internal/service/bridge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBridgeClient 模拟桥接客户端
type MockBridgeClient struct {
	mock.Mock
}

func (m *MockBridgeClient) Request(ctx context.Context, cmd bridge.Command) (bridge.Response, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(bridge.Response), args.Error(1)
}

func (m *MockBridgeClient) Resolve(name string) string {
	args := m.Called(name)
	return args.String(0)
}

func TestBarService_CopyRates_ConsumesCSV(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "rates_1.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(
		"time,open,high,low,close,tick_volume,spread,real_volume\n"+
			"1700000000,1900,1910,1890,1905,100,3,0\n"+
			"1700000900,1905,1920,1900,1915,90,2,0\n"), 0o644))

	cli := new(MockBridgeClient)
	cli.On("Request", mock.Anything, mock.MatchedBy(func(cmd bridge.Command) bool {
		return cmd.Action() == bridge.ActionCopyRates
	})).Return(bridge.Response{OK: true, DataFile: "rates_1.csv"}, nil)
	cli.On("Resolve", "rates_1.csv").Return(csvPath)

	svc := NewBarService(cli)
	bars, err := svc.CopyRates(context.Background(), CopyRatesReq{Symbol: "GOLD", Timeframe: TimeframeM15, Count: 2})
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, time.Unix(1700000900, 0).UTC(), bars[1].Time)

	// CSV 消费后必须被删除
	_, statErr := os.Stat(csvPath)
	assert.True(t, os.IsNotExist(statErr))
	cli.AssertExpectations(t)
}

func TestBarService_CopyMovingAverages_ParseErrorStillDeletes(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "ma_1.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(
		"time,close,ma_short,ma_middle,ma_long\nbroken,1900,1,2,3\n"), 0o644))

	cli := new(MockBridgeClient)
	cli.On("Request", mock.Anything, mock.Anything).Return(bridge.Response{OK: true, DataFile: "ma_1.csv"}, nil)
	cli.On("Resolve", "ma_1.csv").Return(csvPath)

	svc := NewBarService(cli)
	_, err := svc.CopyMovingAverages(context.Background(), CopyMAReq{
		Symbol: "GOLD", Timeframe: TimeframeM15, Count: 2,
		PeriodShort: 5, PeriodMiddle: 20, PeriodLong: 60, Method: "SMA",
	})
	assert.ErrorIs(t, err, ErrParse)

	_, statErr := os.Stat(csvPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestBarService_LatestMovingAverages(t *testing.T) {
	cli := new(MockBridgeClient)
	cli.On("Request", mock.Anything, mock.MatchedBy(func(cmd bridge.Command) bool {
		return cmd.Action() == bridge.ActionLatestMA
	})).Return(bridge.Response{OK: true, Fields: map[string]string{
		"ok":        "true",
		"bar_time":  "1700000000",
		"close":     "1905.5",
		"ma_short":  "1901.0",
		"ma_middle": "1890.0",
		"ma_long":   "1880.0",
	}}, nil)

	svc := NewBarService(cli)
	bar, err := svc.LatestMovingAverages(context.Background(), LatestMAReq{
		Symbol: "GOLD", Timeframe: TimeframeM15,
		PeriodShort: 5, PeriodMiddle: 20, PeriodLong: 60, Method: "SMA", Shift: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, time.Unix(1700000000, 0).UTC(), bar.Time)
	assert.Equal(t, "1905.5", bar.Close.String())
	require.True(t, bar.MAShort.Valid)
	assert.Equal(t, "1901", bar.MAShort.Decimal.String())
	assert.False(t, bar.RSI.Valid)
}

func TestBarService_LatestRSI_BadField(t *testing.T) {
	cli := new(MockBridgeClient)
	cli.On("Request", mock.Anything, mock.Anything).Return(bridge.Response{OK: true, Fields: map[string]string{
		"ok":       "true",
		"bar_time": "1700000000",
		"close":    "1905.5",
		"rsi":      "not-a-number",
	}}, nil)

	svc := NewBarService(cli)
	_, err := svc.LatestRSI(context.Background(), LatestRSIReq{Symbol: "GOLD", Timeframe: TimeframeM15, Period: 14, Shift: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rsi")
}
