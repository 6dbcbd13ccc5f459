package bridge

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCmdFile    = "mt5_cmd.txt"
	testRespPrefix = "mt5_resp_"
)

func newTestClient(t *testing.T, timeout time.Duration) (*Client, string) {
	t.Helper()
	dir := t.TempDir()
	cli := NewClient(Config{
		CommonDir:   dir,
		CmdFileName: testCmdFile,
		RespPrefix:  testRespPrefix,
		Timeout:     timeout,
	})
	return cli, dir
}

// respondWith 模拟 EA: 轮询命令文件, 用收到的 id 写响应文件
func respondWith(t *testing.T, dir string, respBody func(fields map[string]string) []Pair) {
	t.Helper()
	go func() {
		cmdPath := filepath.Join(dir, testCmdFile)
		for i := 0; i < 200; i++ {
			data, err := os.ReadFile(cmdPath)
			if err != nil {
				time.Sleep(10 * time.Millisecond)
				continue
			}
			fields := DecodeKV(string(data))
			respPath := filepath.Join(dir, testRespPrefix+fields["id"]+".txt")
			_ = os.WriteFile(respPath, []byte(EncodeKV(respBody(fields))), 0o644)
			return
		}
	}()
}

func TestClient_Request_RoundTrip(t *testing.T) {
	cli, dir := newTestClient(t, 5*time.Second)

	var gotFields map[string]string
	respondWith(t, dir, func(fields map[string]string) []Pair {
		gotFields = fields
		return []Pair{{"ok", "true"}, {"bar_time", "1700000000"}, {"close", "1900.5"}}
	})

	resp, err := cli.Request(context.Background(), LatestMACommand{
		Symbol:      "GOLD",
		Timeframe:   "M15",
		PeriodShort: 5, PeriodMiddle: 20, PeriodLong: 60,
		Method: "SMA",
		Shift:  1,
	})
	require.NoError(t, err)

	assert.True(t, resp.OK)
	assert.Equal(t, "1900.5", resp.Fields["close"])

	// 命令内容应包含 id/action 和全部参数
	assert.Equal(t, "GET_MA_LATEST", gotFields["action"])
	assert.Equal(t, "GOLD", gotFields["symbol"])
	assert.Equal(t, "CLOSE", gotFields["applied_price"])
	assert.NotEmpty(t, gotFields["id"])

	// 响应文件消费后必须被删除
	respPath := filepath.Join(dir, testRespPrefix+gotFields["id"]+".txt")
	_, statErr := os.Stat(respPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestClient_Request_ResponderError(t *testing.T) {
	cli, dir := newTestClient(t, 5*time.Second)

	respondWith(t, dir, func(fields map[string]string) []Pair {
		return []Pair{{"ok", "false"}, {"error", "unknown symbol"}}
	})

	_, err := cli.Request(context.Background(), CopyRatesCommand{Symbol: "NOPE", Timeframe: "M15", Count: 2})
	require.Error(t, err)

	var respErr *ResponderError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, "unknown symbol", respErr.Reason)
}

func TestClient_Request_Timeout(t *testing.T) {
	cli, dir := newTestClient(t, 300*time.Millisecond)

	_, err := cli.Request(context.Background(), CopyRatesCommand{Symbol: "GOLD", Timeframe: "M15", Count: 2})
	assert.ErrorIs(t, err, ErrTimeout)

	// 命令文件留在原地, 没有响应被消费
	_, statErr := os.Stat(filepath.Join(dir, testCmdFile))
	assert.NoError(t, statErr)
}

func TestClient_Request_DataFile(t *testing.T) {
	cli, dir := newTestClient(t, 5*time.Second)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bars_1.csv"), []byte("time,close\n1700000000,1900\n"), 0o644))
	respondWith(t, dir, func(fields map[string]string) []Pair {
		return []Pair{{"ok", "true"}, {"data_file", "bars_1.csv"}}
	})

	resp, err := cli.Request(context.Background(), CopyRatesCommand{Symbol: "GOLD", Timeframe: "M15", Count: 2})
	require.NoError(t, err)
	assert.Equal(t, "bars_1.csv", resp.DataFile)
	assert.Equal(t, filepath.Join(dir, "bars_1.csv"), cli.Resolve(resp.DataFile))
}

func TestClient_Request_MissingDataFile(t *testing.T) {
	cli, dir := newTestClient(t, 5*time.Second)

	respondWith(t, dir, func(fields map[string]string) []Pair {
		return []Pair{{"ok", "true"}, {"data_file", "never_written.csv"}}
	})

	_, err := cli.Request(context.Background(), CopyMACommand{
		Symbol: "GOLD", Timeframe: "M15", Count: 2,
		PeriodShort: 5, PeriodMiddle: 20, PeriodLong: 60, Method: "SMA",
	})
	assert.ErrorIs(t, err, ErrMissingDataFile)
}

func TestClient_Request_CancelDuringWait(t *testing.T) {
	cli, _ := newTestClient(t, 30*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(150 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := cli.Request(ctx, CopyRatesCommand{Symbol: "GOLD", Timeframe: "M15", Count: 2})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestNewCommandID_SortableAndUnique(t *testing.T) {
	a := newCommandID()
	b := newCommandID()

	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^\d{8}T\d{6}Z_[0-9a-f]{6}$`, a)
}
