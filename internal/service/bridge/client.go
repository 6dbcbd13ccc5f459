package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/KNICEX/mt5-monitor/internal/metrics"
	"github.com/google/uuid"
)

// Config 共享目录邮箱的桥接配置
type Config struct {
	// CommonDir 终端和本进程共享的目录
	CommonDir string `mapstructure:"common_dir"`
	// CmdFileName EA 监听的命令文件名, 全局只有这一个
	CmdFileName string `mapstructure:"cmd_file_name"`
	// RespPrefix 响应文件名前缀, 完整文件名为 <prefix><id>.txt
	RespPrefix string `mapstructure:"resp_prefix"`
	// Timeout 等待响应文件的超时时间
	Timeout time.Duration `mapstructure:"timeout"`
}

const (
	defaultTimeout    = 20 * time.Second
	respPollInterval  = 100 * time.Millisecond
	dataPollInterval  = 50 * time.Millisecond
	dataPollRetries   = 20
	responderUnknown  = "unknown"
	commandFilePerm   = 0o644
	responseExtension = ".txt"
)

// Client 文件邮箱桥接客户端
// 命令文件只有一个, 所以同一时刻只允许一个未完成的请求, 由互斥锁保证
type Client struct {
	cfg Config

	mu sync.Mutex
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{cfg: cfg}
}

// Resolve 把响应中的文件名解析为共享目录下的完整路径
func (c *Client) Resolve(name string) string {
	return filepath.Join(c.cfg.CommonDir, name)
}

// Request 发送一条命令并等待 EA 的响应
// 响应文件被读取后立即删除, 一次性消费
func (c *Client) Request(ctx context.Context, cmd Command) (Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := newCommandID()
	pairs := append([]Pair{
		{"id", id},
		{"action", string(cmd.Action())},
	}, cmd.Params()...)

	slog.Debug("send bridge command", "id", id, "action", cmd.Action())
	if err := c.writeCommand(pairs); err != nil {
		metrics.BridgeRequestsTotal.WithLabelValues(string(cmd.Action()), "write_error").Inc()
		return Response{}, err
	}

	fields, err := c.waitResponse(ctx, id)
	if err != nil {
		metrics.BridgeRequestsTotal.WithLabelValues(string(cmd.Action()), "timeout").Inc()
		return Response{}, err
	}

	if !strings.EqualFold(fields["ok"], "true") {
		reason := fields["error"]
		if reason == "" {
			reason = responderUnknown
		}
		metrics.BridgeRequestsTotal.WithLabelValues(string(cmd.Action()), "responder_error").Inc()
		return Response{}, &ResponderError{Reason: reason}
	}

	resp := Response{
		OK:       true,
		DataFile: fields["data_file"],
		Fields:   fields,
	}

	if cmd.Action().ProducesData() {
		if resp.DataFile == "" {
			metrics.BridgeRequestsTotal.WithLabelValues(string(cmd.Action()), "responder_error").Inc()
			return Response{}, fmt.Errorf("bridge: response missing data_file: %w", ErrMissingDataFile)
		}
		if err := c.waitDataFile(ctx, resp.DataFile); err != nil {
			metrics.BridgeRequestsTotal.WithLabelValues(string(cmd.Action()), "missing_data").Inc()
			return Response{}, err
		}
	}

	metrics.BridgeRequestsTotal.WithLabelValues(string(cmd.Action()), "ok").Inc()
	return resp, nil
}

// writeCommand 先写临时文件再 rename, EA 永远不会看到写了一半的命令
func (c *Client) writeCommand(pairs []Pair) error {
	path := filepath.Join(c.cfg.CommonDir, c.cfg.CmdFileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(EncodeKV(pairs)), commandFilePerm); err != nil {
		return fmt.Errorf("bridge: write command file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("bridge: replace command file: %w", err)
	}
	return nil
}

func (c *Client) waitResponse(ctx context.Context, id string) (map[string]string, error) {
	path := filepath.Join(c.cfg.CommonDir, c.cfg.RespPrefix+id+responseExtension)
	slog.Debug("wait bridge response", "path", path)

	deadline := time.After(c.cfg.Timeout)
	ticker := time.NewTicker(respPollInterval)
	defer ticker.Stop()

	for {
		data, err := os.ReadFile(path)
		if err == nil {
			// 消费即删除, 同一响应最多被读一次
			if rmErr := os.Remove(path); rmErr != nil {
				slog.Debug("failed to remove response file", "path", path, "error", rmErr)
			}
			fields := DecodeKV(string(data))
			slog.Debug("bridge response", "id", id, "fields", fields)
			return fields, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("bridge: read response file: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline:
			return nil, ErrTimeout
		case <-ticker.C:
		}
	}
}

func (c *Client) waitDataFile(ctx context.Context, name string) error {
	path := c.Resolve(name)
	for i := 0; i < dataPollRetries; i++ {
		if _, err := os.Stat(path); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(dataPollInterval):
		}
	}
	return fmt.Errorf("bridge: %s: %w", name, ErrMissingDataFile)
}

// newCommandID 秒级 UTC 时间戳加短随机后缀, 可排序且碰撞概率可忽略
func newCommandID() string {
	u := uuid.New()
	return time.Now().UTC().Format("20060102T150405Z_") + fmt.Sprintf("%x", u[:3])
}
