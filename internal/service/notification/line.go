package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/KNICEX/mt5-monitor/internal/metrics"
)

const lineDefaultBaseURL = "https://api.line.me"

var _ Notifier = (*LineService)(nil)

// LineService LINE Messaging API 通知
// 配置了 groupID 就往群里推送, 否则广播给所有好友
type LineService struct {
	channelAccessToken string
	groupID            string
	baseURL            string
	cli                *http.Client
}

type LineOption func(s *LineService)

func WithLineBaseURL(baseURL string) LineOption {
	return func(s *LineService) {
		s.baseURL = baseURL
	}
}

func WithLineClient(cli *http.Client) LineOption {
	return func(s *LineService) {
		s.cli = cli
	}
}

func NewLineService(channelAccessToken, groupID string, opts ...LineOption) *LineService {
	svc := &LineService{
		channelAccessToken: channelAccessToken,
		groupID:            groupID,
		baseURL:            lineDefaultBaseURL,
		cli:                &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *LineService) Name() string {
	return "line"
}

func (s *LineService) Notify(ctx context.Context, message string) error {
	if err := s.notify(ctx, message); err != nil {
		metrics.NotifyFailuresTotal.WithLabelValues(s.Name()).Inc()
		return err
	}
	return nil
}

func (s *LineService) notify(ctx context.Context, message string) error {
	if s.channelAccessToken == "" {
		return errors.New("notification: line channel access token is not configured")
	}

	messages := []map[string]string{
		{"type": "text", "text": message},
	}
	if s.groupID != "" {
		return s.post(ctx, "/v2/bot/message/push", map[string]any{
			"to":       s.groupID,
			"messages": messages,
		})
	}
	return s.post(ctx, "/v2/bot/message/broadcast", map[string]any{
		"messages": messages,
	})
}

func (s *LineService) post(ctx context.Context, path string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.channelAccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.cli.Do(req)
	if err != nil {
		return fmt.Errorf("notification: line request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("notification: line returned status %d: %s", resp.StatusCode, respBody)
	}
	return nil
}
