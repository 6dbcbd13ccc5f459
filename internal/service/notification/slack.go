package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/KNICEX/mt5-monitor/internal/metrics"
)

const defaultHTTPTimeout = 10 * time.Second

var _ Notifier = (*SlackService)(nil)

// SlackService Incoming Webhook 通知
type SlackService struct {
	webhookURL string
	cli        *http.Client
}

type SlackOption func(s *SlackService)

func WithSlackClient(cli *http.Client) SlackOption {
	return func(s *SlackService) {
		s.cli = cli
	}
}

func NewSlackService(webhookURL string, opts ...SlackOption) *SlackService {
	svc := &SlackService{
		webhookURL: webhookURL,
		cli:        &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *SlackService) Name() string {
	return "slack"
}

func (s *SlackService) Notify(ctx context.Context, message string) error {
	if err := s.notify(ctx, message); err != nil {
		metrics.NotifyFailuresTotal.WithLabelValues(s.Name()).Inc()
		return err
	}
	return nil
}

func (s *SlackService) notify(ctx context.Context, message string) error {
	if s.webhookURL == "" {
		return errors.New("notification: slack webhook url is not configured")
	}

	payload, err := json.Marshal(map[string]string{"text": message})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.cli.Do(req)
	if err != nil {
		return fmt.Errorf("notification: slack request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("notification: slack returned status %d", resp.StatusCode)
	}
	return nil
}
