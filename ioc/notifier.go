package ioc

import (
	"github.com/KNICEX/mt5-monitor/internal/service/monitor"
	"github.com/KNICEX/mt5-monitor/internal/service/notification"
	"github.com/spf13/viper"
)

// InitNotifier 组装配置了的通知渠道, 一个都没配则返回 nil
func InitNotifier() monitor.Notifier {
	type Config struct {
		Slack struct {
			WebhookURL string `mapstructure:"webhook_url"`
		} `mapstructure:"slack"`
		Line struct {
			ChannelAccessToken string `mapstructure:"channel_access_token"`
			GroupID            string `mapstructure:"group_id"`
		} `mapstructure:"line"`
	}

	var cfg Config
	if err := viper.UnmarshalKey("notify", &cfg); err != nil {
		panic(err)
	}

	var notifiers []notification.Notifier
	if cfg.Slack.WebhookURL != "" {
		notifiers = append(notifiers, notification.NewSlackService(cfg.Slack.WebhookURL))
	}
	if cfg.Line.ChannelAccessToken != "" {
		notifiers = append(notifiers, notification.NewLineService(cfg.Line.ChannelAccessToken, cfg.Line.GroupID))
	}

	switch len(notifiers) {
	case 0:
		return nil
	case 1:
		return notifiers[0]
	default:
		return notification.NewMultiNotifier(notifiers...)
	}
}
