package ioc

import (
	"github.com/KNICEX/mt5-monitor/internal/service/marketdata"
	"github.com/KNICEX/mt5-monitor/internal/service/monitor"
	"github.com/KNICEX/mt5-monitor/pkg/decimalx"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

const (
	defaultMAShort  = 5
	defaultMAMiddle = 20
	defaultMALong   = 60
	defaultMAMethod = "SMA"
)

func InitTargets() []monitor.Target {
	type TargetConfig struct {
		Symbol         string `mapstructure:"symbol"`
		Timeframe      string `mapstructure:"timeframe"`
		SurgeThreshold string `mapstructure:"surge_threshold"`
		CrashThreshold string `mapstructure:"crash_threshold"`
		MAShort        int    `mapstructure:"ma_short"`
		MAMiddle       int    `mapstructure:"ma_middle"`
		MALong         int    `mapstructure:"ma_long"`
		MAMethod       string `mapstructure:"ma_method"`
		RSIPeriod      int    `mapstructure:"rsi_period"`
	}

	var cfgs []TargetConfig
	if err := viper.UnmarshalKey("monitor.targets", &cfgs); err != nil {
		panic(err)
	}
	if len(cfgs) == 0 {
		panic("monitor.targets is empty")
	}

	return lo.Map(cfgs, func(cfg TargetConfig, _ int) monitor.Target {
		if cfg.Symbol == "" || cfg.Timeframe == "" {
			panic("monitor target needs both symbol and timeframe")
		}
		if cfg.MAShort == 0 {
			cfg.MAShort = defaultMAShort
		}
		if cfg.MAMiddle == 0 {
			cfg.MAMiddle = defaultMAMiddle
		}
		if cfg.MALong == 0 {
			cfg.MALong = defaultMALong
		}
		if cfg.MAMethod == "" {
			cfg.MAMethod = defaultMAMethod
		}
		return monitor.Target{
			Symbol:         cfg.Symbol,
			Timeframe:      marketdata.Timeframe(cfg.Timeframe),
			SurgeThreshold: decimalx.FromStringOrZero(cfg.SurgeThreshold),
			CrashThreshold: decimalx.FromStringOrZero(cfg.CrashThreshold),
			MAShortPeriod:  cfg.MAShort,
			MAMiddlePeriod: cfg.MAMiddle,
			MALongPeriod:   cfg.MALong,
			MAMethod:       cfg.MAMethod,
			RSIPeriod:      cfg.RSIPeriod,
		}
	})
}
