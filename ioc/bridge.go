package ioc

import (
	"github.com/KNICEX/mt5-monitor/internal/service/bridge"
	"github.com/spf13/viper"
)

func InitBridgeClient() *bridge.Client {
	var cfg bridge.Config
	if err := viper.UnmarshalKey("bridge", &cfg); err != nil {
		panic(err)
	}
	if cfg.CommonDir == "" {
		panic("bridge.common_dir is not set")
	}
	if cfg.CmdFileName == "" {
		cfg.CmdFileName = "mt5_cmd.txt"
	}
	if cfg.RespPrefix == "" {
		cfg.RespPrefix = "mt5_resp_"
	}
	return bridge.NewClient(cfg)
}
