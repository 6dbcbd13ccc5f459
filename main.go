package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/KNICEX/mt5-monitor/internal/metrics"
	"github.com/KNICEX/mt5-monitor/internal/repo"
	"github.com/KNICEX/mt5-monitor/internal/schedule"
	"github.com/KNICEX/mt5-monitor/internal/service/detect"
	"github.com/KNICEX/mt5-monitor/internal/service/marketdata"
	"github.com/KNICEX/mt5-monitor/internal/service/monitor"
	"github.com/KNICEX/mt5-monitor/ioc"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func initViper() {

	// --config=./config/xxx.yaml
	file := pflag.String("config", "./config/config.dev.yaml", "specify config file")
	pflag.Parse()

	viper.SetConfigFile(*file)
	err := viper.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("fatal error config file: %s \n", err))
	}

}

func main() {
	initViper()

	db := ioc.InitDB()
	if err := repo.InitTables(db); err != nil {
		panic(err)
	}
	eventRepo := repo.NewEventRepo(db)

	bridgeCli := ioc.InitBridgeClient()
	barSvc := marketdata.NewBarService(bridgeCli)
	detector := detect.NewDetector(detect.NewState())

	opts := []monitor.Option{
		monitor.WithFailureNotices(),
	}
	if notifier := ioc.InitNotifier(); notifier != nil {
		opts = append(opts, monitor.WithNotifier(notifier))
	}
	if count := viper.GetInt("monitor.chart_count"); count > 0 {
		opts = append(opts, monitor.WithChartCount(count))
	}

	crossMonitor := monitor.NewCrossMonitor(barSvc, detector, eventRepo, opts...)
	task := monitor.NewMonitorTask(crossMonitor, ioc.InitTargets())

	if addr := viper.GetString("metrics.addr"); addr != "" {
		metrics.Serve(addr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := schedule.NewRunner(task, viper.GetDuration("monitor.poll_interval"))
	if err := runner.Run(ctx); err != nil {
		panic(err)
	}
	slog.Info("monitor stopped")
}
