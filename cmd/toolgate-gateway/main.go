package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/upflame/toolgate/internal/app"
	"github.com/upflame/toolgate/pkg/config"
	"github.com/upflame/toolgate/pkg/env"
	"github.com/upflame/toolgate/pkg/gateway"
	"github.com/upflame/toolgate/pkg/logging"
)

var (
	cfgFile     string
	addr        string
	maxSessions int
)

func main() {
	pflag.StringVar(&cfgFile, "config", "", "config file (default: ~/.toolgate/config.yaml)")
	pflag.StringVar(&addr, "addr", "", "gateway listen address")
	pflag.IntVar(&maxSessions, "max-sessions", 0, "maximum concurrent sessions (0 = unlimited)")
	pflag.Parse()

	_ = env.LoadFromDir(".")

	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	exe, err := app.BuildExecutor(cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if addr == "" {
		addr = cfg.Gateway.Address
	}
	gw := gateway.NewServer(addr, exe, gateway.AllowlistAuthorizer{Allowed: cfg.Gateway.AllowedAddrs})
	if maxSessions == 0 {
		maxSessions = cfg.Gateway.MaxSessions
	}
	if maxSessions > 0 {
		gw.SetMaxSessions(maxSessions)
	}
	gw.SetLogger(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := gw.Start(ctx); err != nil && err != context.Canceled {
			fmt.Fprintln(os.Stderr, err)
			cancel()
		}
	}()

	fmt.Printf("toolgate-gateway listening on %s\n", gw.Addr())
	waitForSignal()
	cancel()
}

func waitForSignal() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
}
