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
	"github.com/upflame/toolgate/pkg/logging"
	"github.com/upflame/toolgate/server"
)

var (
	cfgFile string
	addr    string
)

func main() {
	pflag.StringVar(&cfgFile, "config", "", "config file (default: ~/.toolgate/config.yaml)")
	pflag.StringVar(&addr, "addr", "", "HTTP listen address")
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
		addr = cfg.HTTP.Address
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	if err := server.New(exe, logger).Start(ctx, addr); err != nil && err != context.Canceled {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
