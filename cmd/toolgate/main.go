package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/upflame/toolgate/internal/app"
	"github.com/upflame/toolgate/pkg/config"
	"github.com/upflame/toolgate/pkg/env"
	"github.com/upflame/toolgate/pkg/logging"
	"github.com/upflame/toolgate/pkg/version"
	"github.com/upflame/toolgate/server"
)

var cfgFile string

func main() {
	_ = env.LoadFromDir(".")

	root := &cobra.Command{
		Use:   "toolgate",
		Short: "Command dispatch and sandboxed execution gateway",
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.toolgate/config.yaml)")

	root.AddCommand(runCmd())
	root.AddCommand(toolsCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if candidate := config.DefaultConfigPath(); fileExists(candidate) {
			path = candidate
		}
	}
	return config.LoadConfig(path)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func runCmd() *cobra.Command {
	var paramFlags []string

	cmd := &cobra.Command{
		Use:   "run <tool>",
		Short: "Invoke a tool once and print the envelope",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := logging.New(cfg.LogLevel, cfg.LogFormat)
			exe, err := app.BuildExecutor(cfg, logger)
			if err != nil {
				return err
			}

			params := map[string]interface{}{}
			for _, pair := range paramFlags {
				key, value, found := strings.Cut(pair, "=")
				if !found || key == "" {
					return fmt.Errorf("invalid --param %q, expected key=value", pair)
				}
				params[key] = value
			}

			res := exe.Execute(cmd.Context(), args[0], params)
			out, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&paramFlags, "param", nil, "tool parameter as key=value (repeatable)")
	return cmd
}

func toolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List registered tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			exe, err := app.BuildExecutor(cfg, nil)
			if err != nil {
				return err
			}
			for _, t := range exe.Registry().List() {
				gated := ""
				if t.Gated() {
					gated = " (gated)"
				}
				fmt.Printf("%-10s %s%s\n", t.Name(), t.Description(), gated)
			}
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := logging.New(cfg.LogLevel, cfg.LogFormat)
			exe, err := app.BuildExecutor(cfg, logger)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.HTTP.Address
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go func() {
				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
				<-sigCh
				cancel()
			}()

			return server.New(exe, logger).Start(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.String())
		},
	}
}
