package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/upflame/toolgate/internal/seed"
	"github.com/upflame/toolgate/internal/sqlite"
	"github.com/upflame/toolgate/pkg/env"
	"github.com/upflame/toolgate/pkg/logging"
)

var (
	dbPath    string
	logLevel  string
	logFormat string
)

func main() {
	pflag.StringVar(&dbPath, "db", "toolgate.db", "path to the SQLite database")
	pflag.StringVar(&logLevel, "log-level", "info", "log level")
	pflag.StringVar(&logFormat, "log-format", "text", "log format (json or text)")
	pflag.Parse()

	_ = env.LoadFromDir(".")

	logger := logging.New(logLevel, logFormat)

	db, err := sqlite.Open(dbPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer db.Close()

	if err := seed.New(db, logger).Run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
