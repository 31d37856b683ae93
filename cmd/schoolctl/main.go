// Command schoolctl runs maintenance tasks against the school website data.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/sekolah-web/core/internal/app"
	"github.com/sekolah-web/core/internal/config"
	"github.com/sekolah-web/core/internal/pkg/logx"
	"github.com/sekolah-web/core/internal/pkg/requestctx"
)

const usage = `usage: schoolctl [-config path] [-env-file path] [-auto-migrate] <command> [flags]

commands:
  migrate                                  create or update the database tables
  regenerate-conversions [-collection c]   rebuild image variants missing from assets
  clear-settings-cache                     drop every cached setting
  purge-trash -kind k -older-than d        permanently delete old trashed rows
  resolve -kind k -slug s [-size z]        print the image URLs of a record
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	global := flag.NewFlagSet("schoolctl", flag.ContinueOnError)
	global.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	configPath := global.String("config", config.DefaultConfigPath, "Path to YAML config file")
	envFile := global.String("env-file", config.DefaultEnvFile, "Path to .env file")
	autoMigrate := global.Bool("auto-migrate", false, "Run AutoMigrate over every model before the command")
	if err := global.Parse(args); err != nil {
		return 2
	}
	rest := global.Args()
	if len(rest) == 0 {
		global.Usage()
		return 2
	}
	name, cmdArgs := rest[0], rest[1:]

	if err := config.LoadEnvFile(*envFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logger, err := logx.New(logx.Options{Dir: cfg.Paths.Logs, Level: cfg.LogLevel})
	if err != nil {
		logger, _ = zap.NewProduction()
		logger.Warn("log directory unavailable, logging to stdout only", zap.Error(err))
	}
	defer logger.Sync()

	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", name, usage)
		return 2
	}

	application, err := app.New(logger, cfg, app.Options{AutoMigrate: *autoMigrate || name == "migrate"})
	if err != nil {
		logger.Error("failed to initialize app", zap.Error(err))
		return 1
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = requestctx.System(ctx, "schoolctl")

	if err := cmd(ctx, application, cmdArgs); err != nil {
		logger.Error("command failed", zap.String("command", name), zap.Error(err))
		return 1
	}
	return 0
}

type command func(ctx context.Context, a *app.App, args []string) error

var commands = map[string]command{
	"migrate":                func(context.Context, *app.App, []string) error { return nil },
	"regenerate-conversions": regenerateConversions,
	"clear-settings-cache":   clearSettingsCache,
	"purge-trash":            purgeTrash,
	"resolve":                resolve,
}

func kindList[K ~string](kinds []K) string {
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return strings.Join(out, ", ")
}
