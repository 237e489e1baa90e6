package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/reshetovitsme/channel-alert-monitor/internal/di"
	monitorService "github.com/reshetovitsme/channel-alert-monitor/internal/modules/monitor/service"
	notificationDomain "github.com/reshetovitsme/channel-alert-monitor/internal/modules/notification/domain"
	notificationService "github.com/reshetovitsme/channel-alert-monitor/internal/modules/notification/service"
	"github.com/reshetovitsme/channel-alert-monitor/internal/shared/config"
	httpServer "github.com/reshetovitsme/channel-alert-monitor/internal/transport/http"
	"github.com/samber/do/v2"
	"github.com/samber/lo"
	"github.com/samber/oops"
	slogmulti "github.com/samber/slog-multi"
	"github.com/urfave/cli/v3"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
)

const shutdownTimeout = 5 * time.Second

func main() {
	// Bootstrap logger until configuration selects the real one
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	jsonHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	})
	slog.SetDefault(slog.New(slogmulti.Fanout(textHandler, jsonHandler)))

	var configPath string

	app := &cli.Command{
		Name:    "channel-alert-monitor",
		Usage:   "Alert on new Discord channel messages via ntfy and desktop notifications",
		Version: fmt.Sprintf("%s (%s)", version, commit),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to a config file (yaml, json or toml)",
				Sources:     cli.EnvVars("MONITOR_CONFIG"),
				Destination: &configPath,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() > 0 {
				return fmt.Errorf("unknown command %q. Run 'channel-alert-monitor --help' for usage", c.Args().First())
			}
			return run(ctx, configPath)
		},
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Monitor the channel until interrupted (default)",
				Action: func(ctx context.Context, c *cli.Command) error {
					return run(ctx, configPath)
				},
			},
			{
				Name:  "check-config",
				Usage: "Load and validate configuration, then print it without secrets",
				Action: func(ctx context.Context, c *cli.Command) error {
					return checkConfig(c, configPath)
				},
			},
			{
				Name:  "test-notify",
				Usage: "Send one test alert through every enabled notification channel",
				Action: func(ctx context.Context, c *cli.Command) error {
					return testNotify(ctx, c, configPath)
				},
			},
		},
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := app.Run(ctx, os.Args)
	cancel()

	if err != nil {
		slog.Error("Monitor exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	injector, err := di.Setup(configPath)
	if err != nil {
		return err
	}
	defer shutdown(injector)

	cfg := do.MustInvoke[*config.Config](injector)
	logger := do.MustInvoke[*slog.Logger](injector)
	monitor := do.MustInvoke[*monitorService.Service](injector)

	logger.Info("Starting channel alert monitor", cfg.Redacted()...)

	if cfg.HTTPPort != "" {
		server := do.MustInvoke[*httpServer.Server](injector)
		go func() {
			if err := server.Start(); err != nil {
				logger.Error("Status server failed", "error", err)
			}
		}()
	}

	if err := monitor.Run(ctx); err != nil {
		return oops.With("context", "monitor stopped").Wrap(err)
	}
	return nil
}

func checkConfig(c *cli.Command, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	w := c.Root().Writer
	fmt.Fprintln(w, "configuration is valid")
	pairs := cfg.Redacted()
	for i := 0; i+1 < len(pairs); i += 2 {
		fmt.Fprintf(w, "  %-22s %v\n", pairs[i], pairs[i+1])
	}
	return nil
}

func testNotify(ctx context.Context, c *cli.Command, configPath string) error {
	injector, err := di.Setup(configPath)
	if err != nil {
		return err
	}
	defer shutdown(injector)

	cfg := do.MustInvoke[*config.Config](injector)
	dispatcher := do.MustInvoke[*notificationService.Service](injector)

	results := dispatcher.Dispatch(ctx, cfg.AlertTitle, "channel-alert-monitor: test notification")

	w := c.Root().Writer
	if len(results) == 0 {
		fmt.Fprintln(w, "no notification channels are enabled")
		return nil
	}
	for _, r := range results {
		status := "ok"
		if !r.Success {
			status = "failed: " + r.Error
		}
		fmt.Fprintf(w, "  %-8s %s\n", r.Channel, status)
	}

	failed := lo.CountBy(results, func(r notificationDomain.Result) bool { return !r.Success })
	if failed > 0 {
		return oops.With("failed", failed).Errorf("%d of %d notification channels failed", failed, len(results))
	}
	return nil
}

func shutdown(injector do.Injector) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := di.Shutdown(ctx, injector); err != nil {
		slog.Error("Error during shutdown", "error", err)
	}
}
