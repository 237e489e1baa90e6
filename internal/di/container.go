package di

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	feedDomain "github.com/reshetovitsme/channel-alert-monitor/internal/modules/feed/domain"
	feedService "github.com/reshetovitsme/channel-alert-monitor/internal/modules/feed/service"
	messageRepo "github.com/reshetovitsme/channel-alert-monitor/internal/modules/message/repository"
	messageService "github.com/reshetovitsme/channel-alert-monitor/internal/modules/message/service"
	monitorService "github.com/reshetovitsme/channel-alert-monitor/internal/modules/monitor/service"
	notificationDomain "github.com/reshetovitsme/channel-alert-monitor/internal/modules/notification/domain"
	notificationService "github.com/reshetovitsme/channel-alert-monitor/internal/modules/notification/service"
	"github.com/reshetovitsme/channel-alert-monitor/internal/shared/config"
	"github.com/reshetovitsme/channel-alert-monitor/internal/shared/logger"
	"github.com/reshetovitsme/channel-alert-monitor/internal/shared/metrics"
	"github.com/reshetovitsme/channel-alert-monitor/internal/shared/systemd"
	"github.com/reshetovitsme/channel-alert-monitor/internal/transport/desktop"
	"github.com/reshetovitsme/channel-alert-monitor/internal/transport/discord"
	httpServer "github.com/reshetovitsme/channel-alert-monitor/internal/transport/http"
	"github.com/reshetovitsme/channel-alert-monitor/internal/transport/ntfy"
	"github.com/reshetovitsme/channel-alert-monitor/pkg/executil"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
)

// logging pairs the process logger with the file it may be writing to.
type logging struct {
	logger *slog.Logger
	closer io.Closer
}

// Setup initializes the dependency injection container. Configuration is
// loaded eagerly so that invalid settings fail before anything starts.
func Setup(configPath string) (do.Injector, error) {
	injector := do.New()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, oops.With("context", "failed to load config").Wrap(err)
	}

	// Register Config
	do.ProvideValue(injector, cfg)

	// Register Logger
	do.Provide(injector, func(i do.Injector) (*logging, error) {
		cfg := do.MustInvoke[*config.Config](i)
		l, closer, err := logger.New(logger.Options{
			Level:  cfg.LogLevel,
			Format: cfg.LogFormat,
			File:   cfg.LogFile,
		})
		if err != nil {
			return nil, oops.With("context", "failed to create logger").Wrap(err)
		}
		slog.SetDefault(l)
		return &logging{logger: l, closer: closer}, nil
	})
	do.Provide(injector, func(i do.Injector) (*slog.Logger, error) {
		return do.MustInvoke[*logging](i).logger, nil
	})

	// Register Metrics
	do.Provide(injector, func(i do.Injector) (*prometheus.Registry, error) {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		return reg, nil
	})
	do.Provide(injector, func(i do.Injector) (*metrics.Metrics, error) {
		return metrics.New(do.MustInvoke[*prometheus.Registry](i)), nil
	})

	// Register Discord Client
	do.Provide(injector, func(i do.Injector) (*discord.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		log := do.MustInvoke[*slog.Logger](i)
		return discord.New(discord.Options{
			BaseURL:   cfg.DiscordAPIURL,
			ChannelID: cfg.DiscordChannelID,
			Token:     cfg.DiscordToken,
			Timeout:   cfg.RequestTimeoutDuration(),
		}, do.MustInvoke[*metrics.Metrics](i), log.With("component", "discord")), nil
	})

	// Register Push Client
	do.Provide(injector, func(i do.Injector) (*ntfy.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		log := do.MustInvoke[*slog.Logger](i)
		return ntfy.New(ntfy.Options{
			Server:   cfg.NtfyServer,
			Topic:    cfg.NtfyTopic,
			Title:    cfg.NtfyTitle,
			Priority: cfg.NtfyPriority,
			Timeout:  cfg.RequestTimeoutDuration(),
			Burst:    cfg.NtfyBurst,
			Refill:   cfg.NtfyRefillInterval(),
		}, log.With("component", "ntfy")), nil
	})

	// Register Desktop Notifier
	do.Provide(injector, func(i do.Injector) (desktop.Notifier, error) {
		cfg := do.MustInvoke[*config.Config](i)
		log := do.MustInvoke[*slog.Logger](i)
		return desktop.New(runtime.GOOS, &executil.RealExecutor{}, cfg.DesktopTimeoutDuration(), log.With("component", "desktop")), nil
	})

	// Register Notification Dispatcher
	do.Provide(injector, func(i do.Injector) (*notificationService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		log := do.MustInvoke[*slog.Logger](i)

		var targets []notificationService.Target
		if cfg.EnableMobileNotifications {
			targets = append(targets, notificationService.Target{
				Channel: notificationDomain.ChannelPush,
				Sender:  do.MustInvoke[*ntfy.Client](i),
			})
		}
		if cfg.EnableDesktopNotifications {
			targets = append(targets, notificationService.Target{
				Channel: notificationDomain.ChannelDesktop,
				Sender:  do.MustInvoke[desktop.Notifier](i),
			})
		}
		if len(targets) == 0 {
			log.Warn("All notification channels are disabled; new messages will only be logged")
		}

		return notificationService.New(log.With("component", "dispatcher"), do.MustInvoke[*metrics.Metrics](i), targets...), nil
	})

	// Register Message Repository
	do.Provide(injector, func(i do.Injector) (messageRepo.Repository, error) {
		return messageRepo.NewMemoryStorage(messageRepo.DefaultCapacity), nil
	})

	// Register Message Service
	do.Provide(injector, func(i do.Injector) (*messageService.Service, error) {
		repo := do.MustInvoke[messageRepo.Repository](i)
		return messageService.New(repo), nil
	})

	// Register Feed Service
	do.Provide(injector, func(i do.Injector) (*feedService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return feedService.New(feedDomain.FeedConfig{
			ChannelID: cfg.DiscordChannelID,
			GuildID:   cfg.DiscordGuildID,
			Title:     cfg.NtfyTitle,
		}, do.MustInvoke[*messageService.Service](i)), nil
	})

	// Register Service Manager Notifier
	do.Provide(injector, func(i do.Injector) (*systemd.Notifier, error) {
		return systemd.New(do.MustInvoke[*slog.Logger](i)), nil
	})

	// Register Monitor
	do.Provide(injector, func(i do.Injector) (*monitorService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		log := do.MustInvoke[*slog.Logger](i)
		return monitorService.New(
			do.MustInvoke[*discord.Client](i),
			do.MustInvoke[*notificationService.Service](i),
			monitorService.Config{
				Interval:   cfg.PollInterval(),
				AlertTitle: cfg.AlertTitle,
			},
			log.With("component", "monitor", "channel_id", cfg.DiscordChannelID),
			monitorService.WithRecorder(do.MustInvoke[*messageService.Service](i)),
			monitorService.WithLifecycle(do.MustInvoke[*systemd.Notifier](i)),
			monitorService.WithMetrics(do.MustInvoke[*metrics.Metrics](i)),
		), nil
	})

	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		log := do.MustInvoke[*slog.Logger](i)
		dispatcher := do.MustInvoke[*notificationService.Service](i)
		return httpServer.New(
			httpServer.Options{
				Port:      cfg.HTTPPort,
				ChannelID: cfg.DiscordChannelID,
				Channels:  dispatcher.Channels(),
			},
			do.MustInvoke[*feedService.Service](i),
			do.MustInvoke[*monitorService.Service](i),
			do.MustInvoke[*prometheus.Registry](i),
			log.With("component", "http"),
		), nil
	})

	return injector, nil
}

// Shutdown gracefully shuts down all services
func Shutdown(ctx context.Context, injector do.Injector) error {
	var errs []error

	// Shutdown HTTP server if one is configured; invoking it otherwise would
	// build the whole monitor graph just to stop it
	if cfg, err := do.Invoke[*config.Config](injector); err == nil && cfg.HTTPPort != "" {
		if server, err := do.Invoke[*httpServer.Server](injector); err == nil && server != nil {
			if err := server.Shutdown(ctx); err != nil {
				errs = append(errs, oops.With("context", "failed to stop http server").Wrap(err))
			}
		}
	}

	// Close log file if one was opened
	if l, err := do.Invoke[*logging](injector); err == nil && l != nil {
		if err := l.closer.Close(); err != nil {
			errs = append(errs, oops.With("context", "failed to close log file").Wrap(err))
		}
	}

	return errors.Join(errs...)
}
