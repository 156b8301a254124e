package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/obsidianstack/sccrelay/internal/auth"
	"github.com/obsidianstack/sccrelay/internal/config"
	"github.com/obsidianstack/sccrelay/internal/consumer"
	"github.com/obsidianstack/sccrelay/internal/dispatch"
	"github.com/obsidianstack/sccrelay/internal/logging"
	"github.com/obsidianstack/sccrelay/internal/push"
	"github.com/obsidianstack/sccrelay/internal/relay"
)

func main() {
	configPath := flag.String("config", "", "path to config file; empty runs from defaults and environment")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// The configured logger is not available yet.
		logging.Init(os.Stdout, config.DefaultLogFormat, slog.LevelInfo)
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	logging.Init(os.Stdout, cfg.Relay.Log.Format, logging.ParseLevel(cfg.Relay.Log.Level))

	slog.Info("sccrelay starting", "config", *configPath)
	slog.Info("config loaded",
		"http_port", cfg.Relay.HTTPPort,
		"push_path", cfg.Relay.PushPath,
		"auth_mode", cfg.Relay.Auth.Mode,
		"webhooks", len(cfg.Relay.Webhooks),
		"kafka", cfg.Relay.Kafka.Enabled,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	dispatchMetrics := dispatch.NewMetrics(reg)

	opts, targets, err := relay.FromConfig(cfg.Relay, dispatchMetrics)
	if err != nil {
		slog.Error("failed to build webhook targets", "err", err)
		os.Exit(1)
	}
	rl := relay.New(opts, targets, relay.NewMetrics(reg))
	logTargets(rl)

	// Hot reload swaps card options and targets; listener settings need a restart.
	if *configPath != "" {
		go func() {
			err := config.Watch(ctx, *configPath, func(updated *config.Config) {
				opts, targets, err := relay.FromConfig(updated.Relay, dispatchMetrics)
				if err != nil {
					slog.Error("config reload rejected", "err", err)
					return
				}
				rl.Reload(opts, targets)
				slog.Info("webhooks reloaded", "webhooks", len(targets))
				logTargets(rl)
			})
			if err != nil {
				slog.Error("config watcher stopped", "err", err)
			}
		}()
	}

	if cfg.Relay.Auth.Mode == "token" && cfg.Relay.Auth.Token() == "" {
		slog.Error("push token is not set, every push request will be rejected",
			"token_env", cfg.Relay.Auth.TokenEnv)
	}

	handler := push.New(rl, push.Options{
		Path: cfg.Relay.PushPath,
		Middleware: auth.TokenMiddleware(
			cfg.Relay.Auth.Mode,
			cfg.Relay.Auth.EffectiveHeader(),
			cfg.Relay.Auth.Token(),
		),
		Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Relay.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Relay.HTTPPort, "push_path", cfg.Relay.PushPath)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server stopped", "err", err)
			cancel()
		}
	}()

	if cfg.Relay.Kafka.Enabled {
		c := consumer.New(consumer.NewReader(cfg.Relay.Kafka), rl)
		go func() {
			slog.Info("kafka consumer started",
				"topic", cfg.Relay.Kafka.Topic,
				"group_id", cfg.Relay.Kafka.GroupID,
			)
			if err := c.Run(ctx); err != nil {
				slog.Error("kafka consumer stopped", "err", err)
				cancel()
			}
		}()
	}

	<-ctx.Done()
	slog.Info("sccrelay shutting down")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 15*time.Second)
	defer stop()
	httpSrv.Shutdown(shutdownCtx) //nolint:errcheck
}

func logTargets(rl *relay.Relay) {
	for _, t := range rl.Targets() {
		slog.Info("registered webhook", "name", t.Name, "profile", t.Profile.Name)
	}
}
