package main

import (
	"TagService/config"
	"TagService/config/server"
	"TagService/internal/cache"
	"TagService/internal/handler"
	"TagService/internal/metrics"
	"TagService/internal/middleware"
	"TagService/internal/notifier"
	"TagService/internal/security"
	"TagService/internal/service"
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
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "путь до файла конфигурации")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("service_failed", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	log.Info("starting tag service", slog.String("env", cfg.Env), slog.String("addr", cfg.Server.Addr()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cacheMode, err := cache.ParseMode(cfg.Cache.Mode)
	if err != nil {
		return err
	}
	if cacheMode == cache.ModePerResource {
		log.Warn("cache_per_resource_enabled")
	}

	storage, err := server.SetupStorage(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("хранилище: %w", err)
	}
	defer storage.Close()

	responseCache, err := server.SetupCache(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("кэш: %w", err)
	}
	defer responseCache.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	serviceMetrics := metrics.New(registry)

	codec := security.NewJWTCodec(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL, cfg.JWT.Issuer)
	webhook := notifier.NewWebhook(cfg.Webhook.URL, cfg.Webhook.Timeout)
	guard := service.NewAuthGuard(codec, storage.Refresh, webhook, serviceMetrics)
	defer guard.Wait()

	authenticationService := service.NewAuthenticationService(storage.Users, storage.Refresh, codec)
	tagService := service.NewTagService(storage.Tags, cache.NewCoordinator(responseCache, cacheMode, serviceMetrics))

	cookies := middleware.Cookies{
		AccessName:  cfg.Cookies.AccessName,
		RefreshName: cfg.Cookies.RefreshName,
		Path:        cfg.Cookies.Path,
		Domain:      cfg.Cookies.Domain,
		Secure:      cfg.Cookies.Secure,
		HTTPOnly:    cfg.Cookies.HTTPOnly,
		SameSite:    middleware.ParseSameSite(cfg.Cookies.SameSite),
	}

	components := map[string]handler.Pinger{}
	if storage.Ping != nil {
		components["database"] = pingFunc(storage.Ping)
	}
	if responseCache.Ping != nil {
		components["cache"] = pingFunc(responseCache.Ping)
	}
	health := handler.NewHealthHandler(components)

	router := handler.NewRouter(
		handler.RouterConfig{
			Logger:         log,
			RequestTimeout: cfg.Server.RequestTimeout,
			Guard:          guard,
			Cookies:        cookies,
			Metrics:        promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		},
		handler.NewAuthenticationHandler(authenticationService, cookies),
		handler.NewTagHandler(tagService),
		health,
	)

	authenticationService.StartRefreshJanitor(ctx, cfg.JWT.JanitorPeriod)

	health.SetReady(true)
	defer health.SetReady(false)

	return runServer(ctx, server.SetupServer(cfg.Server, router), cfg.Server.ShutdownTimeout)
}

func runServer(ctx context.Context, httpServer *http.Server, shutdownTimeout time.Duration) error {
	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("сервер запущен", slog.String("addr", httpServer.Addr))
		serverErrors <- httpServer.ListenAndServe()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("ошибка работы сервера: %w", err)
		}
		return nil
	case sig := <-signalChannel:
		slog.Info("получен сигнал остановки работы сервера", slog.String("signal", sig.String()))
	}

	shutDownCtx, shutDownCancel := context.WithTimeout(ctx, shutdownTimeout)
	defer shutDownCancel()

	if err := httpServer.Shutdown(shutDownCtx); err != nil {
		return fmt.Errorf("ошибка при остановке сервера: %w", err)
	}

	slog.Info("сервер успешно остановлен")
	return nil
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}

	return log
}

type pingFunc func(ctx context.Context) error

func (ping pingFunc) Ping(ctx context.Context) error {
	return ping(ctx)
}
