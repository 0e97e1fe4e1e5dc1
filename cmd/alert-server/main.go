package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/skarki/go-nepal-alerts/internal/api"
	"github.com/skarki/go-nepal-alerts/internal/config"
	"github.com/skarki/go-nepal-alerts/internal/feeds"
	"github.com/skarki/go-nepal-alerts/internal/geocode"
	"github.com/skarki/go-nepal-alerts/internal/logging"
	"github.com/skarki/go-nepal-alerts/internal/notify"
	"github.com/skarki/go-nepal-alerts/internal/scheduler"
	"github.com/skarki/go-nepal-alerts/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	kv, err := store.NewSQLiteKV(cfg.DB.Path)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer kv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cache := geocode.NewCache(kv)
	cache.Load(ctx)
	geocoder := geocode.NewGeocoder(cfg.Geocode.Endpoint, cfg.Geocode.UserAgent, cache)

	broadcaster := notify.NewBroadcaster()

	sched := scheduler.New(scheduler.Options{
		Interval:    cfg.Sources.PollInterval,
		Workers:     cfg.Worker.Count,
		BufferSize:  cfg.Worker.BufferSize,
		Fetchers:    buildFetchers(cfg),
		Geocoder:    geocoder,
		Notifier:    notify.LogNotifier{},
		Broadcaster: broadcaster,
	})
	sched.Start(ctx)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false, // Set to false when using wildcard origins
	}))
	router.Use(api.RateLimitMiddleware(5)) // 5 req/s global limit

	handler := api.NewHandler(sched, sched, broadcaster)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	cancel()
	sched.Stop()
	broadcaster.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}

// buildFetchers assembles the enabled feed sources in their fixed priority
// order. The aggregator concatenates results in this order.
func buildFetchers(cfg *config.Config) []feeds.Fetcher {
	var fetchers []feeds.Fetcher
	if cfg.Sources.GDACSEnabled {
		fetchers = append(fetchers, &feeds.GDACS{URL: cfg.Sources.GDACSURL})
	}
	if cfg.Sources.ReliefWebEnabled {
		fetchers = append(fetchers, &feeds.ReliefWeb{
			URL:     cfg.Sources.ReliefWebURL,
			AppName: cfg.Sources.ReliefWebAppName,
		})
	}
	if cfg.Sources.BIPADEnabled {
		fetchers = append(fetchers, &feeds.BIPAD{URL: cfg.Sources.BIPADURL})
	}
	if cfg.Sources.DHMEnabled {
		fetchers = append(fetchers, &feeds.DHM{URL: cfg.Sources.DHMURL})
	}
	return fetchers
}
