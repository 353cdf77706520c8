package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/studyroom/lesson-server/internal/controller"
	"github.com/studyroom/lesson-server/internal/player"
	"github.com/studyroom/lesson-server/internal/repository/catalog/redis"
	"github.com/studyroom/lesson-server/internal/repository/connection/inmemory"
	"github.com/studyroom/lesson-server/internal/service/lesson"
	"github.com/studyroom/lesson-server/pkg/ctxlogger"
	"github.com/studyroom/lesson-server/pkg/redisclient"
)

type AppConfig struct {
	Secret           string `json:"-"`
	Host             string `json:"host"`
	Port             int    `json:"port"`
	LogLevel         string `json:"log_level"`
	RedisPort        int    `json:"redis_port"`
	RedisHost        string `json:"redis_host"`
	RedisPassword    string `json:"-"`
	StreamBaseURL    string `json:"stream_base_url"`
	SyncIntervalSec  int    `json:"sync_interval_sec"`
	MinReportPercent int    `json:"min_report_percent"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.Secret == "" {
		return fmt.Errorf("secret must not be empty")
	}
	if cfg.SyncIntervalSec < 1 {
		return fmt.Errorf("sync interval must be greater than 0")
	}
	// the player treats a non-positive threshold as unset, so 0 would
	// silently become the default
	if cfg.MinReportPercent < 1 || cfg.MinReportPercent > 100 {
		return fmt.Errorf("min report percent must be between 1 and 100")
	}
	return nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		log.Fatal(err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}

	logger := slog.New(&h)

	rc, err := redisclient.NewRedisClient(&redisclient.Config{
		Port:     cfg.RedisPort,
		Host:     cfg.RedisHost,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer rc.Close()

	catalogRepo := redis.NewRepo(rc, 24*14*time.Hour)
	connectionRepo := inmemory.NewRepo()
	lessonService := lesson.NewService(catalogRepo, &lesson.Config{
		Secret:        cfg.Secret,
		StreamBaseURL: cfg.StreamBaseURL,
	})
	playerCfg := player.Config{
		SyncInterval:     time.Duration(cfg.SyncIntervalSec) * time.Second,
		MinReportPercent: cfg.MinReportPercent,
	}
	controller := controller.NewController(lessonService, connectionRepo, playerCfg, logger)
	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: controller.GetMux()}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	slog.InfoContext(serverCtx, "starting server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-serverCtx.Done()

	return nil
}
