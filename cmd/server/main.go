package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/KEIAN12/gamagori-shigikai/internal/blob"
	"github.com/KEIAN12/gamagori-shigikai/internal/config"
	"github.com/KEIAN12/gamagori-shigikai/internal/discovery"
	"github.com/KEIAN12/gamagori-shigikai/internal/gemini"
	"github.com/KEIAN12/gamagori-shigikai/internal/handler"
	"github.com/KEIAN12/gamagori-shigikai/internal/illustrate"
	"github.com/KEIAN12/gamagori-shigikai/internal/logger"
	"github.com/KEIAN12/gamagori-shigikai/internal/pipeline"
	"github.com/KEIAN12/gamagori-shigikai/internal/reference"
	"github.com/KEIAN12/gamagori-shigikai/internal/scheduler"
	"github.com/KEIAN12/gamagori-shigikai/internal/store"
	"github.com/KEIAN12/gamagori-shigikai/internal/summarize"
	"github.com/KEIAN12/gamagori-shigikai/internal/transcript"
)

func main() {
	configPath := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		configPath = v
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := gorm.Open(sqlite.Open(cfg.Database.Path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		log.Error(ctx, "Failed to open database %s: %v", cfg.Database.Path, err)
		os.Exit(1)
	}
	if err := store.Migrate(db); err != nil {
		log.Error(ctx, "Migration failed: %v", err)
		os.Exit(1)
	}
	st := store.New(db)

	ref, err := reference.Load(cfg.Reference.Path)
	if err != nil {
		log.Error(ctx, "Failed to load reference data: %v", err)
		os.Exit(1)
	}
	if cfg.Reference.Watch {
		go func() {
			if err := ref.Watch(ctx, log); err != nil && !errors.Is(err, context.Canceled) {
				log.Error(ctx, "Reference watcher exited: %v", err)
			}
		}()
	}

	// Absent credentials disable capabilities instead of failing startup.
	gem := gemini.New(cfg.Gemini.APIKeys, log)
	if gem == nil {
		log.Warn(ctx, "No Gemini API keys configured, transcription/summarization/images via Gemini disabled")
	}
	uploader, err := blob.New(ctx, cfg.Storage.Bucket)
	if err != nil {
		log.Error(ctx, "Failed to create storage uploader: %v", err)
		os.Exit(1)
	}
	if uploader == nil {
		log.Warn(ctx, "No storage bucket configured, image persistence disabled")
	}

	acquirer := transcript.New(cfg.YouTube, cfg.Gemini, gem, log)
	summarizer := summarize.New(cfg.Gemini, cfg.OpenAI, cfg.Summarize, gem, ref, log)
	illustrator := illustrate.New(cfg.Gemini, gem, uploader, log)
	discoverer := discovery.New(cfg.YouTube, st, log)
	pl := pipeline.New(st, acquirer, summarizer, illustrator, log)

	h := handler.New(st, pl, discoverer, cfg.Auth.CronSecret, log)

	var sched *scheduler.Scheduler
	if cfg.Cron.Enabled {
		sched, err = scheduler.New(cfg.Cron, st, discoverer, pl, log)
		if err != nil {
			log.Error(ctx, "Failed to create scheduler: %v", err)
			os.Exit(1)
		}
		sched.Start()
		h.SetScheduler(sched.NextRun)
		log.Info(ctx, "Scheduler started: %s", cfg.Cron.FetchInterval)
	}

	gin.SetMode(ginMode(cfg.Server.Mode))
	engine := gin.New()
	engine.Use(gin.Recovery())
	h.RegisterRoutes(engine)

	srv := &http.Server{
		Addr:    cfg.ServerAddress(),
		Handler: engine,
	}

	go func() {
		log.Info(ctx, "Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "Server failed: %v", err)
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Info(ctx, "Received signal %s, shutting down", sig)
	case <-ctx.Done():
	}

	if sched != nil {
		sched.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "Forced shutdown: %v", err)
	}
	log.Info(ctx, "Server stopped")
}

func ginMode(mode string) string {
	if mode == "debug" {
		return gin.DebugMode
	}
	return gin.ReleaseMode
}
