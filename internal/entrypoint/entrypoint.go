package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/music-library/internal/audit"
	"github.com/mrlokans/music-library/internal/catalog"
	"github.com/mrlokans/music-library/internal/config"
	"github.com/mrlokans/music-library/internal/database"
	auditdb "github.com/mrlokans/music-library/internal/database/audit"
	"github.com/mrlokans/music-library/internal/database/music"
	http_controllers "github.com/mrlokans/music-library/internal/http"
	"github.com/mrlokans/music-library/internal/scheduler"
	"github.com/mrlokans/music-library/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d (API prefix %q)", cfg.HTTP.Host, cfg.HTTP.Port, cfg.HTTP.APIPrefix)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 sends SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	// Background work stops after the last request has been served.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Music Library v%s", version)

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	repo := music.NewRepository(db.DB)
	service := catalog.NewService(repo, catalog.Options{
		MaxConcurrency: cfg.Catalog.MaxConcurrency,
		Transactional:  cfg.Catalog.TransactionalWrites,
	})
	if service.Transactional() {
		log.Printf("Catalog writes are transactional")
	}

	auditService := audit.NewService(auditdb.NewRepository(db.DB))
	defer auditService.Flush()

	routerCfg := http_controllers.RouterConfig{
		Catalog:            service,
		Database:           db,
		APIPrefix:          cfg.HTTP.APIPrefix,
		RateLimitRPS:       cfg.RateLimit.RequestsPerSecond,
		RateLimitBurst:     cfg.RateLimit.Burst,
		AuditRetentionDays: cfg.Audit.RetentionDays,
		Version:            version,
	}
	if cfg.Audit.Enabled {
		routerCfg.Auditor = auditService
		routerCfg.AuditReader = auditService
	} else {
		log.Printf("Audit trail disabled")
	}

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var maintenance *scheduler.MaintenanceScheduler
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Tasks.DatabasePath, tasks.FromAppConfig(cfg.Tasks))
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		tasks.RegisterMaintenance(taskClient, tasks.Dependencies{
			AuditCleaner: auditService,
			Duplicates:   repo,
			Orphans:      repo,
			Recorder:     auditService,
		})

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
		routerCfg.TaskQueue = taskClient

		if cfg.Maintenance.Enabled {
			maintenance = scheduler.NewMaintenanceScheduler(taskClient, cfg.Maintenance.Schedule, cfg.Audit.RetentionDays)
			if err := maintenance.Start(taskCtx); err != nil {
				log.Printf("WARNING: Maintenance scheduler not started: %v", err)
				maintenance = nil
			}
		}
	} else if cfg.Maintenance.Enabled {
		log.Printf("Maintenance scheduler needs the task queue, set TASKS_ENABLED=true")
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if maintenance != nil {
			maintenance.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
