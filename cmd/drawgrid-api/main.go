package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Application
	applicationPort "github.com/artcollab/drawgrid/internal/application/port"
	"github.com/artcollab/drawgrid/internal/application/usecase"

	// Domain
	"github.com/artcollab/drawgrid/internal/domain/service"

	// Infrastructure
	redisCache "github.com/artcollab/drawgrid/internal/infrastructure/cache/redis"
	"github.com/artcollab/drawgrid/internal/infrastructure/imagefetch"
	natsInfra "github.com/artcollab/drawgrid/internal/infrastructure/messaging/nats"
	"github.com/artcollab/drawgrid/internal/infrastructure/observability/cloudwatch"
	dynamodbRepo "github.com/artcollab/drawgrid/internal/infrastructure/persistence/dynamodb"
	"github.com/artcollab/drawgrid/internal/infrastructure/persistence/postgres"
	"github.com/artcollab/drawgrid/internal/infrastructure/rendering"
	s3storage "github.com/artcollab/drawgrid/internal/infrastructure/storage/s3"

	// Interfaces
	httpInterface "github.com/artcollab/drawgrid/internal/interfaces/http"
	"github.com/artcollab/drawgrid/internal/interfaces/http/handler"

	// Shared
	"github.com/artcollab/drawgrid/pkg/config"
	"github.com/artcollab/drawgrid/pkg/logger"

	_ "github.com/lib/pq"
)

func main() {
	// 1. Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Инициализируем logger
	log := logger.New(os.Getenv("LOG_LEVEL"))
	log.Info("Starting Drawing Board API", "slot_count", cfg.Board.SlotCount)

	// 3. Подключаемся к БД
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Error("Failed to connect to database", err)
		os.Exit(1)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	// Проверяем подключение
	if err := db.Ping(); err != nil {
		log.Error("Failed to ping database", err)
		os.Exit(1)
	}
	log.Info("Database connected successfully")

	if err := postgres.EnsureSchema(context.Background(), db); err != nil {
		log.Error("Failed to ensure database schema", err)
		os.Exit(1)
	}

	// 4. Dependency Injection - Infrastructure Layer

	// Repositories
	slotRepository := postgres.NewPostgresSlotRepository(db)
	themeRepository := postgres.NewPostgresThemeRepository(db, cfg.Board.DefaultTheme, cfg.Board.DefaultSubtitle)

	// Object storage (обязательный: без него загрузки невозможны)
	imageStorage, err := s3storage.NewImageStorage(context.Background(), s3storage.Config{
		Bucket:          cfg.S3.Bucket,
		Region:          cfg.S3.Region,
		Endpoint:        cfg.S3.Endpoint,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
		UsePathStyle:    cfg.S3.UsePathStyle,
		URLMode:         s3storage.URLMode(cfg.S3.URLMode),
		PresignedTTL:    cfg.S3.PresignedTTL,
	})
	if err != nil {
		log.Error("Failed to initialize image storage", err)
		os.Exit(1)
	}
	log.Info("Image storage initialized", "bucket", cfg.S3.Bucket)

	// 5. Dependency Injection - Domain Layer

	gridComposer := service.NewGridComposer(cfg.Board.SlotCount)

	// 5.5. CloudWatch Integration
	var metricsPublisher applicationPort.MetricsPublisher
	var counterPublisher *cloudwatch.CounterPublisher
	if cfg.CloudWatch.MetricsEnabled {
		publisherImpl, initErr := cloudwatch.NewCounterPublisher(context.Background(), cloudwatch.Config{
			Namespace:       cfg.CloudWatch.MetricsNamespace,
			Region:          cfg.CloudWatch.Region,
			Endpoint:        cfg.CloudWatch.Endpoint,
			AccessKeyID:     cfg.CloudWatch.AccessKeyID,
			SecretAccessKey: cfg.CloudWatch.SecretAccessKey,
			BufferSize:      cfg.CloudWatch.MetricsBufferSize,
			FlushInterval:   cfg.CloudWatch.MetricsFlush,
		})
		if initErr != nil {
			log.Error("Failed to initialize CloudWatch metrics publisher", initErr)
			os.Exit(1)
		}
		metricsPublisher = publisherImpl
		counterPublisher = publisherImpl
		log.Info("CloudWatch metrics publisher initialized")
	} else {
		log.Warn("CloudWatch metrics publishing is disabled")
	}

	// 5.6. NATS Event Publisher
	var eventPublisher applicationPort.EventPublisher
	if cfg.NATS.Enabled {
		publisherImpl, initErr := natsInfra.NewNATSPublisher(cfg.NATS.URL, log)
		if initErr != nil {
			log.Warn("Failed to connect to NATS, continuing without event publishing", "error", initErr.Error())
		} else {
			eventPublisher = publisherImpl
			defer eventPublisher.Close()
			log.Info("NATS event publisher initialized", "url", cfg.NATS.URL)
		}
	} else {
		log.Warn("NATS event publishing is disabled")
	}

	// 5.7. Журнал осиротевших загрузок (DynamoDB)
	var orphanLedger applicationPort.OrphanLedger
	if cfg.Dynamo.Enabled {
		ledgerImpl, initErr := dynamodbRepo.NewOrphanLedger(context.Background(), dynamodbRepo.Config{
			TableName:       cfg.Dynamo.TableOrphans,
			Region:          cfg.Dynamo.Region,
			Endpoint:        cfg.Dynamo.Endpoint,
			AccessKeyID:     cfg.Dynamo.AccessKeyID,
			SecretAccessKey: cfg.Dynamo.SecretAccessKey,
		})
		if initErr != nil {
			log.Error("Failed to initialize orphan ledger", initErr)
			os.Exit(1)
		}
		orphanLedger = ledgerImpl
		log.Info("Orphan upload ledger initialized", "table", cfg.Dynamo.TableOrphans)
	} else {
		log.Warn("DynamoDB orphan ledger is disabled, failed cleanups will only be logged")
	}

	// 5.8. Лимит загрузок (Redis)
	var uploadLimiter handler.UploadLimiter
	if cfg.Redis.Enabled {
		limiterImpl, initErr := redisCache.NewFixedWindowLimiter(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Upload.RateLimitPerMinute,
			time.Minute,
		)
		if initErr != nil {
			log.Warn("Failed to connect to Redis, uploads will not be rate limited", "error", initErr.Error())
		} else {
			uploadLimiter = limiterImpl
			defer limiterImpl.Close()
			log.Info("Upload rate limiter initialized", "per_minute", cfg.Upload.RateLimitPerMinute)
		}
	} else {
		log.Warn("Redis upload rate limiting is disabled")
	}

	// 6. Dependency Injection - Application Layer (Use Cases)

	submitArtworkUC := usecase.NewSubmitArtworkUseCase(
		slotRepository,
		imageStorage,
		orphanLedger,     // Can be nil if DynamoDB disabled
		eventPublisher,   // Can be nil if NATS disabled
		metricsPublisher, // Can be nil if CloudWatch disabled
		usecase.SubmitArtworkConfig{
			SlotCount:          cfg.Board.SlotCount,
			KeyPrefix:          cfg.S3.KeyPrefix,
			MaxArtistNameRunes: cfg.Upload.MaxArtistNameRunes,
		},
		log,
	)

	getGridUC := usecase.NewGetGridUseCase(
		slotRepository,
		themeRepository,
		gridComposer,
		log,
	)

	resetBoardUC := usecase.NewResetBoardUseCase(
		slotRepository,
		eventPublisher,
		metricsPublisher,
		log,
	)

	updateThemeUC := usecase.NewUpdateThemeUseCase(themeRepository, log)

	imageFetcher := imagefetch.NewHTTPFetcher(cfg.Export.FetchTimeout, cfg.Export.MaxTileBytes)
	gridRenderer := rendering.NewGridRenderer(rendering.Config{
		TileSize: cfg.Export.TileSize,
		Columns:  cfg.Export.Columns,
	})

	exportGridUC := usecase.NewExportGridUseCase(
		slotRepository,
		themeRepository,
		gridComposer,
		imageFetcher,
		gridRenderer,
		metricsPublisher,
		log,
	)

	sweepOrphansUC := usecase.NewSweepOrphansUseCase(
		orphanLedger,
		imageStorage,
		metricsPublisher,
		cfg.Dynamo.SweepGrace,
		log,
	)

	// 7. Dependency Injection - Interfaces Layer (HTTP Handlers)

	gridAPIHandler := handler.NewGridAPIHandler(getGridUC, log)
	uploadAPIHandler := handler.NewUploadAPIHandler(submitArtworkUC, uploadLimiter, cfg.Upload.MaxImageBytes, log)
	adminAPIHandler := handler.NewAdminAPIHandler(resetBoardUC, updateThemeUC, cfg.Security.ResetPassword, log)
	exportAPIHandler := handler.NewExportAPIHandler(exportGridUC, log)

	// Router
	router := httpInterface.NewRouter(
		gridAPIHandler,
		uploadAPIHandler,
		adminAPIHandler,
		exportAPIHandler,
		cfg.Security,
		log,
	)

	// 8. Запускаем фоновые процессы

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Уборщик осиротевших загрузок
	if orphanLedger != nil {
		go func() {
			ticker := time.NewTicker(cfg.Dynamo.SweepInterval)
			defer ticker.Stop()

			log.Info("Orphan sweeper started",
				"interval", cfg.Dynamo.SweepInterval.String(),
				"grace", cfg.Dynamo.SweepGrace.String())

			for {
				select {
				case <-ticker.C:
					result, sweepErr := sweepOrphansUC.Execute(ctx)
					if sweepErr != nil {
						log.Error("Orphan sweep failed", sweepErr)
						continue
					}
					if result.Deleted > 0 || result.Failed > 0 {
						log.Info("Orphan sweep finished",
							"deleted", result.Deleted,
							"failed", result.Failed)
					}
				case <-ctx.Done():
					log.Info("Orphan sweeper stopped")
					return
				}
			}
		}()
	}

	// 9. Настраиваем HTTP сервер

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Канал для получения сигналов ОС
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Запускаем сервер в отдельной goroutine
	go func() {
		log.Info("HTTP server starting", "port", cfg.Server.Port)
		log.Info("Board available at http://localhost:" + cfg.Server.Port)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", err)
			os.Exit(1)
		}
	}()

	// 10. Ожидаем сигнал для graceful shutdown

	<-sigChan
	log.Info("Shutdown signal received, starting graceful shutdown...")

	// Останавливаем фоновые процессы
	cancel()

	// Даем время на завершение текущих операций
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Flush CloudWatch buffers before shutdown
	if counterPublisher != nil {
		log.Info("Flushing CloudWatch metrics buffer...")
		if err := counterPublisher.Close(shutdownCtx); err != nil {
			log.Error("Failed to flush CloudWatch metrics", err)
		}
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", err)
	}

	log.Info("Server stopped gracefully")
}
