package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/autoecole-app/autoecole-api/api/swagger"
	"github.com/autoecole-app/autoecole-api/internal/handler"
	"github.com/autoecole-app/autoecole-api/internal/repository"
	"github.com/autoecole-app/autoecole-api/internal/router"
	"github.com/autoecole-app/autoecole-api/internal/service"
	"github.com/autoecole-app/autoecole-api/migrations"
	"github.com/autoecole-app/autoecole-api/pkg/cache"
	"github.com/autoecole-app/autoecole-api/pkg/config"
	"github.com/autoecole-app/autoecole-api/pkg/database"
	"github.com/autoecole-app/autoecole-api/pkg/logger"
	corsmiddleware "github.com/autoecole-app/autoecole-api/pkg/middleware/cors"
	reqidmiddleware "github.com/autoecole-app/autoecole-api/pkg/middleware/requestid"
)

// @title Auto-École API
// @version 1.0.0
// @description Backend for driving school management: scheduling, courses, tests and messaging
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(context.Background(), db, migrations.FS); err != nil {
			logr.Sugar().Fatalw("database migration failed", "error", err)
		}
	}

	cacheRepo := repository.NewCacheRepository(nil, logr)
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, continuing without cache", "error", err)
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
			defer cacheRepo.Close()
		}
	}

	validate := validator.New()

	schoolRepo := repository.NewSchoolRepository(db)
	instructorRepo := repository.NewInstructorRepository(db)
	clientRepo := repository.NewClientRepository(db)
	slotRepo := repository.NewTimeSlotRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	communicationRepo := repository.NewCommunicationRepository(db)
	testRepo := repository.NewPracticeTestRepository(db)
	diagnosticRepo := repository.NewDiagnosticRepository(db)

	metricsSvc := service.NewMetricsService()
	schoolSvc := service.NewSchoolService(schoolRepo, validate, logr)
	instructorSvc := service.NewInstructorService(instructorRepo, slotRepo, validate, logr)
	clientSvc := service.NewClientService(clientRepo, validate, logr)
	slotSvc := service.NewTimeSlotService(slotRepo, instructorRepo, cacheRepo, cfg.Scheduling.CalendarCacheTTL, metricsSvc, validate, logr)
	reservationSvc := service.NewReservationService(reservationRepo, clientRepo, slotRepo, instructorRepo, cacheRepo, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, clientRepo, instructorRepo, validate, logr)
	communicationSvc := service.NewCommunicationService(communicationRepo, clientRepo, validate, logr)
	testSvc := service.NewPracticeTestService(testRepo, clientRepo, validate, logr)
	diagnosticSvc := service.NewDiagnosticService(diagnosticRepo, testRepo, reservationRepo, clientRepo, logr)
	exportSvc := service.NewExportService(reservationRepo, instructorRepo, clientRepo, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		ctx := c.Request.Context()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		payload := gin.H{"status": "ready"}
		if version, err := database.MigrationVersion(ctx, db); err == nil {
			payload["migration_version"] = version
		}
		c.JSON(http.StatusOK, payload)
	})
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	router.Register(r, cfg.APIPrefix, router.Handlers{
		Schools:        handler.NewSchoolHandler(schoolSvc),
		Instructors:    handler.NewInstructorHandler(instructorSvc),
		Clients:        handler.NewClientHandler(clientSvc),
		TimeSlots:      handler.NewTimeSlotHandler(slotSvc, metricsSvc),
		Reservations:   handler.NewReservationHandler(reservationSvc, metricsSvc),
		Courses:        handler.NewCourseHandler(courseSvc),
		Communications: handler.NewCommunicationHandler(communicationSvc),
		PracticeTests:  handler.NewPracticeTestHandler(testSvc),
		Diagnostics:    handler.NewDiagnosticHandler(diagnosticSvc),
		Exports:        handler.NewExportHandler(exportSvc),
	}, metricsSvc)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
