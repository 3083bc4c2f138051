package main

import (
	"context"
	"log"
	"time"

	"training-center-api/config"
	"training-center-api/handlers"
	"training-center-api/middleware"
	"training-center-api/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	log.Println("Start service")
	// Загружаем .env файл (игнорируем ошибку для продакшн)
	_ = godotenv.Load()

	// Загружаем конфигурацию
	cfg := config.Load()

	log.Println("init services")
	// Инициализируем сервисы
	backend := services.NewBackendClient(cfg)
	normalizer := services.NewNormalizer()
	cacheService := services.NewCacheService(cfg.CacheTTL, 2*cfg.CacheTTL, cfg.WatchTTL)
	dashboard := services.NewDashboardService(backend, normalizer, cacheService, cfg)
	reportService := services.NewReportService()

	var store handlers.ReportStorage
	if cfg.MinIOEnabled {
		reportStore, err := services.NewReportStore(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize MinIO report store: %v", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := reportStore.EnsureBucket(ctx); err != nil {
			log.Printf("MinIO bucket check failed, reports will be streamed: %v", err)
		} else {
			store = reportStore
		}
		cancel()
	}

	refresher, err := dashboard.StartScheduler(cfg.RefreshSpec, cfg.BackendTimeout*2)
	if err != nil {
		log.Fatalf("Failed to start refresher: %v", err)
	}
	defer refresher.Stop()

	log.Println("init handlers")
	// Инициализируем handlers
	dashboardHandler := handlers.NewDashboardHandler(dashboard)
	scheduleHandler := handlers.NewScheduleHandler(backend, dashboard, normalizer, cacheService)
	attendanceHandler := handlers.NewAttendanceHandler(backend, dashboard, cacheService)
	participantHandler := handlers.NewParticipantHandler(backend)
	reportHandler := handlers.NewReportHandler(dashboard, reportService, store)
	importHandler := handlers.NewImportHandler(backend, normalizer, cacheService, store)

	// Настраиваем Gin
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Println("init router")
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(gin.Recovery())

	api := router.Group("/api/v1")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status": "ok",
				"time":   time.Now(),
			})
		})

		secured := api.Group("")
		secured.Use(middleware.BearerToken())

		// Dashboard
		secured.GET("/dashboard", dashboardHandler.GetDashboard)
		secured.GET("/dashboard/today", dashboardHandler.GetToday)
		secured.GET("/dashboard/upcoming", dashboardHandler.GetUpcoming)
		secured.GET("/dashboard/week", dashboardHandler.GetWeek)
		secured.POST("/dashboard/refresh", dashboardHandler.Refresh)
		secured.GET("/occurrences", dashboardHandler.GetOccurrences)

		// Schedules
		secured.GET("/schedules", scheduleHandler.GetSchedules)
		secured.POST("/schedules", scheduleHandler.CreateSchedule)
		secured.POST("/schedules/import", importHandler.ImportSchedules)
		secured.GET("/schedules/:id", scheduleHandler.GetSchedule)
		secured.PUT("/schedules/:id", scheduleHandler.UpdateSchedule)
		secured.DELETE("/schedules/:id", scheduleHandler.DeleteSchedule)

		// Programs & participants
		secured.GET("/programs", participantHandler.GetPrograms)
		secured.GET("/participants", participantHandler.GetParticipants)
		secured.GET("/participants/:id/measurements", participantHandler.GetMeasurements)
		secured.POST("/measurements/bmi", participantHandler.ComputeBMI)

		// Attendance
		secured.GET("/attendance/history", attendanceHandler.GetHistory)
		secured.POST("/attendance", attendanceHandler.RecordAttendance)
		secured.GET("/sessions/:scheduleId/:date", attendanceHandler.GetSession)

		// Reports
		secured.POST("/reports/attendance", reportHandler.AttendanceReport)
		secured.POST("/reports/week", reportHandler.WeekReport)

		// Cache management
		secured.POST("/cache/invalidate", scheduleHandler.InvalidateCache)
	}

	// Запускаем сервер
	log.Printf("Starting server on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
