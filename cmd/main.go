package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/glowist/glowist-backend/internal/config"
	"github.com/glowist/glowist-backend/internal/db"
	"github.com/glowist/glowist-backend/internal/handlers"
	"github.com/glowist/glowist-backend/internal/logger"
	"github.com/glowist/glowist-backend/internal/middleware"
	"github.com/glowist/glowist-backend/internal/notify"
	"github.com/glowist/glowist-backend/internal/observability"
	"github.com/glowist/glowist-backend/internal/realtime"
	"github.com/glowist/glowist-backend/internal/realtime/bus"
	"github.com/glowist/glowist-backend/internal/repos"
	"github.com/glowist/glowist-backend/internal/server"
	"github.com/glowist/glowist-backend/internal/services"
	"github.com/glowist/glowist-backend/internal/sse"
	"github.com/glowist/glowist-backend/internal/types"
	"github.com/glowist/glowist-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	// Tracing
	shutdownOTel := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "glowist-backend",
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "dev", log),
	})
	if shutdownOTel != nil {
		defer func() { _ = shutdownOTel(context.Background()) }()
	}

	// Config
	cfg, err := config.Load(log)
	if err != nil {
		log.Error("Could not load config", "error", err)
		os.Exit(1)
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	deviceTokenRepo := repos.NewDeviceTokenRepo(thePG, log)
	companyRepo := repos.NewCompanyRepo(thePG, log)
	productRepo := repos.NewProductRepo(thePG, log)
	userProductRepo := repos.NewUserProductRepo(thePG, log)
	routineRepo := repos.NewRoutineRepo(thePG, log)
	routineLogRepo := repos.NewRoutineLogRepo(thePG, log)
	reminderSettingRepo := repos.NewReminderSettingRepo(thePG, log)

	// Realtime bus: Redis when configured, in-process otherwise.
	var eventBus bus.Bus
	if os.Getenv("REDIS_ADDR") != "" {
		eventBus, err = bus.NewRedisBus(log)
		if err != nil {
			log.Error("Could not init Redis bus", "error", err)
			os.Exit(1)
		}
	} else {
		log.Warn("REDIS_ADDR not set, using in-process event bus")
		eventBus = bus.NewLocalBus(log)
	}
	defer eventBus.Close()

	// SSE
	sseHub := sse.NewSSEHub(log)

	// Reminder delivery
	scheduler := notify.NewDailyScheduler(log, eventBus, deviceTokenRepo)
	scheduler.Start(ctx)

	// Services
	log.Info("Setting up services...")
	avatarService, err := services.NewAvatarService(log, cfg.MediaDir)
	if err != nil {
		log.Warn("Could not init AvatarService, users get no generated avatar", "error", err)
		avatarService = nil
	}
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, avatarService, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	userService := services.NewUserService(thePG, log, userRepo, deviceTokenRepo, avatarService)
	productService := services.NewProductService(thePG, log, productRepo, companyRepo)
	shelfService := services.NewShelfService(thePG, log, userProductRepo, productRepo, eventBus)
	routineService := services.NewRoutineService(thePG, log, routineRepo, eventBus)
	routineLogService := services.NewRoutineLogService(thePG, log, routineLogRepo)
	reminderService := services.NewReminderService(thePG, log, reminderSettingRepo, scheduler, eventBus, cfg.Reminders)

	// Forwarder: fan bus messages out to connected SSE clients, and let the
	// reminder service observe setting changes made on other instances.
	if err := eventBus.StartForwarder(ctx, func(m realtime.SSEMessage) {
		sseHub.Broadcast(m)
		if m.Event == realtime.SSEEventReminderSettingChanged {
			if setting := decodeReminderSetting(m.Data); setting != nil {
				reminderService.HandleRemoteChange(ctx, setting)
			}
		}
	}); err != nil {
		log.Error("Could not start bus forwarder", "error", err)
		os.Exit(1)
	}

	// Middleware + handlers
	authMiddleware := middleware.NewAuthMiddleware(log, authService)
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(productService)
	shelfHandler := handlers.NewShelfHandler(shelfService)
	routineHandler := handlers.NewRoutineHandler(routineService, routineLogService)
	reminderHandler := handlers.NewReminderHandler(reminderService)
	sseHandler := handlers.NewSSEHandler(sseHub)

	router := server.NewRouter(server.RouterConfig{
		ServiceName:     "glowist-backend",
		CORSOrigins:     cfg.CORSOrigins,
		MediaDir:        cfg.MediaDir,
		AuthMiddleware:  authMiddleware,
		AuthHandler:     authHandler,
		UserHandler:     userHandler,
		ProductHandler:  productHandler,
		ShelfHandler:    shelfHandler,
		RoutineHandler:  routineHandler,
		ReminderHandler: reminderHandler,
		SSEHandler:      sseHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server exited", "error", err)
		os.Exit(1)
	}
}

// decodeReminderSetting recovers a setting from bus message data, which is a
// typed struct in-process and a decoded JSON map after a Redis round trip.
func decodeReminderSetting(data any) *types.ReminderSetting {
	switch v := data.(type) {
	case *types.ReminderSetting:
		return v
	case types.ReminderSetting:
		return &v
	default:
		raw, err := json.Marshal(data)
		if err != nil {
			return nil
		}
		var setting types.ReminderSetting
		if err := json.Unmarshal(raw, &setting); err != nil {
			return nil
		}
		if setting.RoutineType == "" {
			return nil
		}
		return &setting
	}
}
