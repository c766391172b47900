package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/glowist/glowist-backend/internal/handlers"
	"github.com/glowist/glowist-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName string
	CORSOrigins []string
	MediaDir    string

	AuthMiddleware  *middleware.AuthMiddleware
	AuthHandler     *handlers.AuthHandler
	UserHandler     *handlers.UserHandler
	ProductHandler  *handlers.ProductHandler
	ShelfHandler    *handlers.ShelfHandler
	RoutineHandler  *handlers.RoutineHandler
	ReminderHandler *handlers.ReminderHandler
	SSEHandler      *handlers.SSEHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware(cfg.ServiceName))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)
	router.POST("/refresh", cfg.AuthHandler.Refresh)
	router.Static("/media", cfg.MediaDir)

	// Protected
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	protected.POST("/logout", cfg.AuthHandler.Logout)
	protected.GET("/user", cfg.UserHandler.GetMe)
	protected.POST("/user/avatar", cfg.UserHandler.UploadAvatar)
	protected.POST("/user/devices", cfg.UserHandler.RegisterDevice)
	protected.DELETE("/user/devices/:id", cfg.UserHandler.RemoveDevice)
	protected.GET("/sse/stream", cfg.SSEHandler.Stream)

	api := protected.Group("/api")
	{
		api.GET("/products", cfg.ProductHandler.List)
		api.GET("/products/:id", cfg.ProductHandler.Get)
		api.POST("/products", cfg.ProductHandler.Create)
		api.GET("/companies", cfg.ProductHandler.Companies)

		api.GET("/shelf", cfg.ShelfHandler.List)
		api.POST("/shelf", cfg.ShelfHandler.Add)
		api.PATCH("/shelf/:id", cfg.ShelfHandler.Update)
		api.DELETE("/shelf/:id", cfg.ShelfHandler.Remove)

		// Type-based get-or-create lives under a distinct prefix so its
		// wildcard cannot collide with the id-based routine routes.
		api.GET("/routine/:type", cfg.RoutineHandler.GetRoutine)
		api.POST("/routines/:id/steps", cfg.RoutineHandler.AddStep)
		api.PATCH("/routines/:id/steps/:stepId", cfg.RoutineHandler.UpdateStep)
		api.DELETE("/routines/:id/steps/:stepId", cfg.RoutineHandler.RemoveStep)
		api.PUT("/routines/:id/steps/order", cfg.RoutineHandler.ReorderSteps)
		api.GET("/routines/:id/log", cfg.RoutineHandler.GetLog)
		api.PUT("/routines/:id/log", cfg.RoutineHandler.SetLog)

		api.GET("/reminders", cfg.ReminderHandler.GetAll)
		api.PUT("/reminders/:type", cfg.ReminderHandler.Set)
		api.POST("/reminders/:type/adjust", cfg.ReminderHandler.Adjust)
		// Distinct prefix, same reason as /routine/:type above.
		api.POST("/sync/reminders", cfg.ReminderHandler.Sync)
	}

	return router
}
