package transport

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/VitorSanchespy/sys-npj-1-sub001/internal/conflict"
	"github.com/VitorSanchespy/sys-npj-1-sub001/internal/transport/middleware"
)

func InitRoutes(
	userHandler *UserHandler,
	processHandler *ProcessHandler,
	scheduleHandler *ScheduleHandler,
	notificationHandler *NotificationHandler,
	conflictStore conflict.Store,
	scheduleLookup middleware.ScheduleLookup,
) *gin.Engine {

	router := gin.New()

	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.Timeout(30 * time.Second))

	// API routes
	api := router.Group("/api/v1")
	{
		// User routes: writes go through the anti-duplication pre-check
		usuarios := api.Group("/usuarios")
		{
			usuarios.POST("", middleware.UserConflict(conflictStore), userHandler.Register)
			usuarios.GET("", userHandler.GetAllUsers)
			usuarios.GET("/:id", userHandler.GetUser)
			usuarios.PUT("/:id", middleware.UserConflict(conflictStore), userHandler.UpdateUser)
			usuarios.DELETE("/:id", userHandler.DeleteUser)
		}

		// Process routes
		processos := api.Group("/processos")
		{
			processos.POST("", middleware.ProcessConflict(conflictStore), processHandler.CreateProcess)
			processos.GET("", processHandler.GetAllProcesses)
			processos.GET("/:id", processHandler.GetProcess)
			processos.PUT("/:id", middleware.ProcessConflict(conflictStore), processHandler.UpdateProcess)
			processos.DELETE("/:id", processHandler.DeleteProcess)
			processos.POST("/:id/movimentacoes", processHandler.AddProcessUpdate)
			processos.GET("/:id/movimentacoes", processHandler.GetProcessUpdates)
		}

		// Schedule routes
		agendamentos := api.Group("/agendamentos")
		{
			agendamentos.POST("", middleware.ScheduleConflict(conflictStore, scheduleLookup), scheduleHandler.CreateSchedule)
			agendamentos.GET("/:id", scheduleHandler.GetSchedule)
			agendamentos.PUT("/:id", middleware.ScheduleConflict(conflictStore, scheduleLookup), scheduleHandler.UpdateSchedule)
			agendamentos.DELETE("/:id", scheduleHandler.CancelSchedule)
			agendamentos.GET("/usuarios/:user_id", scheduleHandler.GetUserSchedules)
		}

		// Notification routes
		notificacoes := api.Group("/notificacoes")
		{
			notificacoes.POST("", notificationHandler.CreateNotification)
			notificacoes.GET("/:id", notificationHandler.GetNotification)
			notificacoes.GET("/:id/status", notificationHandler.GetNotificationStatus)
			notificacoes.POST("/:id/lida", notificationHandler.MarkNotificationRead)
			notificacoes.GET("/usuarios/:user_id", notificationHandler.GetUserNotifications)
		}

		// Notification preference routes
		preferencias := api.Group("/preferencias")
		{
			preferencias.GET("/usuarios/:user_id", notificationHandler.GetPreferences)
			preferencias.PUT("/usuarios/:user_id", notificationHandler.UpdatePreferences)
		}
	}

	return router
}
