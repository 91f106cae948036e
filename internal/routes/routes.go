package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"study-hub/internal/handlers"
	"study-hub/internal/middleware"
)

func SetupRoutes(r *gin.Engine, hubHandler *handlers.HubHandler, apiKey string) *gin.Engine {
	// ---- public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ---- protected
	api := r.Group("/api", middleware.RequireAPIKey(apiKey))
	api.GET("/quote", hubHandler.Quote)

	users := api.Group("/users/:user")
	{
		users.GET("/tasks", hubHandler.ListTasks)
		users.POST("/tasks", hubHandler.CreateTask)
		users.POST("/tasks/sort", hubHandler.SortTasks)
		users.POST("/tasks/clear-completed", hubHandler.ClearCompleted)
		users.POST("/tasks/:id/toggle", hubHandler.ToggleTask)
		users.DELETE("/tasks/:id", hubHandler.DeleteTask)

		users.GET("/assignments", hubHandler.ListAssignments)
		users.POST("/assignments", hubHandler.CreateAssignment)
		users.POST("/assignments/:id/toggle", hubHandler.ToggleAssignment)
		users.DELETE("/assignments/:id", hubHandler.DeleteAssignment)

		users.GET("/schedule", hubHandler.ListSchedule)
		users.POST("/schedule", hubHandler.CreateScheduleItem)
		users.POST("/schedule/:id/toggle", hubHandler.ToggleScheduleItem)
		users.DELETE("/schedule/:id", hubHandler.DeleteScheduleItem)

		users.POST("/quick", hubHandler.QuickAdd)

		users.GET("/timer", hubHandler.GetTimer)
		users.POST("/timer/mode", hubHandler.SetTimerMode)
		users.POST("/timer/:action", hubHandler.TimerAction)

		users.GET("/stats", hubHandler.GetStats)
		users.POST("/stats/reset", hubHandler.ResetStats)

		users.POST("/theme", hubHandler.ToggleTheme)
	}

	return r
}

// NewRouter builds a release-mode engine with the hub routes.
func NewRouter(hubHandler *handlers.HubHandler, apiKey string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	return SetupRoutes(r, hubHandler, apiKey)
}
