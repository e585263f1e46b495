package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/Esraa999/TeamManagementTask/api/handler"
)

type Handlers struct {
	Auth     *apiHandler.AuthHandler
	Task     *apiHandler.TaskHandler
	Activity *apiHandler.ActivityHandler
	User     *apiHandler.UserHandler
	Events   *apiHandler.EventsHandler
	WS       *apiHandler.WSHandler
	Health   *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)
	r.GET("/ws", handlers.WS.Serve)

	// Auth routes
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/refresh", handlers.Auth.Refresh)
	r.POST("/api/v1/auth/logout", handlers.Auth.Logout)

	// Protected routes
	r.GET("/api/v1/tasks", authMiddleware(handlers.Task.GetTasks))
	r.POST("/api/v1/tasks", authMiddleware(handlers.Task.CreateTask))
	r.GET("/api/v1/tasks/{id}", authMiddleware(handlers.Task.GetTask))
	r.DELETE("/api/v1/tasks/{id}", authMiddleware(handlers.Task.DeleteTask))
	r.PUT("/api/v1/tasks/{id}/status", authMiddleware(handlers.Task.UpdateTaskStatus))
	r.PUT("/api/v1/tasks/{id}/assign", authMiddleware(handlers.Task.AssignTask))
	r.GET("/api/v1/tasks/status/{status}", authMiddleware(handlers.Task.GetTasksByStatus))

	r.GET("/api/v1/activities", authMiddleware(handlers.Activity.GetActivities))
	r.POST("/api/v1/activities", authMiddleware(handlers.Activity.CreateActivity))
	r.GET("/api/v1/activities/{id}", authMiddleware(handlers.Activity.GetActivity))
	r.DELETE("/api/v1/activities/{id}", authMiddleware(handlers.Activity.DeleteActivity))

	r.GET("/api/v1/users", authMiddleware(handlers.User.GetUsers))
	r.POST("/api/v1/users", authMiddleware(handlers.User.CreateUser))
	r.GET("/api/v1/users/{id}", authMiddleware(handlers.User.GetUser))
	r.DELETE("/api/v1/users/{id}", authMiddleware(handlers.User.DeleteUser))
	r.GET("/api/v1/users/{id}/tasks", authMiddleware(handlers.Task.GetUserTasks))

	r.GET("/api/v1/admin/events", authMiddleware(handlers.Events.Recent))

	return r
}
