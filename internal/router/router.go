package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/taskforge/backend/api/handler"
)

type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

type Handlers struct {
	Auth   *apiHandler.AuthHandler
	User   *apiHandler.UserHandler
	Task   *apiHandler.TaskHandler
	Health *apiHandler.HealthHandler
}

// New wires the route table. Protected routes pass through the session check;
// the admin route stacks the admin gate on top of it.
func New(handlers Handlers, auth Middleware, admin Middleware) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)
	r.GET("/activity", auth(admin(handlers.Health.RecentActivity)))

	// Public user routes
	r.POST("/register", handlers.User.Register)
	r.POST("/login", handlers.Auth.Login)

	// Authenticated user routes
	r.POST("/logout", auth(handlers.Auth.Logout))
	r.GET("/all", auth(admin(handlers.User.ListAll)))
	r.PUT("/update", auth(handlers.User.Update))
	r.DELETE("/delete", auth(handlers.User.Delete))

	// Task routes, all owner-scoped
	r.POST("/task", auth(handlers.Task.Create))
	r.GET("/task", auth(handlers.Task.List))
	r.GET("/task/{id}", auth(handlers.Task.Get))
	r.PUT("/task/{id}", auth(handlers.Task.Update))
	r.PATCH("/task/{id}/toggle", auth(handlers.Task.Toggle))
	r.DELETE("/task/{id}", auth(handlers.Task.Delete))

	return r
}
