package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/linskybing/taskflow/internal/api/handlers"
	"github.com/linskybing/taskflow/internal/metrics"
	swaggerfiles "github.com/swaggo/files"
	ginswagger "github.com/swaggo/gin-swagger"

	// registers the generated API doc with swag
	_ "github.com/linskybing/taskflow/docs"
)

// @title Taskflow API
// @version 1.0
// @description Projects, tickets, comments and users behind the kanban board.
// @BasePath /
func RegisterRoutes(r *gin.Engine, h *handlers.Handlers) {
	r.GET("/", handlers.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/swagger/*any", ginswagger.WrapHandler(swaggerfiles.Handler))
	r.GET("/ws/events", h.Events.Watch)

	api := r.Group("/api")
	ProjectRoutes(api, h.Project)
	TicketRoutes(api, h.Ticket)
	CommentRoutes(api, h.Comment)
	UserRoutes(api, h.User)
}

func ProjectRoutes(rg *gin.RouterGroup, h *handlers.ProjectHandler) {
	projects := rg.Group("/projects")
	{
		collection(projects, "GET", h.GetProjects)
		collection(projects, "POST", h.CreateProject)
		projects.GET("/:id", h.GetProjectByID)
		projects.PUT("/:id", h.UpdateProject)
		projects.DELETE("/:id", h.DeleteProject)
	}
}

func TicketRoutes(rg *gin.RouterGroup, h *handlers.TicketHandler) {
	tickets := rg.Group("/tickets")
	{
		collection(tickets, "GET", h.ListTickets)
		collection(tickets, "POST", h.CreateTicket)
		tickets.GET("/:id", h.GetTicket)
		tickets.PUT("/:id", h.UpdateTicket)
		tickets.DELETE("/:id", h.DeleteTicket)
		tickets.GET("/:id/comments", h.ListComments)
		tickets.GET("/:id/history", h.ListHistory)
	}
}

func CommentRoutes(rg *gin.RouterGroup, h *handlers.CommentHandler) {
	comments := rg.Group("/comments")
	collection(comments, "POST", h.CreateComment)
}

func UserRoutes(rg *gin.RouterGroup, h *handlers.UserHandler) {
	users := rg.Group("/users")
	{
		collection(users, "GET", h.ListUsers)
		collection(users, "POST", h.CreateUser)
		users.GET("/:id", h.GetUserByID)
		users.PUT("/:id", h.UpdateUser)
		users.PUT("/:id/avatar", h.UploadAvatar)
	}
}

// collection registers the group root both with and without a trailing slash.
func collection(g *gin.RouterGroup, method string, h gin.HandlerFunc) {
	g.Handle(method, "", h)
	g.Handle(method, "/", h)
}
