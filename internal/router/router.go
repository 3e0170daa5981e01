package router

import (
	"time"

	"github.com/SauravS-01/eNoteBook/internal/handlers"
	"github.com/SauravS-01/eNoteBook/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Deps struct {
	Auth     *handlers.AuthHandler
	Notes    *handlers.NoteHandler
	Sessions middleware.SessionResolver
	Users    middleware.UserFinder

	CookieName     string
	AllowedOrigins []string
	TemplateGlob   string
}

func NewRouter(deps Deps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Accept", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.LoadHTMLGlob(deps.TemplateGlob)

	requireAuth := middleware.RequireAuth(deps.Sessions, deps.Users, deps.CookieName)
	requireGuest := middleware.RequireGuest(deps.Sessions, deps.CookieName)

	r.GET("/healthz", handlers.HealthCheck)
	r.GET("/", requireGuest, deps.Notes.Home)
	r.GET("/dashboard", requireAuth, deps.Notes.Dashboard)

	auth := r.Group("/auth")
	{
		auth.GET("/register", requireGuest, deps.Auth.ShowRegister)
		auth.POST("/register", requireGuest, deps.Auth.Register)
		auth.GET("/login", requireGuest, deps.Auth.ShowLogin)
		auth.POST("/login", requireGuest, deps.Auth.Login)
		auth.GET("/logout", requireAuth, deps.Auth.Logout)
		auth.GET("/google", requireGuest, deps.Auth.GoogleLogin)
		auth.GET("/google/callback", requireGuest, deps.Auth.GoogleCallback)
	}

	notes := r.Group("/notes", requireAuth)
	{
		notes.GET("", deps.Notes.Index)
		notes.GET("/add", deps.Notes.ShowAdd)
		notes.POST("", deps.Notes.Create)
		notes.GET("/:id", deps.Notes.Show)
		notes.GET("/edit/:id", deps.Notes.ShowEdit)
		notes.PUT("/:id", deps.Notes.Update)
		notes.DELETE("/:id", deps.Notes.Delete)
		notes.GET("/user/:userId", deps.Notes.ByUser)
		notes.GET("/search/:query", deps.Notes.Search)
	}

	return r
}
