package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hugecapital/auth"
	"hugecapital/config"
	"hugecapital/observability"
)

// Dependencies carries the wired services into the router. Nil handlers
// leave their routes unregistered.
type Dependencies struct {
	AuthService     *auth.Service
	AuthHandler     *AuthHandler
	LenderHandler   *LenderHandler
	DealHandler     *DealHandler
	TaskHandler     *TaskHandler
	ContentHandler  *ContentHandler
	FundingHandler  *FundingHandler
	FeedbackHandler *FeedbackHandler
	TeamHandler     *TeamHandler
}

func NewRouter(cfg config.Config, logger *zap.Logger, metrics *observability.Metrics, deps Dependencies) *gin.Engine {
	if cfg.Env == "prod" || cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(logger, metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	if deps.AuthHandler != nil && deps.AuthService != nil {
		authGroup := r.Group("/v1/auth")
		authGroup.POST("/login", deps.AuthHandler.Login)

		protected := authGroup.Group("")
		protected.Use(RequireAuth(deps.AuthService))
		protected.GET("/me", deps.AuthHandler.Me)

		admin := authGroup.Group("")
		admin.Use(RequireAuth(deps.AuthService), RequireRole(auth.RoleAdmin))
		admin.POST("/register", deps.AuthHandler.Register)

		api := r.Group("/v1")
		api.Use(RequireAuth(deps.AuthService))

		if deps.LenderHandler != nil {
			api.GET("/lenders/categories", deps.LenderHandler.Categories)
			api.GET("/lenders", deps.LenderHandler.List)
			api.GET("/lenders/stream", deps.LenderHandler.Stream)
			api.POST("/lenders/:category", deps.LenderHandler.Create)
			api.PATCH("/lenders/:id", deps.LenderHandler.Update)
			api.DELETE("/lenders/:id", deps.LenderHandler.Archive)
			api.POST("/lenders/refresh", deps.LenderHandler.Refresh)
		}
		if deps.DealHandler != nil {
			api.GET("/deals", deps.DealHandler.List)
			api.POST("/deals", deps.DealHandler.Create)
			api.POST("/deals/:id/transition", deps.DealHandler.Transition)
			api.GET("/deals/:id/timeline", deps.DealHandler.Timeline)
		}
		if deps.TaskHandler != nil {
			api.GET("/tasks", deps.TaskHandler.List)
			api.POST("/tasks", deps.TaskHandler.Create)
			api.PATCH("/tasks/:id", deps.TaskHandler.Update)
		}
		if deps.ContentHandler != nil {
			api.GET("/content", deps.ContentHandler.List)
			api.POST("/content", deps.ContentHandler.Create)
			api.POST("/content/:id/schedule", deps.ContentHandler.Schedule)
			api.POST("/content/:id/publish", deps.ContentHandler.Publish)
		}
		if deps.FundingHandler != nil {
			api.GET("/funding/recaps", deps.FundingHandler.ListRecaps)
			api.GET("/funding/current", deps.FundingHandler.CurrentWeek)
			api.POST("/funding/snapshot", deps.FundingHandler.Snapshot)
		}
		if deps.FeedbackHandler != nil {
			api.GET("/feedback", deps.FeedbackHandler.List)
			api.POST("/feedback", deps.FeedbackHandler.Create)
			api.POST("/feedback/:id/resolve", deps.FeedbackHandler.Resolve)
		}
		if deps.TeamHandler != nil {
			api.GET("/team", deps.TeamHandler.List)
			api.GET("/team/:id", deps.TeamHandler.Get)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	})

	return r
}
