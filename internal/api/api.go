package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"fresh/internal/auth"
	"fresh/internal/database"
	"fresh/internal/metrics"
	"fresh/internal/monitoring"
	"fresh/internal/planner"
	"fresh/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the id assigned to every request
const RequestIDHeader = "X-Request-ID"

// Options are the dependencies of the API
type Options struct {
	Store    *repository.Store
	Sessions *planner.Sessions
	Tokens   *auth.Tokens
	Metrics  *metrics.Collector
	Monitor  *monitoring.Monitor
	Logger   *slog.Logger
}

// API serves the recipe catalog, accounts, pantry and meal plans
type API struct {
	Router   *gin.Engine
	store    *repository.Store
	sessions *planner.Sessions
	tokens   *auth.Tokens
	metrics  *metrics.Collector
	monitor  *monitoring.Monitor
	logger   *slog.Logger
	now      func() time.Time
}

// NewAPI creates a new API instance with its routes installed
func NewAPI(opts Options) *API {
	if opts.Sessions == nil {
		opts.Sessions = planner.NewSessions(nil)
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewCollector()
	}
	if opts.Monitor == nil {
		opts.Monitor = monitoring.NewMonitor()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	a := &API{
		Router:   gin.New(),
		store:    opts.Store,
		sessions: opts.Sessions,
		tokens:   opts.Tokens,
		metrics:  opts.Metrics,
		monitor:  opts.Monitor,
		logger:   opts.Logger,
		now:      time.Now,
	}

	a.Router.Use(gin.Recovery(), a.requestLogger(), a.metrics.Middleware())
	a.setupRoutes()
	return a
}

// setupRoutes configures all API endpoints
func (a *API) setupRoutes() {
	a.Router.GET("/health", a.Health)

	api := a.Router.Group("/api")
	{
		// Catalog
		api.GET("/recipes", a.ListRecipes)
		api.GET("/recipes/category", a.RecipesByCategory)
		api.GET("/recipe/:id", a.GetRecipe)
		api.GET("/recipe/:id/missing", a.tokens.Optional(), a.MissingIngredients)
		api.GET("/nutrients/:id", a.GetNutrients)
		api.GET("/ingredients", a.ListIngredients)
		api.GET("/ai-menu", a.tokens.Optional(), a.AIMenu)

		// Accounts
		api.POST("/register", a.Register)
		api.POST("/login", a.Login)
		api.GET("/user/:id", a.GetUser)

		// Media
		api.GET("/media", a.ListMedia)
		api.POST("/upload", a.tokens.Middleware(), a.Upload)
	}

	private := api.Group("", a.tokens.Middleware())
	{
		private.GET("/pantry", a.ListPantry)
		private.POST("/pantry", a.AddPantryItem)
		private.GET("/pantry/expiring", a.ExpiringPantry)
		private.DELETE("/pantry/:id", a.RemovePantryItem)

		private.GET("/mealplan", a.GetMealPlan)
		private.DELETE("/mealplan", a.ClearMealPlan)
		private.POST("/mealplan/craft", a.CraftMealPlan)
		private.GET("/mealplan/export", a.ExportMealPlan)
		private.GET("/mealplan/live", a.LiveMealPlan)
		private.POST("/mealplan/:day/meals", a.AddMeals)
		private.DELETE("/mealplan/:day/meals/:id", a.RemoveMeal)
	}
}

// MetricsRouter serves /metrics for the separate metrics listener
func (a *API) MetricsRouter() *gin.Engine {
	router := gin.New()
	router.GET("/metrics", gin.WrapH(a.metrics.Handler()))
	return router
}

// Health reports database reachability, uptime and session counts
func (a *API) Health(c *gin.Context) {
	stats := a.monitor.Snapshot()
	stats["sessions"] = a.sessions.Len()

	if err := a.store.Ping(); err != nil {
		stats["status"] = "unavailable"
		stats["error"] = err.Error()
		c.JSON(http.StatusServiceUnavailable, stats)
		return
	}
	stats["status"] = "ok"
	c.JSON(http.StatusOK, stats)
}

func (a *API) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Header(RequestIDHeader, id)

		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		a.logger.Log(c.Request.Context(), level, "request",
			slog.String("request_id", id),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	}
}

// callerID is the authenticated user, or the shared pantry owner for
// anonymous requests
func callerID(c *gin.Context) uint {
	if id, ok := auth.UserID(c); ok {
		return id
	}
	return database.SharedPantryUser
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param})
		return 0, false
	}
	return uint(id), true
}

// internalError logs err and answers with a generic 500
func (a *API) internalError(c *gin.Context, msg string, err error) {
	id, _ := c.Get("requestID")
	a.logger.Error(msg, slog.Any("request_id", id), slog.String("error", err.Error()))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg, "details": err.Error()})
}
