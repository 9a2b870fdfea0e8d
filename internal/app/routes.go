package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"Tasker/internal/auth"
	"Tasker/internal/cache"
	"Tasker/internal/config"
	"Tasker/internal/handlers"
	"Tasker/internal/metrics"
	"Tasker/internal/repo"
	"Tasker/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Deps are the stores and health probes the routes are built on.
type Deps struct {
	Users repo.UserRepo
	Lists repo.TodoListRepo
	Tasks repo.TaskRepo
	// Cache is optional.
	Cache *cache.PageCache
	// Checks are run by /health, keyed by dependency name.
	Checks map[string]func(context.Context) error
}

func newRouter(cfg config.Config, log zerolog.Logger, db *pgxpool.Pool, rdb *redis.Client) (*gin.Engine, error) {
	d := Deps{
		Users:  repo.NewPGUserRepo(db),
		Lists:  repo.NewPGTodoListRepo(db),
		Tasks:  repo.NewPGTaskRepo(db),
		Checks: map[string]func(context.Context) error{"postgres": db.Ping},
	}
	if rdb != nil {
		d.Cache = cache.NewPageCache(rdb, cfg.Redis.DefaultTTL.Duration())
		d.Checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return NewEngine(cfg, log, d)
}

// NewEngine returns a gin engine with the middleware stack and all routes.
func NewEngine(cfg config.Config, log zerolog.Logger, d Deps) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	forwarded, err := forwardedHeaders(cfg.HTTP.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(gin.Recovery(), forwarded, requestLogger(log), metrics.Middleware(), secureHeaders(cfg.App.Env == "dev"))
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Type", requestIDHeader},
		MaxAge:        12 * time.Hour,
	}))

	if err := Setup(r, cfg, log, d); err != nil {
		return nil, err
	}
	return r, nil
}

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, log zerolog.Logger, d Deps) error {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg, d.Checks))
	r.GET("/version", versionHandler(cfg))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	api := r.Group("/api/v1")

	tokens := auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL.Duration())
	authSvc := service.NewAuthService(d.Users, auth.NewBcryptHasher(), tokens)
	limit, err := rateLimit(cfg.HTTP.AuthRateLimit)
	if err != nil {
		return fmt.Errorf("auth rate limit: %w", err)
	}
	registerAuthRoutes(api.Group("", limit), handlers.NewAuthHandler(authSvc, log))

	protected := api.Group("", auth.RequireToken(tokens))
	listSvc := service.NewTodoListService(d.Lists, d.Tasks, d.Cache)
	taskSvc := service.NewTaskService(d.Tasks, d.Lists, d.Cache)
	registerTodoListRoutes(protected, handlers.NewTodoListHandler(listSvc, cfg.App.PageMaxLimit, log))
	registerTaskRoutes(protected, handlers.NewTaskHandler(taskSvc, cfg.App.PageMaxLimit, log))
	return nil
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Tasker API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"metrics": "/metrics",
			"api":     "/api/v1",
		})
	}
}

func healthHandler(cfg config.Config, checks map[string]func(context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		ok := true
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				ok = false
				results[name] = err.Error()
				continue
			}
			results[name] = "ok"
		}
		code := http.StatusOK
		if !ok {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"ok": ok, "env": cfg.App.Env, "checks": results})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler) {
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
}

func registerTodoListRoutes(api *gin.RouterGroup, h *handlers.TodoListHandler) {
	api.POST("/todo-lists", h.Create)
	api.GET("/todo-lists", h.List)
	api.GET("/todo-lists/:id", h.GetByID)
	api.PATCH("/todo-lists/:id", h.Update)
	api.DELETE("/todo-lists/:id", h.Delete)
}

func registerTaskRoutes(api *gin.RouterGroup, h *handlers.TaskHandler) {
	api.POST("/todo-lists/:id/tasks", h.Create)
	api.GET("/todo-lists/:id/tasks", h.List)
	api.GET("/tasks/:id", h.GetByID)
	api.PATCH("/tasks/:id", h.Update)
	api.DELETE("/tasks/:id", h.Delete)
}
