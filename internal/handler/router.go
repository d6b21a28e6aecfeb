package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"venue-reservation/internal/domain/operator"
	"venue-reservation/internal/handler/api"
	"venue-reservation/internal/handler/middleware"
	"venue-reservation/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Public  *api.PublicReservationHandler
	Admin   *api.AdminReservationHandler
	Webhook *api.WebhookHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, h Handlers, authMiddleware *middleware.AuthMiddleware, limiter middleware.RateLimiter) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, h, authMiddleware, limiter)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware, limiter middleware.RateLimiter) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		applications := apiGroup.Group("/applications")
		applications.Use(middleware.RateLimit(limiter))
		{
			addRoutes(applications, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Public.Submit},
				{Method: http.MethodGet, Path: "/track", Handler: h.Public.Track},
				{Method: http.MethodPost, Path: "/cancel", Handler: h.Public.Cancel},
				{Method: http.MethodPost, Path: "/resubmit", Handler: h.Public.Resubmit},
			})
		}

		// Signed by the gateway; never rate limited so retries are not dropped.
		addRoutes(apiGroup, []route{
			{Method: http.MethodPost, Path: "/paystack/webhook", Handler: h.Webhook.Paystack},
		})

		admin := apiGroup.Group("/admin")
		admin.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRoleAtLeast(operator.RoleOperator))
		{
			addRoutes(admin, []route{
				{Method: http.MethodGet, Path: "/applications", Handler: h.Admin.List},
				{Method: http.MethodGet, Path: "/applications/pending", Handler: h.Admin.Pending},
				{Method: http.MethodGet, Path: "/applications/:id", Handler: h.Admin.Get},
				{Method: http.MethodPost, Path: "/applications/:id/approve", Handler: h.Admin.Approve},
				{Method: http.MethodPost, Path: "/applications/:id/reject", Handler: h.Admin.Reject},
				{Method: http.MethodPost, Path: "/applications/:id/request-modifications", Handler: h.Admin.RequestModifications},
				{Method: http.MethodGet, Path: "/dashboard", Handler: h.Admin.Dashboard},
				{Method: http.MethodPost, Path: "/sweeps", Handler: h.Admin.Sweep, Mw: []gin.HandlerFunc{
					authMiddleware.RequireRoleAtLeast(operator.RoleAdmin),
				}},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
