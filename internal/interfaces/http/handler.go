package http

import (
	"errors"
	"net/http"

	"intern_assistant/internal/usecases"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps collects what the HTTP surface needs. Admin routes are only
// mounted when Auth is set; optional collaborators may be nil.
type RouterDeps struct {
	Resolver    MessageResolver
	Directory   DirectoryAdmin
	Broadcaster Broadcaster
	Resolutions ResolutionLog
	Device      DeviceLink
	Auth        *usecases.AuthUsecase
	Middleware  *Middleware
	Metrics     http.Handler
	Logger      zerolog.Logger
}

func SetupRoutes(r *gin.Engine, deps RouterDeps) {
	webhook := NewWebhookHandler(deps.Resolver, deps.Logger)

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	r.Use(RequestLogger(deps.Logger))
	r.Use(SecurityHeaders())
	r.Use(RequestSizeLimiter(1 << 20))

	// Twilio webhook
	hooks := r.Group("/", webhook.TwiMLRecovery())
	{
		hooks.POST("/webhook/whatsapp", webhook.HandleWhatsApp)
		hooks.POST("/api/webhook", webhook.HandleWhatsApp)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "directory": deps.Directory.Stats()})
	})
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	if deps.Auth == nil || deps.Middleware == nil {
		deps.Logger.Info().Msg("admin API disabled")
		return
	}

	admin := NewAdminHandler(deps.Directory, deps.Broadcaster, deps.Resolutions, deps.Device, deps.Logger)
	middleware := deps.Middleware

	authGroup := r.Group("/api/auth", middleware.CORSMiddleware())
	{
		authGroup.POST("/login", func(c *gin.Context) {
			var loginReq struct {
				Username string `json:"username" binding:"required"`
				Password string `json:"password" binding:"required"`
			}
			if err := c.ShouldBindJSON(&loginReq); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
				return
			}
			token, err := deps.Auth.Login(loginReq.Username, loginReq.Password)
			if errors.Is(err, usecases.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
				return
			}
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"token": token})
		})
	}

	api := r.Group("/api")
	api.Use(middleware.CORSMiddleware())
	api.Use(middleware.AuthRequired())
	api.Use(middleware.AdminRequired())
	api.Use(middleware.RateLimitPerUser(5, 10))
	{
		api.POST("/directory/reload", admin.ReloadDirectory)
		api.GET("/directory/stats", admin.GetDirectoryStats)

		api.POST("/broadcast/welcome", admin.StartWelcomeBroadcast)
		api.GET("/broadcast/welcome", admin.GetWelcomeBroadcast)

		api.GET("/resolutions", admin.ListResolutions)

		api.GET("/whatsapp/qr", admin.GetWhatsAppQR)
		api.GET("/whatsapp/status", admin.GetWhatsAppStatus)
	}
}
