package http

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"intern_assistant/internal/repository"
	"intern_assistant/internal/usecases"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"
)

type DirectoryAdmin interface {
	Reload(ctx context.Context) error
	Stats() repository.DirectoryStats
}

type Broadcaster interface {
	Run(ctx context.Context) (usecases.BroadcastReport, error)
}

type ResolutionLog interface {
	Recent(ctx context.Context, limit int) ([]repository.ResolutionRecord, error)
}

// DeviceLink is the pairing surface of the linked-device notifier.
type DeviceLink interface {
	GetQR() string
	IsLoggedIn() bool
	GetUserInfo() (string, string)
}

type AdminHandler struct {
	directory   DirectoryAdmin
	broadcaster Broadcaster
	resolutions ResolutionLog
	device      DeviceLink
	logger      zerolog.Logger

	mu         sync.Mutex
	running    bool
	lastReport *usecases.BroadcastReport
	lastError  string
}

func NewAdminHandler(directory DirectoryAdmin, broadcaster Broadcaster, resolutions ResolutionLog, device DeviceLink, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		directory:   directory,
		broadcaster: broadcaster,
		resolutions: resolutions,
		device:      device,
		logger:      logger.With().Str("component", "admin").Logger(),
	}
}

func (h *AdminHandler) ReloadDirectory(c *gin.Context) {
	if err := h.directory.Reload(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "stats": h.directory.Stats()})
		return
	}
	c.JSON(http.StatusOK, h.directory.Stats())
}

func (h *AdminHandler) GetDirectoryStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.directory.Stats())
}

// StartWelcomeBroadcast launches the paced welcome campaign in the background.
// Only one campaign runs at a time.
func (h *AdminHandler) StartWelcomeBroadcast(c *gin.Context) {
	if h.broadcaster == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Broadcast not configured"})
		return
	}

	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		c.JSON(http.StatusConflict, gin.H{"error": "Broadcast already running"})
		return
	}
	h.running = true
	h.mu.Unlock()

	ctx := context.WithoutCancel(c.Request.Context())
	go func() {
		report, err := h.broadcaster.Run(ctx)

		h.mu.Lock()
		defer h.mu.Unlock()
		h.running = false
		h.lastReport = &report
		h.lastError = ""
		if err != nil {
			h.lastError = err.Error()
			h.logger.Error().Err(err).Msg("welcome broadcast aborted")
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{"status": "started"})
}

func (h *AdminHandler) GetWelcomeBroadcast(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{
		"running": h.running,
		"report":  h.lastReport,
		"error":   h.lastError,
	})
}

func (h *AdminHandler) ListResolutions(c *gin.Context) {
	if h.resolutions == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Resolution log not configured"})
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > MaxResultsLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 500"})
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()
	records, err := h.resolutions.Recent(ctx, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"resolutions": records, "count": len(records)})
}

// GetWhatsAppQR returns the pairing QR code as a PNG.
func (h *AdminHandler) GetWhatsAppQR(c *gin.Context) {
	if h.device == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "WhatsApp device not configured"})
		return
	}
	if h.device.IsLoggedIn() {
		c.JSON(http.StatusOK, gin.H{"status": "connected"})
		return
	}

	qrCodeString := h.device.GetQR()
	if qrCodeString == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "QR code not ready"})
		return
	}

	png, err := qrcode.Encode(qrCodeString, qrcode.Medium, 256)
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

func (h *AdminHandler) GetWhatsAppStatus(c *gin.Context) {
	if h.device == nil {
		c.JSON(http.StatusOK, gin.H{"configured": false, "connected": false})
		return
	}
	phone, name := h.device.GetUserInfo()
	c.JSON(http.StatusOK, gin.H{
		"configured": true,
		"connected":  h.device.IsLoggedIn(),
		"phone":      phone,
		"name":       name,
	})
}
