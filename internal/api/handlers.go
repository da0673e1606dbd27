package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blue-environment/blued/internal/session"
	"github.com/blue-environment/blued/internal/supervisor"
)

// Handlers contains all session API handlers. Every mutation goes
// through session.Do so state changes stay serialized on the control
// thread.
type Handlers struct {
	session *session.Session
}

// NewHandlers creates a new handler set over the session.
func NewHandlers(s *session.Session) *Handlers {
	return &Handlers{session: s}
}

// Health handles health check.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "healthy",
		"apps_tracked":  h.session.Apps().Count(),
		"windows":       h.session.Windows().Count(),
		"notifications": h.session.Notifications().Len(),
	})
}

// State returns the settings snapshot (settings, clock, battery,
// distro).
func (h *Handlers) State(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Settings().Snapshot())
}

// ListApps lists all tracked app processes.
func (h *Handlers) ListApps(c *gin.Context) {
	apps := h.session.Apps().List()
	c.JSON(http.StatusOK, gin.H{
		"apps":  apps,
		"count": len(apps),
	})
}

// LaunchApp launches an app by logical name.
func (h *Handlers) LaunchApp(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "app name required"})
		return
	}

	var outcome supervisor.Outcome
	var launchErr error
	h.session.Do(func() {
		outcome, launchErr = h.session.Apps().Launch(name)
	})

	switch outcome {
	case supervisor.Launched:
		c.JSON(http.StatusOK, gin.H{"outcome": "launched", "app": name})
	case supervisor.AlreadyRunning:
		c.JSON(http.StatusOK, gin.H{"outcome": "already_running", "app": name})
	default:
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"outcome": "failed",
			"app":     name,
			"error":   launchErr.Error(),
		})
	}
}

// ListWindows lists the tracked window stack, frontmost last.
func (h *Handlers) ListWindows(c *gin.Context) {
	windows := h.session.Windows().List()
	c.JSON(http.StatusOK, gin.H{
		"windows": windows,
		"count":   len(windows),
	})
}

// ShowDesktop restores every window to normal state.
func (h *Handlers) ShowDesktop(c *gin.Context) {
	h.session.Do(func() {
		h.session.Windows().ShowDesktop()
	})
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// adjustRequest carries a settings delta. No required tag: the
// validator would reject an explicit zero delta as missing, and any
// float, zero included, is a valid delta.
type adjustRequest struct {
	Delta float64 `json:"delta"`
}

// AdjustBrightness applies a brightness delta.
func (h *Handlers) AdjustBrightness(c *gin.Context) {
	var req adjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.session.Do(func() {
		h.session.Settings().AdjustBrightness(req.Delta)
	})
	c.JSON(http.StatusOK, h.session.Settings().Snapshot())
}

// AdjustVolume applies a volume delta.
func (h *Handlers) AdjustVolume(c *gin.Context) {
	var req adjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.session.Do(func() {
		h.session.Settings().AdjustVolume(req.Delta)
	})
	c.JSON(http.StatusOK, h.session.Settings().Snapshot())
}

// ToggleWifi flips the wifi radio.
func (h *Handlers) ToggleWifi(c *gin.Context) {
	h.session.Do(func() {
		h.session.Settings().ToggleWifi()
	})
	c.JSON(http.StatusOK, h.session.Settings().Snapshot())
}

// ToggleBluetooth flips the bluetooth radio.
func (h *Handlers) ToggleBluetooth(c *gin.Context) {
	h.session.Do(func() {
		h.session.Settings().ToggleBluetooth()
	})
	c.JSON(http.StatusOK, h.session.Settings().Snapshot())
}

// timezoneRequest carries a timezone change.
type timezoneRequest struct {
	Timezone string `json:"timezone" binding:"required"`
}

// SetTimezone changes the session timezone.
func (h *Handlers) SetTimezone(c *gin.Context) {
	var req timezoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.session.Do(func() {
		h.session.Settings().SetTimezone(req.Timezone)
	})
	c.JSON(http.StatusOK, h.session.Settings().Snapshot())
}

// Clipboard returns the current clipboard content. Blocking query on
// the caller's goroutine, never on the control thread.
func (h *Handlers) Clipboard(c *gin.Context) {
	content, err := h.session.Settings().ReadClipboard(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": content})
}

// OpenPackageManager opens the distro's package manager.
func (h *Handlers) OpenPackageManager(c *gin.Context) {
	h.session.Do(func() {
		h.session.Settings().OpenPackageManager()
	})
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListNotifications returns the full notification log in append order.
func (h *Handlers) ListNotifications(c *gin.Context) {
	notifications := h.session.Notifications().All()
	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"count":         len(notifications),
	})
}

// ClearNotifications empties the notification log.
func (h *Handlers) ClearNotifications(c *gin.Context) {
	h.session.Do(func() {
		h.session.Notifications().Clear()
	})
	c.JSON(http.StatusOK, gin.H{"success": true})
}
