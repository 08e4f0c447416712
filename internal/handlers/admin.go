package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"rummy-gateway-backend/internal/services"
)

type AdminHandler struct {
	store *services.RedisService
	log   *logrus.Entry
}

func NewAdminHandler(store *services.RedisService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		store: store,
		log:   logger.WithField("component", "admin"),
	}
}

func (h *AdminHandler) Health(c *gin.Context) {
	if err := h.store.Set(c.Request.Context(), services.KeyHealthProbe, "ok", time.Minute); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "degraded",
			"store":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// FlushStore wipes the entire keyed store. Destructive; reachable only
// through the admin-authenticated group.
func (h *AdminHandler) FlushStore(c *gin.Context) {
	if err := h.store.FlushAll(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to flush store"})
		return
	}
	h.log.Warnf("Store flushed by %v", c.GetString("admin_subject"))
	c.JSON(http.StatusOK, gin.H{"message": "Store flushed"})
}
