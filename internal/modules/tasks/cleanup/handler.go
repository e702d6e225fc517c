package cleanup

import (
	"github.com/gin-gonic/gin"

	"github.com/kaushik-sharma/full-stack-app/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the cron trigger endpoints. The caller is expected to
// guard the group with the shared-secret middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/cron/delete-scheduled-users", h.deleteScheduledUsers)
}

func (h *Handler) deleteScheduledUsers(c *gin.Context) {
	deleted, err := h.svc.DeleteScheduledUsers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"deleted": deleted})
}
