package user

import (
	"github.com/gin-gonic/gin"

	"github.com/kaushik-sharma/full-stack-app/internal/modules/auth/auth"
	"github.com/kaushik-sharma/full-stack-app/internal/pkg/response"
)

// Handler exposes the session/account lifecycle endpoints. Every route
// requires a fully authenticated (ACTIVE) caller.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	me := rg.Group("/users/me", requireAuth)

	me.GET("/sessions", h.sessionsOverview)
	me.POST("/sign-out", h.signOutCurrent)
	me.POST("/sign-out-all", h.signOutAll)
	me.DELETE("/sessions/:sessionId", h.signOutSession)
	me.POST("/deletion-request", h.requestAccountDeletion)
}

func (h *Handler) sessionsOverview(c *gin.Context) {
	id, ok := auth.CurrentIdentity(c)
	if !ok {
		response.Unauthorized(c, "Authentication required.")
		return
	}
	overview, err := h.svc.Overview(c.Request.Context(), id.UserID, id.SessionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, overview)
}

func (h *Handler) signOutCurrent(c *gin.Context) {
	id, ok := auth.CurrentIdentity(c)
	if !ok {
		response.Unauthorized(c, "Authentication required.")
		return
	}
	if err := h.svc.SignOutCurrent(c.Request.Context(), id.UserID, id.SessionID); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Signed out successfully.")
}

func (h *Handler) signOutAll(c *gin.Context) {
	id, ok := auth.CurrentIdentity(c)
	if !ok {
		response.Unauthorized(c, "Authentication required.")
		return
	}
	if err := h.svc.SignOutAll(c.Request.Context(), id.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Signed out of all sessions successfully.")
}

func (h *Handler) signOutSession(c *gin.Context) {
	id, ok := auth.CurrentIdentity(c)
	if !ok {
		response.Unauthorized(c, "Authentication required.")
		return
	}
	sessionID := c.Param("sessionId")
	if err := h.svc.SignOutSession(c.Request.Context(), id.UserID, sessionID); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Session signed out successfully.")
}

func (h *Handler) requestAccountDeletion(c *gin.Context) {
	id, ok := auth.CurrentIdentity(c)
	if !ok {
		response.Unauthorized(c, "Authentication required.")
		return
	}
	if err := h.svc.RequestAccountDeletion(c.Request.Context(), id.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Account deletion requested.")
}
