package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kaushik-sharma/full-stack-app/internal/pkg/response"
)

// Handler exposes the authentication endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the auth endpoints. optionalAuth admits requests
// with or without an anonymous token; requireAllowAnonymous gates the
// refresh endpoint for active and anonymous users alike.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, optionalAuth, requireAllowAnonymous gin.HandlerFunc) {
	a := rg.Group("/auth")

	a.GET("/email/status/:email", h.emailStatus)
	a.POST("/email/send-code", h.sendEmailCode)
	a.POST("/signup", optionalAuth, h.signUp)
	a.POST("/signin", optionalAuth, h.signIn)
	a.POST("/anonymous", h.anonymousAuth)
	a.POST("/token/refresh", requireAllowAnonymous, h.refreshToken)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (h *Handler) emailStatus(c *gin.Context) {
	email := normalizeEmail(c.Param("email"))
	if email == "" || !strings.Contains(email, "@") {
		response.BadRequest(c, "A valid email is required.")
		return
	}
	action, err := h.svc.CheckEmailStatus(c.Request.Context(), email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"userAction": action})
}

func (h *Handler) sendEmailCode(c *gin.Context) {
	var dto sendCodeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	token, err := h.svc.SendEmailCode(c.Request.Context(), normalizeEmail(dto.Email), dto.PreviousToken)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"verificationToken": token})
}

func (h *Handler) signUp(c *gin.Context) {
	var dto signUpDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var anonymousUserID string
	if id, ok := CurrentIdentity(c); ok {
		anonymousUserID = id.UserID
	}

	token, err := h.svc.SignUp(c.Request.Context(), anonymousUserID, SignUpParams{
		FirstName:         dto.FirstName,
		LastName:          dto.LastName,
		Gender:            dto.Gender,
		CountryCode:       dto.CountryCode,
		PhoneNumber:       dto.PhoneNumber,
		Dob:               dto.Dob,
		Email:             normalizeEmail(dto.Email),
		VerificationCode:  dto.VerificationCode,
		VerificationToken: dto.VerificationToken,
		Device:            dto.device(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"authToken": token})
}

func (h *Handler) signIn(c *gin.Context) {
	var dto signInDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var anonymousUserID string
	if id, ok := CurrentIdentity(c); ok {
		anonymousUserID = id.UserID
	}

	token, err := h.svc.SignIn(c.Request.Context(), anonymousUserID, SignInParams{
		Email:                        normalizeEmail(dto.Email),
		VerificationCode:             dto.VerificationCode,
		VerificationToken:            dto.VerificationToken,
		CancelAccountDeletionRequest: dto.CancelAccountDeletionRequest,
		Device:                       dto.device(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"authToken": token})
}

func (h *Handler) anonymousAuth(c *gin.Context) {
	var dto anonymousAuthDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	token, err := h.svc.AnonymousAuth(c.Request.Context(), dto.device())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"authToken": token})
}

func (h *Handler) refreshToken(c *gin.Context) {
	id, ok := CurrentIdentity(c)
	if !ok {
		response.Unauthorized(c, "Authentication required.")
		return
	}
	token, err := h.svc.RefreshAuthToken(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"refreshToken": token})
}
