package v1

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/flood_watch/internal/models"
	"github.com/sirupsen/logrus"
)

const principalKey = "principal"

// principal аутентифицированный вызывающий: сотрудник по JWT или машинный клиент по API-ключу
type principal struct {
	Admin *models.AdminUser
	Role  models.AdminRole
}

// Name имя для журнала проверок отчетов
func (p *principal) Name() string {
	if p.Admin != nil {
		return p.Admin.Username
	}
	return "api-key"
}

func currentPrincipal(c *gin.Context) *principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(*principal); ok {
			return p
		}
	}
	return nil
}

func (h *Handler) validAPIKey(key string) bool {
	for _, k := range h.cfg.APIKeys {
		if subtle.ConstantTimeCompare([]byte(k), []byte(key)) == 1 {
			return true
		}
	}
	return false
}

func unauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", `Bearer realm="floodwatch"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
}

// authMiddleware - аутентификация по JWT (Authorization: Bearer) или API-ключу (X-API-Key)
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := h.logger.WithField("path", c.FullPath())

		if apiKey := c.GetHeader("X-API-Key"); apiKey != "" {
			if !h.validAPIKey(apiKey) {
				log.Warn("Invalid API key provided")
				unauthorized(c, "invalid API key")
				return
			}
			c.Set(principalKey, &principal{Role: models.RoleResponder})
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			log.Warn("Credentials missing from request")
			unauthorized(c, "authentication required")
			return
		}

		admin, err := h.authService.Authenticate(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			log.WithError(err).Warn("Token rejected")
			unauthorized(c, "could not validate credentials")
			return
		}
		c.Set(principalKey, &principal{Admin: admin, Role: admin.Role})
		c.Next()
	}
}

// requirePermission проверяет роль вызывающего по политике casbin
func (h *Handler) requirePermission(object, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := currentPrincipal(c)
		if p == nil {
			unauthorized(c, "authentication required")
			return
		}
		allowed, err := h.enforcer.Allow(string(p.Role), object, action)
		if err != nil {
			h.logger.WithError(err).Error("Permission check failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		if !allowed {
			h.logger.WithFields(logrus.Fields{"role": p.Role, "object": object, "action": action}).Warn("Permission denied")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}
		c.Next()
	}
}

// @Summary Register a staff account
// @Description Creates a viewer account and mails an email verification code
// @Tags Auth
// @Accept json
// @Produce json
// @Param account body RegisterRequest true "Registration request"
// @Success 201 {object} models.AdminUser
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 409 {object} map[string]string "Username or email taken"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/register [post]
func (h *Handler) register(c *gin.Context) {
	var input RegisterRequest
	log := h.logger.WithField("method", "register")
	if !h.bindJSON(c, log, &input) {
		return
	}

	admin := &models.AdminUser{
		Username:       input.Username,
		Email:          input.Email,
		Role:           models.RoleViewer,
		OrganizationID: input.OrganizationID,
	}
	if err := h.authService.Register(c.Request.Context(), admin, input.Password); err != nil {
		h.respondError(c, log, err, "Failed to register admin")
		return
	}
	c.JSON(http.StatusCreated, admin)
}

// @Summary Log in
// @Description Exchanges username and password for a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Credentials"
// @Success 200 {object} models.Token
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 401 {object} map[string]string "Incorrect username or password"
// @Router /auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var input LoginRequest
	log := h.logger.WithField("method", "login")
	if !h.bindJSON(c, log, &input) {
		return
	}

	token, err := h.authService.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		h.respondError(c, log, err, "Login failed")
		return
	}
	c.JSON(http.StatusOK, token)
}

// @Summary Current account
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.AdminUser
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "API keys have no profile"
// @Router /auth/me [get]
func (h *Handler) me(c *gin.Context) {
	p := currentPrincipal(c)
	if p == nil || p.Admin == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "API keys have no profile"})
		return
	}
	c.JSON(http.StatusOK, p.Admin)
}

// @Summary Verify email
// @Description Confirms the account email with the 6-digit code
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param code body VerifyEmailRequest true "Verification code"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Wrong or expired code"
// @Failure 429 {object} map[string]string "Too many attempts"
// @Router /auth/verify-email [post]
func (h *Handler) verifyEmail(c *gin.Context) {
	var input VerifyEmailRequest
	log := h.logger.WithField("method", "verifyEmail")
	p := currentPrincipal(c)
	if p == nil || p.Admin == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "API keys have no profile"})
		return
	}
	if !h.bindJSON(c, log, &input) {
		return
	}

	if err := h.authService.VerifyEmail(c.Request.Context(), p.Admin.ID, input.Code); err != nil {
		h.respondError(c, log, err, "Email verification failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "email verified"})
}

// @Summary Resend verification code
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string "Already verified"
// @Failure 429 {object} map[string]string "Cooldown"
// @Router /auth/resend-verification [post]
func (h *Handler) resendVerification(c *gin.Context) {
	log := h.logger.WithField("method", "resendVerification")
	p := currentPrincipal(c)
	if p == nil || p.Admin == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "API keys have no profile"})
		return
	}

	if err := h.authService.ResendVerification(c.Request.Context(), p.Admin.ID); err != nil {
		h.respondError(c, log, err, "Failed to resend verification code")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "verification code sent"})
}
