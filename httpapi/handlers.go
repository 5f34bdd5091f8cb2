package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	carveauth "github.com/carve-stack/carveauth"
	"github.com/carve-stack/carveauth/internal/logger"
)

// Handler serves the auth server's HTTP surface on a gin router.
type Handler struct {
	engine *carveauth.Engine
}

// NewHandler wraps an engine.
func NewHandler(engine *carveauth.Engine) *Handler {
	return &Handler{engine: engine}
}

// Register mounts all routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/", h.health)
	r.POST("/api/auth/sign-in", h.signIn)
	r.POST("/api/auth/sign-out", h.signOut)
	r.POST("/api/validate-session", h.validateSession)
	r.POST("/api/validate-jwt", h.validateToken)
}

func (h *Handler) health(c *gin.Context) {
	c.String(http.StatusOK, "Auth Server OK")
}

func (h *Handler) signIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, SignInResponse{Error: errInvalidRequest})
		return
	}

	ctx := carveauth.WithClientIP(c.Request.Context(), c.ClientIP())
	ctx = carveauth.WithUserAgent(ctx, c.Request.UserAgent())

	result, err := h.engine.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, carveauth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, SignInResponse{Error: "Invalid credentials"})
			return
		}
		logger.Error("sign-in failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusUnauthorized, SignInResponse{Error: "Invalid credentials"})
		return
	}

	maxAge := int(time.Until(result.Session.ExpiresAt) / time.Second)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.engine.CookieName(), result.Session.Token, maxAge, "/", "", false, true)
	c.JSON(http.StatusOK, SignInResponse{User: result.User, Session: result.Session})
}

func (h *Handler) signOut(c *gin.Context) {
	if token := h.sessionCredential(c); token != "" {
		if err := h.engine.Logout(c.Request.Context(), token); err != nil {
			logger.Error("sign-out failed", map[string]any{"error": err.Error()})
		}
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.engine.CookieName(), "", -1, "/", "", false, true)
	c.Status(http.StatusOK)
}

// validateSession is the issuance endpoint: the caller proves a live session
// and walks away with a bearer token for the API tier.
func (h *Handler) validateSession(c *gin.Context) {
	if c.GetHeader("Authorization") == "" && h.cookieCredential(c) == "" {
		c.JSON(http.StatusUnauthorized, ValidateSessionResponse{Valid: false, Error: errNoAuthHeader})
		return
	}

	result, err := h.engine.IssueToken(c.Request.Context(), h.sessionCredential(c))
	if err != nil {
		switch {
		case errors.Is(err, carveauth.ErrNoAuthHeader):
			c.JSON(http.StatusUnauthorized, ValidateSessionResponse{Valid: false, Error: errNoAuthHeader})
		case errors.Is(err, carveauth.ErrSessionNotFound):
			c.JSON(http.StatusUnauthorized, ValidateSessionResponse{Valid: false, Error: errInvalidSession})
		default:
			logger.Error("session validation failed", map[string]any{"error": err.Error()})
			c.JSON(http.StatusUnauthorized, ValidateSessionResponse{Valid: false, Error: errInvalidSession})
		}
		return
	}

	c.JSON(http.StatusOK, ValidateSessionResponse{
		Valid:   true,
		User:    result.User,
		Session: result.Session,
		Token:   result.Token,
	})
}

// validateToken is the validation endpoint: parse, expiry-check, then
// cross-check the session store.
func (h *Handler) validateToken(c *gin.Context) {
	bearer, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		c.JSON(http.StatusUnauthorized, ValidateTokenResponse{Valid: false, Error: errNoAuthHeader})
		return
	}

	result, err := h.engine.ValidateToken(c.Request.Context(), bearer, h.cookieCredential(c))
	if err != nil {
		switch {
		case errors.Is(err, carveauth.ErrTokenMalformed), errors.Is(err, carveauth.ErrTokenExpired):
			c.JSON(http.StatusUnauthorized, ValidateTokenResponse{Valid: false, Error: errInvalidToken})
		case errors.Is(err, carveauth.ErrSessionNotFound), errors.Is(err, carveauth.ErrSessionMismatch):
			c.JSON(http.StatusUnauthorized, ValidateTokenResponse{Valid: false, Error: errSessionExpired})
		default:
			// Store outages and surprises degrade to 401, never 500.
			logger.Error("token validation failed", map[string]any{"error": err.Error()})
			c.JSON(http.StatusUnauthorized, ValidateTokenResponse{Valid: false, Error: errSessionExpired})
		}
		return
	}

	c.JSON(http.StatusOK, ValidateTokenResponse{
		Valid:   true,
		User:    result.User,
		Session: result.Session,
		Payload: result.Claims,
	})
}

// sessionCredential extracts the opaque session token from the bearer
// header, falling back to the session cookie.
func (h *Handler) sessionCredential(c *gin.Context) string {
	if bearer, ok := bearerToken(c.GetHeader("Authorization")); ok {
		return bearer
	}
	return h.cookieCredential(c)
}

func (h *Handler) cookieCredential(c *gin.Context) string {
	cookie, err := c.Cookie(h.engine.CookieName())
	if err != nil {
		return ""
	}
	return cookie
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}
	token := value[len(bearer):]
	if token == "" {
		return "", false
	}
	return token, true
}
