package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/personal-blog-api/internal/config"
	"github.com/personal-blog-api/internal/models"
	"github.com/personal-blog-api/internal/service"
	"github.com/rs/zerolog"
)

const actorKey = "actor"

// AuthHandler handles admin login and logout
type AuthHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "auth").Logger(),
	}
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Login handles POST /login. The token is returned in the body and set as an
// HttpOnly cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.services.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, service.ErrUnauthorized) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "These credentials do not match our records."})
		return
	}
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.Auth.CookieName, result.Token, int(h.cfg.Auth.TokenTTL.Seconds()),
		"/", "", h.cfg.Auth.CookieSecure, true)

	c.JSON(http.StatusOK, gin.H{
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
		"user":       result.User,
	})
}

// Logout handles POST /logout. Tokens are stateless, so logging out only
// clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.Auth.CookieName, "", -1, "/", "", h.cfg.Auth.CookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out."})
}

// authMiddleware rejects requests without a valid session token. The session
// cookie is tried first, then an "Authorization: Bearer" header, so a stale
// cookie does not shadow a valid header.
func authMiddleware(auth service.AuthService, cfg config.AuthConfig, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokens []string
		if cookie, _ := c.Cookie(cfg.CookieName); cookie != "" {
			tokens = append(tokens, cookie)
		}
		if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			tokens = append(tokens, strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
		}

		err := service.ErrUnauthorized
		for _, token := range tokens {
			var actor *models.Actor
			actor, err = auth.Authenticate(c.Request.Context(), token)
			if err == nil {
				c.Set(actorKey, *actor)
				c.Next()
				return
			}
		}

		respondError(c, log, err)
		c.Abort()
	}
}

// actorFrom returns the admin set by authMiddleware
func actorFrom(c *gin.Context) models.Actor {
	actor, _ := c.MustGet(actorKey).(models.Actor)
	return actor
}
