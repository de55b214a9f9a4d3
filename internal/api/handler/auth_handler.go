package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookshelf/internal/api/dto"
	"bookshelf/internal/api/middleware"
	"bookshelf/internal/api/models"
	"bookshelf/internal/api/service"
)

type AuthHandler struct {
	authService  service.AuthService
	cookieSecure bool
}

func NewAuthHandler(authService service.AuthService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cookieSecure: cookieSecure,
	}
}

func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, session gin.HandlerFunc) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)
	rg.GET("/me", session, h.Me)
	rg.POST("/logout", session, h.Logout)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	user, token, err := h.authService.Register(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailInUse) {
			c.JSON(http.StatusConflict, gin.H{"message": "Email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, dto.FromModelToUserResponse(user))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	user, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, dto.FromModelToUserResponse(user))
}

// Me returns the identity resolved by the session middleware.
func (h *AuthHandler) Me(c *gin.Context) {
	u, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	user, ok := u.(*models.User)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, dto.FromModelToUserResponse(user))
}

// Logout clears the client-held cookie. Tokens are stateless, there is no
// server-side revocation list; the credential simply ages out.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.cookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	maxAge := int(h.authService.TokenTTL().Seconds())
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", h.cookieSecure, true)
}
