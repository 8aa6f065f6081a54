package handlers

import (
	"net/http"

	"charmlive/internal/middleware"

	"github.com/gin-gonic/gin"
)

// AuthHandlers serves the optional password gate. All routes are no-ops
// redirecting home when no password is configured.
type AuthHandlers struct {
	auth *middleware.AuthService
}

// NewAuthHandlers constructs the auth handler set.
func NewAuthHandlers(auth *middleware.AuthService) *AuthHandlers {
	return &AuthHandlers{auth: auth}
}

// LoginGET renders the login form.
func (h *AuthHandlers) LoginGET(c *gin.Context) {
	if !h.auth.Enabled() {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

// LoginPOST checks the shared password and sets the session cookie.
func (h *AuthHandlers) LoginPOST(c *gin.Context) {
	if !h.auth.Enabled() {
		c.Redirect(http.StatusFound, "/")
		return
	}

	password := c.PostForm("password")
	if !h.auth.CheckPassword(password) {
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{"error": "Incorrect password"})
		return
	}

	token, err := h.auth.GenerateToken()
	if err != nil {
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{"error": "Could not create session"})
		return
	}
	middleware.SetAuthCookie(c, token)
	c.Redirect(http.StatusFound, "/")
}

// Logout clears the session cookie.
func (h *AuthHandlers) Logout(c *gin.Context) {
	middleware.ClearAuthCookie(c)
	c.Redirect(http.StatusFound, "/login")
}
