package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	TokenExpiry = 24 * time.Hour
	CookieName  = "charmlive_token"

	envPassword     = "CHARMLIVE_PASSWORD"
	envPasswordHash = "CHARMLIVE_PASSWORD_HASH"
	envJWTSecret    = "CHARMLIVE_JWT_SECRET"
)

type Claims struct {
	jwt.RegisteredClaims
}

// AuthService gates the dashboard behind a single shared password. It is
// enabled only when CHARMLIVE_PASSWORD or CHARMLIVE_PASSWORD_HASH is set;
// otherwise the dashboard is open.
type AuthService struct {
	secret       []byte
	passwordHash string
}

// NewAuthService reads the password configuration from the environment.
// A plain CHARMLIVE_PASSWORD is hashed at startup; a pre-hashed
// CHARMLIVE_PASSWORD_HASH (see tools/passhash) takes precedence.
func NewAuthService() *AuthService {
	a := &AuthService{}

	secret := os.Getenv(envJWTSecret)
	if secret == "" {
		// Random per-process secret: restarting the server logs
		// everyone out, which is acceptable for a personal dashboard.
		secret = fmt.Sprintf("charmlive-%d", time.Now().UnixNano())
	}
	a.secret = []byte(secret)

	if hash := strings.TrimSpace(os.Getenv(envPasswordHash)); hash != "" {
		a.passwordHash = hash
		return a
	}
	if password := os.Getenv(envPassword); password != "" {
		if hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost); err == nil {
			a.passwordHash = string(hash)
		}
	}
	return a
}

// Enabled reports whether a password is configured.
func (a *AuthService) Enabled() bool {
	return a.passwordHash != ""
}

// CheckPassword verifies the shared password.
func (a *AuthService) CheckPassword(password string) bool {
	if !a.Enabled() {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(a.passwordHash), []byte(password)) == nil
}

// GenerateToken issues a signed session token.
func (a *AuthService) GenerateToken() (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   "viewer",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// ValidateToken parses and verifies a session token.
func (a *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// SetAuthCookie sets the session cookie.
func SetAuthCookie(c *gin.Context, token string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Request.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(TokenExpiry.Seconds()),
	})
}

// ClearAuthCookie removes the session cookie.
func ClearAuthCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// RequireAuth redirects browsers to /login when a password is configured
// and no valid session cookie accompanies the request. With auth
// disabled it is a no-op.
func (a *AuthService) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.Enabled() {
			c.Next()
			return
		}

		tokenString := c.GetHeader("Authorization")
		if tokenString != "" {
			tokenString = strings.TrimPrefix(tokenString, "Bearer ")
		} else {
			tokenString, _ = c.Cookie(CookieName)
		}

		if tokenString == "" {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		if _, err := a.ValidateToken(tokenString); err != nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAPIAuth is RequireAuth for JSON endpoints: it answers 401 JSON
// instead of redirecting.
func (a *AuthService) RequireAPIAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.Enabled() {
			c.Next()
			return
		}

		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			if cookieToken, err := c.Cookie(CookieName); err == nil {
				tokenString = cookieToken
			}
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header or cookie required"})
			return
		}

		tokenString = strings.TrimPrefix(tokenString, "Bearer ")
		if _, err := a.ValidateToken(tokenString); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		c.Next()
	}
}
