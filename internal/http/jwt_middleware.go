package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"movieflix/internal/domain"
	"movieflix/internal/service"
)

const (
	authUserKey  = "auth_user"
	authTokenKey = "auth_token"
)

// JWTAuthMiddleware valida el bearer token y resuelve el subject contra el
// store de usuarios. Un token firmado para un usuario ya borrado se rechaza.
func JWTAuthMiddleware(jwtSvc *service.JWTService, userSvc *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if jwtSvc == nil || userSvc == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "auth not configured"})
			c.Abort()
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			c.Abort()
			return
		}

		token := strings.TrimSpace(header[len("Bearer "):])
		claims, err := jwtSvc.Parse(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		user, err := userSvc.Get(c.Request.Context(), claims.Username)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "could not resolve identity"})
			}
			c.Abort()
			return
		}

		c.Set(authUserKey, user)
		c.Set(authTokenKey, token)
		c.Next()
	}
}

// GetAuthUser obtiene la identidad autenticada desde el contexto.
func GetAuthUser(c *gin.Context) (domain.User, bool) {
	val, ok := c.Get(authUserKey)
	if !ok {
		return domain.User{}, false
	}
	user, ok := val.(domain.User)
	return user, ok
}

// GetAuthToken obtiene el token crudo presentado en el request.
func GetAuthToken(c *gin.Context) (string, bool) {
	val, ok := c.Get(authTokenKey)
	if !ok {
		return "", false
	}
	token, ok := val.(string)
	return token, ok
}

// requireSelf aplica la regla de self-ownership: la mutación sobre
// /users/:username solo la puede hacer el propio usuario.
func requireSelf(c *gin.Context) bool {
	user, ok := GetAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return false
	}
	if user.Username != c.Param("username") {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return false
	}
	return true
}
