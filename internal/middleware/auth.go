package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thereayou/rawrchat/pkg/auth"
)

const (
	SessionIDKey = "sessionID"
	TokenKey     = "token"
	ClaimsKey    = "claims"
)

// AuthMiddleware проверяет JWT из заголовка Authorization
func AuthMiddleware(jwtManager *auth.JWTManager, blacklist auth.Blacklist, logger *zap.Logger) gin.HandlerFunc {
	return authenticate(jwtManager, blacklist, logger, auth.ExtractTokenFromHeader)
}

// WSAuthMiddleware специальный middleware для WebSocket: браузер не умеет
// ставить заголовки при апгрейде, поэтому токен берём и из ?token=
func WSAuthMiddleware(jwtManager *auth.JWTManager, blacklist auth.Blacklist, logger *zap.Logger) gin.HandlerFunc {
	return authenticate(jwtManager, blacklist, logger, auth.ExtractToken)
}

func authenticate(jwtManager *auth.JWTManager, blacklist auth.Blacklist, logger *zap.Logger, extract func(*http.Request) (string, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extract(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			return
		}

		// Проверяем, не в черном списке ли токен
		revoked, err := blacklist.IsRevoked(c.Request.Context(), token)
		if err != nil {
			logger.Warn("blacklist lookup failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token is blacklisted"})
			return
		}
		if revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token is blacklisted"})
			return
		}

		claims, err := jwtManager.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		if _, err := uuid.Parse(claims.Subject); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session id"})
			return
		}

		c.Set(SessionIDKey, claims.Subject)
		c.Set(TokenKey, token)
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}
