package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiaoxiao0301/listen-stream-radio/pkg/errors"
	"github.com/xiaoxiao0301/listen-stream-radio/pkg/jwt"
	"github.com/xiaoxiao0301/listen-stream-radio/pkg/logger"
)

const (
	// UserIDKey 上下文中的用户ID
	UserIDKey = "user_id"
	// EmailKey 上下文中的邮箱
	EmailKey = "email"
)

// Verifier 身份校验器，由 jwt.Manager 实现
type Verifier interface {
	Verify(token string) (*jwt.Identity, error)
}

// Auth JWT认证中间件，所有资源接口都必须携带 Bearer Token
func Auth(verifier Verifier, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c, apperrors.ErrUnauthorized)
			return
		}

		identity, err := verifier.Verify(token)
		if err != nil {
			log.WithContext(c.Request.Context()).Warn("JWT validation failed",
				logger.String("code", apperrors.GetCode(err)),
				logger.Error(err),
			)
			abortUnauthorized(c, err)
			return
		}

		c.Set(UserIDKey, identity.UserID)
		c.Set(EmailKey, identity.Email)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), identity.UserID))

		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func abortUnauthorized(c *gin.Context, err error) {
	msg := apperrors.ErrUnauthorized.Message
	if apperrors.GetHTTPStatus(err) == http.StatusUnauthorized {
		msg = apperrors.GetMessage(err)
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}

// GetUserID 从上下文获取已认证的用户ID
func GetUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
