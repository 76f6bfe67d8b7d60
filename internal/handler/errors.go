package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xiaoxiao0301/listen-stream-radio/internal/cache"
	"github.com/xiaoxiao0301/listen-stream-radio/internal/domain"
	apperrors "github.com/xiaoxiao0301/listen-stream-radio/pkg/errors"
)

const (
	msgInternal             = "internal server error"
	msgDirectoryUnavailable = "station directory unavailable"
)

// handleError 统一处理错误并返回适当的HTTP状态码
// 存储与目录错误不向客户端暴露细节，已在服务层记录
func handleError(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	// 400 Bad Request
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	// 401 Unauthorized
	case apperrors.GetHTTPStatus(err) == http.StatusUnauthorized:
		c.JSON(http.StatusUnauthorized, gin.H{"error": apperrors.GetMessage(err)})

	// 404 Not Found（不区分不存在与无权访问）
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	// 500 目录不可用
	case errors.Is(err, cache.ErrDirectory):
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgDirectoryUnavailable})

	// 500 Internal Server Error (默认，含 StoreError)
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
	}
}

// validationError 请求体无法解析
func validationError(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrValidation.Error() + ": " + msg})
}
