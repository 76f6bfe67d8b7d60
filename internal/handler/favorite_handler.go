package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xiaoxiao0301/listen-stream-radio/internal/middleware"
)

// FavoriteHandler 收藏处理器
type FavoriteHandler struct {
	service FavoriteLibrary
}

// NewFavoriteHandler 创建收藏处理器
func NewFavoriteHandler(service FavoriteLibrary) *FavoriteHandler {
	return &FavoriteHandler{service: service}
}

// ListFavorites 获取收藏的电台 UUID
func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	ids, err := h.service.List(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, ids)
}

// AddFavorite 收藏电台，重复收藏不报错
func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	var req stationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, "invalid request body")
		return
	}

	ids, err := h.service.Add(c.Request.Context(), middleware.GetUserID(c), req.StationID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, ids)
}

// RemoveFavorite 取消收藏
// 未收藏时返回 404，响应体仍为当前收藏列表
func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	result, err := h.service.Remove(c.Request.Context(), middleware.GetUserID(c), c.Param("stationId"))
	if err != nil {
		handleError(c, err)
		return
	}
	if !result.Removed {
		c.JSON(http.StatusNotFound, result.List)
		return
	}
	c.JSON(http.StatusOK, result.List)
}
