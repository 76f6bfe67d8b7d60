package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xiaoxiao0301/listen-stream-radio/internal/domain"
	"github.com/xiaoxiao0301/listen-stream-radio/internal/middleware"
)

// StationListHandler 电台列表处理器
type StationListHandler struct {
	service StationListLibrary
}

// NewStationListHandler 创建电台列表处理器
func NewStationListHandler(service StationListLibrary) *StationListHandler {
	return &StationListHandler{service: service}
}

// CreateList 创建列表
func (h *StationListHandler) CreateList(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, "invalid request body")
		return
	}

	list, err := h.service.Create(c.Request.Context(), middleware.GetUserID(c), req.Name)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, list)
}

// ListLists 获取当前用户的全部列表，最新创建的在前
func (h *StationListHandler) ListLists(c *gin.Context) {
	lists, err := h.service.ListAll(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	if lists == nil {
		lists = []*domain.StationList{}
	}
	c.JSON(http.StatusOK, lists)
}

// GetList 获取列表详情
func (h *StationListHandler) GetList(c *gin.Context) {
	list, err := h.service.GetDetail(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// RenameList 重命名列表
func (h *StationListHandler) RenameList(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, "invalid request body")
		return
	}

	list, err := h.service.Rename(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), req.Name)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// DeleteList 删除列表及其成员
func (h *StationListHandler) DeleteList(c *gin.Context) {
	deleted, err := h.service.Delete(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	if !deleted {
		handleError(c, domain.ErrListNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddStation 向列表加入电台
func (h *StationListHandler) AddStation(c *gin.Context) {
	var req stationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, "invalid request body")
		return
	}

	list, err := h.service.AddStation(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), req.StationID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// RemoveStation 从列表移除电台，电台不在列表中时同样返回列表
func (h *StationListHandler) RemoveStation(c *gin.Context) {
	result, err := h.service.RemoveStation(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), c.Param("stationId"))
	if err != nil {
		handleError(c, err)
		return
	}
	if result.List == nil {
		handleError(c, domain.ErrListNotFound)
		return
	}
	c.JSON(http.StatusOK, result.List)
}
