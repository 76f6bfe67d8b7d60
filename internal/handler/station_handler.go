package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xiaoxiao0301/listen-stream-radio/internal/upstream"
)

// StationHandler 在线电台处理器
type StationHandler struct {
	stations LiveStations
}

// NewStationHandler 创建在线电台处理器
func NewStationHandler(stations LiveStations) *StationHandler {
	return &StationHandler{stations: stations}
}

// SearchLive 检索在线电台 ?limit=&name=&tag=
func (h *StationHandler) SearchLive(c *gin.Context) {
	var params upstream.SearchParams

	if raw, ok := c.GetQuery("limit"); ok && raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			validationError(c, "limit must be an integer")
			return
		}
		params.Limit = &limit
	}
	if name, ok := c.GetQuery("name"); ok {
		params.Name = &name
	}
	if tag, ok := c.GetQuery("tag"); ok {
		params.Tag = &tag
	}

	stations, err := h.stations.Search(c.Request.Context(), params)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, stations)
}
