package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Router 路由依赖
type Router struct {
	Favorites *FavoriteHandler
	Lists     *StationListHandler
	Stations  *StationHandler
	Health    *HealthHandler
	Auth      gin.HandlerFunc
	RateLimit gin.HandlerFunc // nil 时不限流，挂在 Auth 之后
	Metrics   http.Handler    // nil 时不暴露 /metrics
}

// Register 注册全部路由
// /health、/ready、/metrics 无需认证，/api/v1 下全部需要 Bearer Token
func (r *Router) Register(engine *gin.Engine) {
	engine.GET("/health", r.Health.Health)
	engine.GET("/ready", r.Health.Ready)
	if r.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(r.Metrics))
	}

	api := engine.Group("/api/v1", r.Auth)
	if r.RateLimit != nil {
		api.Use(r.RateLimit)
	}

	favorites := api.Group("/favorites")
	favorites.GET("", r.Favorites.ListFavorites)
	favorites.POST("", r.Favorites.AddFavorite)
	favorites.DELETE("/:stationId", r.Favorites.RemoveFavorite)

	lists := api.Group("/lists")
	lists.POST("", r.Lists.CreateList)
	lists.GET("", r.Lists.ListLists)
	lists.GET("/:id", r.Lists.GetList)
	lists.PUT("/:id", r.Lists.RenameList)
	lists.DELETE("/:id", r.Lists.DeleteList)
	lists.POST("/:id/stations", r.Lists.AddStation)
	lists.DELETE("/:id/stations/:stationId", r.Lists.RemoveStation)

	api.GET("/stations/live", r.Stations.SearchLive)
}
