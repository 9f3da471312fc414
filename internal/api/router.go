package api

import (
	httpSwagger "github.com/swaggo/http-swagger"

	"covid-report/internal/api/handler"
	"covid-report/pkg/router"
)

func RegisterRoutes(r *router.Router, h *handler.Handler) {
	r.GET("/api/v1/views", h.ListViews)
	r.GET("/api/v1/views/*", h.GetView)
	r.GET("/api/v1/exports/*", h.ExportView)
	r.GET("/api/v1/download/*", h.Download)
	r.POST("/api/v1/refresh", h.StartRefresh)
	r.GET("/api/v1/refresh", h.ListRefreshRuns)
	// More specific routes first
	r.GET("/api/v1/refresh/*/errors", h.GetRefreshErrors)
	r.GET("/api/v1/refresh/*", h.GetRefreshRun)

	r.GET("/swagger/*", router.HandlerFunc(httpSwagger.WrapHandler))
}
