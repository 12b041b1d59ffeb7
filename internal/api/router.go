package api

import (
	"github.com/julienschmidt/httprouter"
	httpSwagger "github.com/swaggo/http-swagger"

	"oda-forecast/internal/api/handler"
)

// NewRouter builds the HTTP router with every forecast endpoint and the
// swagger UI mounted.
func NewRouter() *httprouter.Router {
	r := httprouter.New()

	r.POST("/api/v1/forecasts", handler.CreateForecast)
	r.GET("/api/v1/forecasts", handler.ListForecasts)
	r.GET("/api/v1/forecasts/:id", handler.GetForecast)
	r.GET("/api/v1/forecasts/:id/results", handler.GetForecastResults)
	r.GET("/api/v1/forecasts/:id/series", handler.GetForecastSeries)
	r.GET("/api/v1/forecasts/:id/errors", handler.GetForecastErrors)
	r.GET("/api/v1/forecasts/:id/export.csv", handler.ExportForecastCSV)
	r.GET("/api/v1/download/:jobID/:filename", handler.DownloadFile)

	r.Handler("GET", "/swagger/*any", httpSwagger.WrapHandler)

	return r
}
