package main

import (
	"log"
	"net/http"

	_ "oda-forecast/docs"
	"oda-forecast/internal/api"
	"oda-forecast/internal/store"
)

// @title ODA Forecast API
// @version 1.0
// @description Aggregates ODA funding data into subregions and forecasts future flows with ARIMA and Holt models.
// @host localhost:8080
// @BasePath /api/v1
func main() {
	if err := store.InitDB("forecast.db"); err != nil {
		log.Fatalf("failed to init database: %v", err)
	}

	r := api.NewRouter()

	log.Println("🚀 ODA forecast API listening on :8080")
	if err := http.ListenAndServe(":8080", r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
