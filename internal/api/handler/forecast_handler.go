package handler

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"

	"oda-forecast/internal/model"
	"oda-forecast/internal/pipeline"
	"oda-forecast/internal/store"
	"oda-forecast/pkg/utils"
)

// CreateForecast creates a new forecast job
// @Summary Create a new forecast job
// @Description Create and start a forecast job for the provided data source
// @Tags forecasts
// @Accept json
// @Produce json
// @Param forecast body model.ForecastJobSpec true "Forecast job configuration"
// @Success 200 {object} map[string]interface{} "Forecast job created successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request payload"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /forecasts [post]
func CreateForecast(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var spec model.ForecastJobSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	if spec.Source.URL == "" {
		http.Error(w, "A source URL is required", http.StatusBadRequest)
		return
	}

	spec.ApplyDefaults()
	jobID := uuid.New().String()

	if err := store.SaveJob(jobID, spec); err != nil {
		http.Error(w, "Failed to save job", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), utils.ParseDuration(spec.Concurrency.JobTimeout))

	go func() {
		defer cancel()
		if err := pipeline.Run(ctx, jobID, spec); err != nil {
			store.SaveJobError(jobID, err)
		}
	}()

	resp := map[string]interface{}{
		"message":   "Forecast job created successfully!",
		"jobID":     jobID,
		"status":    "pending",
		"createdAt": time.Now().UTC(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// ListForecasts retrieves all forecast jobs
// @Summary List all forecast jobs
// @Description Get a list of all forecast jobs with their current status
// @Tags forecasts
// @Accept json
// @Produce json
// @Success 200 {array} map[string]interface{} "List of forecast jobs"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /forecasts [get]
func ListForecasts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	jobs, err := store.ListJobs()
	if err != nil {
		http.Error(w, "Failed to fetch forecast jobs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(jobs)
}

// GetForecast retrieves a specific forecast job
// @Summary Get forecast job
// @Description Retrieve the configuration and status of a forecast job
// @Tags forecasts
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} map[string]interface{} "Job details"
// @Failure 404 {object} map[string]interface{} "Job not found"
// @Router /forecasts/{id} [get]
func GetForecast(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	jobID := ps.ByName("id")

	job, err := store.GetJob(jobID)
	if err != nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job)
}

// GetForecastResults retrieves per-subregion modeling results
// @Summary Get forecast results
// @Description Retrieve per-subregion model fits, accuracy metrics, and forward forecasts
// @Tags forecasts
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} map[string]interface{} "Forecast results"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /forecasts/{id}/results [get]
func GetForecastResults(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	jobID := ps.ByName("id")

	results, err := store.GetForecastResults(jobID)
	if err != nil {
		http.Error(w, "Failed to retrieve results", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"job_id":  jobID,
		"results": results,
		"count":   len(results),
	})
}

// GetForecastSeries retrieves the aggregated subregion series
// @Summary Get aggregated series
// @Description Retrieve the aggregated year-by-subregion table the forecasts were fit on
// @Tags forecasts
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} model.WideTable "Aggregated series"
// @Failure 404 {object} map[string]interface{} "Series not found"
// @Router /forecasts/{id}/series [get]
func GetForecastSeries(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	jobID := ps.ByName("id")

	wide, err := store.GetWideSeries(jobID)
	if err != nil {
		http.Error(w, "Series not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(wide)
}

// GetForecastErrors retrieves errors and warnings for a job
// @Summary Get forecast job errors
// @Description Retrieve all errors and model warnings recorded during job execution
// @Tags forecasts
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} map[string]interface{} "Job errors"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /forecasts/{id}/errors [get]
func GetForecastErrors(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	jobID := ps.ByName("id")

	errors, err := store.GetJobErrors(jobID)
	if err != nil {
		http.Error(w, "Failed to retrieve errors", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"job_id": jobID,
		"errors": errors,
		"count":  len(errors),
	})
}

// ExportForecastCSV streams the combined forward forecast as CSV
// @Summary Export combined forecast CSV
// @Description Stream every subregion's forward forecast as a single CSV table
// @Tags forecasts
// @Accept json
// @Produce text/csv
// @Param id path string true "Job ID"
// @Success 200 {file} file "Combined forecast CSV"
// @Failure 404 {object} map[string]interface{} "Results not found"
// @Router /forecasts/{id}/export.csv [get]
func ExportForecastCSV(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	jobID := ps.ByName("id")

	results, err := store.GetForecastResults(jobID)
	if err != nil || len(results) == 0 {
		http.Error(w, "Results not found", http.StatusNotFound)
		return
	}
	wide, err := store.GetWideSeries(jobID)
	if err != nil {
		http.Error(w, "Series not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"forecast_%s.csv\"", jobID))

	writer := csv.NewWriter(w)
	wroteHeader := false
	for _, subregion := range wide.Columns {
		result, ok := results[subregion]
		if !ok {
			continue
		}
		flat := result.FlattenForecast()
		if !wroteHeader {
			writer.Write(append([]string{"Subregion"}, flat[0]...))
			wroteHeader = true
		}
		for _, row := range flat[1:] {
			writer.Write(append([]string{subregion}, row...))
		}
	}
	writer.Flush()
}

// DownloadFile serves an exported file for download
// @Summary Download exported file
// @Description Download a specific output file produced by a forecast job
// @Tags files
// @Produce application/octet-stream
// @Param jobID path string true "Job ID"
// @Param filename path string true "File name"
// @Success 200 {file} file "File download"
// @Failure 404 {object} map[string]interface{} "File not found"
// @Router /download/{jobID}/{filename} [get]
func DownloadFile(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	jobID := ps.ByName("jobID")
	fileName := filepath.Base(ps.ByName("filename"))

	filePath := filepath.Join("outputs", jobID, fileName)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", fileName))
	w.Header().Set("Content-Type", "application/octet-stream")
	http.ServeFile(w, r, filePath)
}
