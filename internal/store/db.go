package store

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"oda-forecast/internal/model"
)

var db *sql.DB

// InitDB opens the SQLite database and creates the schema if missing.
func InitDB(dbPath string) error {
	var err error
	db, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}

	jobTable := `
	CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		spec TEXT,
		status TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);
	`
	errorTable := `
	CREATE TABLE IF NOT EXISTS job_errors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		job_id TEXT,
		error_message TEXT,
		created_at DATETIME
	);
	`
	resultTable := `
	CREATE TABLE IF NOT EXISTS forecast_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		job_id TEXT,
		subregion TEXT,
		result TEXT,
		created_at DATETIME,
		UNIQUE(job_id, subregion)
	);
	`
	seriesTable := `
	CREATE TABLE IF NOT EXISTS wide_series (
		job_id TEXT PRIMARY KEY,
		series TEXT,
		created_at DATETIME
	);
	`

	for _, stmt := range []string{jobTable, errorTable, resultTable, seriesTable} {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

// SaveJob stores a new forecast job
func SaveJob(jobID string, spec model.ForecastJobSpec) error {
	specJSON, err := json.Marshal(spec)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = db.Exec(`INSERT INTO jobs (id, spec, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		jobID, specJSON, "pending", now, now)
	return err
}

// UpdateJobStatus updates job status
func UpdateJobStatus(jobID string, status string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`UPDATE jobs SET status = ?, updated_at = ? WHERE id = ?`, status, now, jobID)
	return err
}

// SaveJobError records an error or warning for a job
func SaveJobError(jobID string, err error) error {
	if err == nil {
		return nil
	}
	now := time.Now().UTC()
	_, e := db.Exec(`INSERT INTO job_errors (job_id, error_message, created_at) VALUES (?, ?, ?)`,
		jobID, err.Error(), now)
	return e
}

// GetJobErrors returns every error recorded for a job, oldest first.
func GetJobErrors(jobID string) ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT error_message, created_at FROM job_errors WHERE job_id = ? ORDER BY created_at`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var errors []map[string]interface{}
	for rows.Next() {
		var message string
		var createdAt time.Time
		if err := rows.Scan(&message, &createdAt); err != nil {
			return nil, err
		}
		errors = append(errors, map[string]interface{}{
			"message":   message,
			"createdAt": createdAt,
		})
	}
	return errors, rows.Err()
}

// ListJobs returns all jobs with basic info
func ListJobs() ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT id, status, created_at, updated_at FROM jobs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []map[string]interface{}
	for rows.Next() {
		var id, status string
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&id, &status, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		jobs = append(jobs, map[string]interface{}{
			"id":        id,
			"status":    status,
			"createdAt": createdAt,
			"updatedAt": updatedAt,
		})
	}
	return jobs, rows.Err()
}

// GetJob fetches full job spec and status
func GetJob(jobID string) (map[string]interface{}, error) {
	var specJSON string
	var status string
	var createdAt, updatedAt time.Time

	err := db.QueryRow(`SELECT spec, status, created_at, updated_at FROM jobs WHERE id = ?`, jobID).
		Scan(&specJSON, &status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	var spec model.ForecastJobSpec
	if err := json.Unmarshal([]byte(specJSON), &spec); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"id":        jobID,
		"spec":      spec,
		"status":    status,
		"createdAt": createdAt,
		"updatedAt": updatedAt,
	}, nil
}

// SaveForecastResult upserts one subregion's modeling output for a job.
func SaveForecastResult(jobID, subregion string, result *model.ForecastResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = db.Exec(`INSERT INTO forecast_results (job_id, subregion, result, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(job_id, subregion) DO UPDATE SET result = excluded.result, created_at = excluded.created_at`,
		jobID, subregion, resultJSON, now)
	return err
}

// GetForecastResults returns every subregion result stored for a job.
func GetForecastResults(jobID string) (map[string]*model.ForecastResult, error) {
	rows, err := db.Query(`SELECT subregion, result FROM forecast_results WHERE job_id = ?`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make(map[string]*model.ForecastResult)
	for rows.Next() {
		var subregion, resultJSON string
		if err := rows.Scan(&subregion, &resultJSON); err != nil {
			return nil, err
		}
		var result model.ForecastResult
		if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
			return nil, err
		}
		results[subregion] = &result
	}
	return results, rows.Err()
}

// SaveWideSeries stores the job's aggregated subregion table.
func SaveWideSeries(jobID string, wide *model.WideTable) error {
	seriesJSON, err := json.Marshal(wide)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = db.Exec(`INSERT INTO wide_series (job_id, series, created_at) VALUES (?, ?, ?)
		ON CONFLICT(job_id) DO UPDATE SET series = excluded.series, created_at = excluded.created_at`,
		jobID, seriesJSON, now)
	return err
}

// GetWideSeries returns the job's aggregated subregion table.
func GetWideSeries(jobID string) (*model.WideTable, error) {
	var seriesJSON string
	err := db.QueryRow(`SELECT series FROM wide_series WHERE job_id = ?`, jobID).Scan(&seriesJSON)
	if err != nil {
		return nil, err
	}
	var wide model.WideTable
	if err := json.Unmarshal([]byte(seriesJSON), &wide); err != nil {
		return nil, err
	}
	return &wide, nil
}
