package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputManager handles output file organization and path management.
// Every job gets its own directory under the base output dir.
type OutputManager struct {
	BaseOutputDir string
}

// NewOutputManager creates a new output manager
func NewOutputManager(baseOutputDir string) *OutputManager {
	return &OutputManager{
		BaseOutputDir: baseOutputDir,
	}
}

// CreateJobOutputDir creates the per-job directory for a job's outputs
func (om *OutputManager) CreateJobOutputDir(jobID string) (string, error) {
	jobDir := filepath.Join(om.BaseOutputDir, jobID)

	err := os.MkdirAll(jobDir, 0755)
	if err != nil {
		return "", fmt.Errorf("failed to create job output directory: %w", err)
	}

	return jobDir, nil
}

// GetOutputFilePath generates a full path for an output file inside the
// job's directory, creating the directory if needed.
func (om *OutputManager) GetOutputFilePath(jobID, fileName string) (string, error) {
	jobDir, err := om.CreateJobOutputDir(jobID)
	if err != nil {
		return "", err
	}

	// Strip any path separators smuggled in via the file name
	cleanFileName := filepath.Base(fileName)

	return filepath.Join(jobDir, cleanFileName), nil
}

// GetDownloadURL generates a download URL for an exported file
func (om *OutputManager) GetDownloadURL(jobID, fileName string) string {
	cleanFileName := filepath.Base(fileName)
	return fmt.Sprintf("/api/v1/download/%s/%s", jobID, cleanFileName)
}

// GetFileSize returns the size of a file in bytes
func (om *OutputManager) GetFileSize(filePath string) (int64, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return 0, err
	}
	return fileInfo.Size(), nil
}

// SanitizeFileName converts an arbitrary label like "East Africa" into a
// safe file-name fragment: lowercase, spaces and separators replaced by
// underscores.
func SanitizeFileName(label string) string {
	s := strings.ToLower(strings.TrimSpace(label))
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ",", "", ".", "", "'", "")
	return replacer.Replace(s)
}
