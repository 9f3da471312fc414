package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputManager handles export file organization and path management.
type OutputManager struct {
	BaseOutputDir string
}

// NewOutputManager creates a new output manager.
func NewOutputManager(baseOutputDir string) *OutputManager {
	return &OutputManager{BaseOutputDir: baseOutputDir}
}

// CreateExportDir creates a per-export directory named by the export ID.
func (om *OutputManager) CreateExportDir(exportID string) (string, error) {
	dir := filepath.Join(om.BaseOutputDir, exportID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	return dir, nil
}

// GetOutputFilePath returns the full path for an export file, with the
// filename stripped of any path separators.
func (om *OutputManager) GetOutputFilePath(exportID, fileName string) (string, error) {
	dir, err := om.CreateExportDir(exportID)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filepath.Base(fileName)), nil
}

// GetDownloadURL generates the download URL for an exported file.
func (om *OutputManager) GetDownloadURL(exportID, fileName string) string {
	return fmt.Sprintf("/api/v1/download/%s/%s", exportID, filepath.Base(fileName))
}

// GetFileType determines the file type from the extension.
func (om *OutputManager) GetFileType(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return "csv"
	case ".json":
		return "json"
	default:
		return "unknown"
	}
}

// GetFileSize returns the size of a file in bytes.
func (om *OutputManager) GetFileSize(filePath string) (int64, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return 0, err
	}
	return fileInfo.Size(), nil
}
