package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// allowedExtensions lists the dataset file types the pipeline accepts.
var allowedExtensions = map[string]bool{
	".csv":  true,
	".xls":  true,
	".xlsx": true,
}

// UploadManager handles storage of uploaded dataset files.
type UploadManager struct {
	Dir string
}

// NewUploadManager creates an upload manager rooted at dir.
func NewUploadManager(dir string) *UploadManager {
	return &UploadManager{Dir: dir}
}

// EnsureDir creates the upload directory if it does not exist.
func (um *UploadManager) EnsureDir() error {
	return os.MkdirAll(um.Dir, 0755)
}

// Allowed reports whether the file extension is accepted for upload.
func (um *UploadManager) Allowed(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Save writes an uploaded file under a collision-free name and returns
// the stored path. The original name is kept as a suffix for readability.
func (um *UploadManager) Save(src io.Reader, originalName string) (string, error) {
	if err := um.EnsureDir(); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	cleanName := filepath.Base(originalName)
	path := filepath.Join(um.Dir, fmt.Sprintf("%s_%s", uuid.New().String(), cleanName))

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}
	return path, nil
}

// FileType determines the dataset type from a file name.
func (um *UploadManager) FileType(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return "csv"
	case ".xlsx", ".xls":
		return "excel"
	default:
		return "unknown"
	}
}
