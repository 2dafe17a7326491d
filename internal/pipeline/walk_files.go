package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/logger"
)

// walkFiles sends every candidate image in directory on results. Formats
// the upload boundary rejects are still sent so they are counted as skipped.
func walkFiles(ctx context.Context, directory string, results chan<- string) error {
	files, err := os.ReadDir(directory)
	if err != nil {
		logger.DebugLog("[walkFiles]: failed to read directory %s: %v", directory, err)
		return fmt.Errorf("reading directory %s: %w", directory, err)
	}

	for _, file := range files {
		fileName := file.Name()
		if file.IsDir() || isProcessedFile(fileName) || !isImageFile(fileName) {
			continue
		}
		fullPath := filepath.Join(directory, fileName)
		logger.DebugLog("[walkFiles]: sending file %s", fullPath)
		select {
		case results <- fullPath:
		case <-ctx.Done():
			logger.DebugLog("[walkFiles]: context done while sending file %s", fullPath)
			return ctx.Err()
		}
	}
	return nil
}

func isProcessedFile(filename string) bool {
	return strings.Contains(filename, "_processed")
}

func isImageFile(filename string) bool {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")) {
	case "jpg", "jpeg", "png", "tiff", "bmp":
		return true
	}
	return false
}
