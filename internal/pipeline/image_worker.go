package pipeline

import (
	"fmt"

	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/logger"
)

// preprocess straightens and enhances the original, returning the processed
// artifact's path.
func (s *Service) preprocess(path string) (string, error) {
	corners, err := s.images.DetectCorners(path)
	if err != nil {
		return "", fmt.Errorf("detecting corners of %s: %w", path, err)
	}
	straightened, err := s.images.CorrectPerspective(path, corners)
	if err != nil {
		return "", fmt.Errorf("correcting perspective of %s: %w", path, err)
	}

	processed, err := s.images.Preprocess(straightened)
	if err != nil {
		logger.DebugLog("[preprocess]: error processing %s: %v", path, err)
		return "", fmt.Errorf("preprocessing image %s: %w", path, err)
	}
	logger.DebugLog("[preprocess]: %s -> %s", path, processed)
	return processed, nil
}
