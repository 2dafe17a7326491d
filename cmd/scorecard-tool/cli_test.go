package main

import (
	"bytes"
	"context"
	"encoding/json"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/config"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/store"
)

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "scorecard.yaml")
	content := "database:\n  driver: sqlite\n  dsn: " + filepath.Join(dir, "cli.db") + "\nocr:\n  default: mock\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun_Usage(t *testing.T) {
	var out bytes.Buffer
	cli := NewCLI(&out)

	assert.ErrorIs(t, cli.Run(nil), errUsage)
	assert.ErrorIs(t, cli.Run([]string{"frobnicate"}), errUsage)
	assert.Error(t, cli.Run([]string{"approve", "-id", "not-a-uuid"}))
	assert.Error(t, cli.Run([]string{"export", "-format", "xml"}))
}

func TestRun_ProcessAndReview(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)
	images := filepath.Join(dir, "images")
	require.NoError(t, os.MkdirAll(images, 0o755))
	require.NoError(t, imaging.Save(imaging.New(50, 30, color.White), filepath.Join(images, "card.png")))
	reportPath := filepath.Join(dir, "report.json")
	var out bytes.Buffer
	cli := NewCLI(&out)

	// Act
	err := cli.Run([]string{"process", "-config", cfgPath, "-images", images, "-user", "u1", "-report", reportPath})

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out.String(), "processed=1 created=0 skipped=0 errors=0")
	raw, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var items []map[string]any
	require.NoError(t, json.Unmarshal(raw, &items))
	assert.Len(t, items, 1)

	// the mock provider's course is staged for review
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	repo, err := store.Open(cfg.Database)
	require.NoError(t, err)
	pending, err := repo.ListUnverifiedCourses(context.Background(), store.CoursePending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.NoError(t, repo.Close())

	out.Reset()
	require.NoError(t, cli.Run([]string{"approve", "-config", cfgPath, "-id", pending[0].ID.String(), "-notes", "checked"}))
	assert.Contains(t, out.String(), "Approved "+pending[0].ID.String())

	out.Reset()
	require.NoError(t, cli.Run([]string{"courses", "-config", cfgPath, "-status", "verified"}))
	assert.Contains(t, out.String(), "Mock Valley Golf Club")

	assert.Error(t, cli.Run([]string{"reject", "-config", cfgPath, "-id", pending[0].ID.String()}),
		"an approved course cannot be rejected")
}

func TestRun_ExportAndAccuracy(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)
	outPath := filepath.Join(dir, "training.csv")
	var out bytes.Buffer
	cli := NewCLI(&out)

	// Act
	err := cli.Run([]string{"export", "-config", cfgPath, "-format", "csv", "-out", outPath})

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Exported 0 records")
	assert.FileExists(t, outPath)

	out.Reset()
	require.NoError(t, cli.Run([]string{"accuracy", "-config", cfgPath}))
	assert.Contains(t, out.String(), "Records: 0")
}
