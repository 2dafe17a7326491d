// Package writer serialises export rows to CSV or JSON files.
package writer

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

type WriteMode int

const (
	ModeReplace WriteMode = iota
	ModeAppend
)

var ErrClosed = errors.New("writer is shutting down")

type MapperFunc[T any] func(T) []string

type HeaderFunc func() []string

type writeRequest[T any] struct {
	rows       []T
	outputPath string
	mode       WriteMode
	response   chan error
}

// CSVWriter funnels every write through one goroutine, so concurrent callers
// can share an output file.
type CSVWriter[T any] struct {
	queue    chan writeRequest[T]
	shutdown chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
	mapper   MapperFunc[T]
	header   HeaderFunc
}

func NewCSVWriter[T any](mapper MapperFunc[T], header HeaderFunc) *CSVWriter[T] {
	cw := &CSVWriter[T]{
		// unbuffered: a send only succeeds when the worker takes it
		queue:    make(chan writeRequest[T]),
		shutdown: make(chan struct{}),
		mapper:   mapper,
		header:   header,
	}
	cw.startWorker()
	return cw
}

func (cw *CSVWriter[T]) startWorker() {
	cw.wg.Add(1)
	go func() {
		defer cw.wg.Done()
		for {
			select {
			case req := <-cw.queue:
				req.response <- cw.writeSync(req.rows, req.outputPath, req.mode)
			case <-cw.shutdown:
				return
			}
		}
	}()
}

func (cw *CSVWriter[T]) Close() {
	cw.once.Do(func() {
		close(cw.shutdown)
		cw.wg.Wait()
	})
}

// Write queues rows for outputPath and waits for the result.
func (cw *CSVWriter[T]) Write(ctx context.Context, rows []T, outputPath string, mode WriteMode) error {
	req := writeRequest[T]{
		rows:       rows,
		outputPath: outputPath,
		mode:       mode,
		response:   make(chan error, 1),
	}

	select {
	case cw.queue <- req:
	case <-cw.shutdown:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	// once queued the write runs to completion
	return <-req.response
}

func (cw *CSVWriter[T]) writeSync(rows []T, outputPath string, mode WriteMode) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	// an appended file keeps the header it already has
	hasHeader := false
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if mode == ModeAppend {
		if info, err := os.Stat(outputPath); err == nil && info.Size() > 0 {
			hasHeader = true
		}
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}

	file, err := os.OpenFile(outputPath, flags, 0644)
	if err != nil {
		return fmt.Errorf("opening CSV file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if !hasHeader && len(rows) > 0 {
		if err := w.Write(cw.header()); err != nil {
			return fmt.Errorf("writing CSV header: %w", err)
		}
	}
	for _, row := range rows {
		if err := w.Write(cw.mapper(row)); err != nil {
			return fmt.Errorf("writing CSV record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}

// WriteJSON writes rows as an indented JSON array. The file is replaced
// atomically.
func WriteJSON[T any](rows []T, outputPath string) error {
	if rows == nil {
		rows = []T{}
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	raw, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(outputPath), ".export-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(append(raw, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("writing JSON: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), outputPath); err != nil {
		return fmt.Errorf("replacing %s: %w", outputPath, err)
	}
	return nil
}
