package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/logger"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/store"
)

// BatchItem is one upload's result inside a batch. Error is set when the
// upload never became a scan.
type BatchItem struct {
	ImagePath string      `json:"image_path"`
	Report    *ScanReport `json:"report,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// BatchReport counts a batch: Processed scans reached completed, Created is
// the verified courses they created, Skipped uploads were rejected at the
// boundary, and Errors is failed scans plus uploads that could not start.
type BatchReport struct {
	Processed int         `json:"processed"`
	Created   int         `json:"created"`
	Skipped   int         `json:"skipped"`
	Errors    int         `json:"errors"`
	Items     []BatchItem `json:"items"`
}

// batchResult collects items from concurrent workers.
type batchResult struct {
	mu     sync.Mutex
	report BatchReport
}

func (b *batchResult) add(item BatchItem, rejected bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case rejected:
		b.report.Skipped++
	case item.Report == nil:
		b.report.Errors++
	case item.Report.Status == store.ScanCompleted:
		b.report.Processed++
		if item.Report.CourseCreated {
			b.report.Created++
		}
	default:
		b.report.Errors++
	}
	b.report.Items = append(b.report.Items, item)
}

func (b *batchResult) done() BatchReport {
	b.mu.Lock()
	defer b.mu.Unlock()

	sort.Slice(b.report.Items, func(i, j int) bool {
		return b.report.Items[i].ImagePath < b.report.Items[j].ImagePath
	})
	return b.report
}

// RunBatch processes uploads with at most the configured number of workers.
// A failing upload never stops the others.
func (s *Service) RunBatch(ctx context.Context, uploads []Upload) BatchReport {
	in := make(chan Upload)
	go func() {
		defer close(in)
		for _, up := range uploads {
			select {
			case in <- up:
			case <-ctx.Done():
				return
			}
		}
	}()
	return s.consume(ctx, in)
}

// ProcessDirectory runs every image directly inside dir as a batch for
// userID.
func (s *Service) ProcessDirectory(ctx context.Context, userID, dir string) (BatchReport, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	paths := make(chan string)
	in := make(chan Upload)
	var walkErr error
	go func() {
		defer close(paths)
		walkErr = walkFiles(ctx, dir, paths)
	}()
	go func() {
		defer close(in)
		forwardChan(ctx, paths, in, func(p string) Upload {
			return Upload{UserID: userID, ImagePath: p}
		})
	}()

	report := s.consume(ctx, in)
	if walkErr != nil {
		return report, walkErr
	}
	logger.Infof("[pipeline] %s: processed=%d created=%d skipped=%d errors=%d",
		dir, report.Processed, report.Created, report.Skipped, report.Errors)
	return report, nil
}

func (s *Service) consume(ctx context.Context, in <-chan Upload) BatchReport {
	var (
		g   errgroup.Group
		res batchResult
	)
	g.SetLimit(s.workers)

	for up := range in {
		g.Go(func() error {
			rep, err := s.ProcessScan(ctx, up)
			item := BatchItem{ImagePath: up.ImagePath, Report: rep}
			if err != nil {
				logger.DebugLog("[batch]: %s: %v", up.ImagePath, err)
				item.Error = err.Error()
			}
			res.add(item, err != nil && isRejectedUpload(err))
			return nil
		})
	}
	// workers report through res and never return errors
	_ = g.Wait()
	return res.done()
}

// forwardChan relays values from src to dst through conv until src closes
// or ctx is done.
func forwardChan[S, D any](ctx context.Context, src <-chan S, dst chan<- D, conv func(S) D) {
	for v := range src {
		select {
		case dst <- conv(v):
		case <-ctx.Done():
			for range src {
			}
			return
		}
	}
}

func (r BatchReport) String() string {
	return fmt.Sprintf("processed=%d created=%d skipped=%d errors=%d", r.Processed, r.Created, r.Skipped, r.Errors)
}
