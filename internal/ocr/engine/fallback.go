package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/logger"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/ocr"
)

// Fallback bounds every call to the wrapped provider by timeout and answers
// with mock data when the provider cannot be reached. ocr.ErrInvalidFormat
// is passed through untouched.
type Fallback struct {
	inner   ocr.Provider
	timeout time.Duration
	mock    *Mock
}

func NewFallback(inner ocr.Provider, timeout time.Duration) *Fallback {
	return &Fallback{inner: inner, timeout: timeout, mock: NewMock()}
}

func (f *Fallback) Name() string { return f.inner.Name() }

// SupportsEnhanced reports whether ExtractEnhanced actually runs the
// enhanced prompt.
func (f *Fallback) SupportsEnhanced() bool {
	_, ok := f.inner.(ocr.EnhancedProvider)
	return ok
}

func (f *Fallback) ExtractText(ctx context.Context, imagePath string) (*ocr.Result, error) {
	return f.run(ctx, imagePath, f.inner.ExtractText)
}

// ExtractEnhanced silently uses standard mode when the wrapped provider has
// no enhanced support.
func (f *Fallback) ExtractEnhanced(ctx context.Context, imagePath string) (*ocr.Result, error) {
	ep, ok := f.inner.(ocr.EnhancedProvider)
	if !ok {
		logger.DebugLog("[fallback]: %s has no enhanced mode, using standard", f.inner.Name())
		return f.ExtractText(ctx, imagePath)
	}
	return f.run(ctx, imagePath, ep.ExtractEnhanced)
}

func (f *Fallback) Close() error {
	if c, ok := f.inner.(ocr.Closer); ok {
		return c.Close()
	}
	return nil
}

type extractResult struct {
	res *ocr.Result
	err error
}

func (f *Fallback) run(ctx context.Context, imagePath string, call func(context.Context, string) (*ocr.Result, error)) (*ocr.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	// Buffered so a provider that ignores ctx can finish without blocking.
	done := make(chan extractResult, 1)
	go func() {
		res, err := call(ctx, imagePath)
		done <- extractResult{res: res, err: err}
	}()

	var out extractResult
	select {
	case out = <-done:
	case <-ctx.Done():
		out.err = fmt.Errorf("%s: %w", f.inner.Name(), ctx.Err())
	}

	if out.err != nil {
		if errors.Is(out.err, ocr.ErrInvalidFormat) {
			return nil, out.err
		}
		logger.Errorf("[fallback]: provider %s failed for %s, using mock data: %v", f.inner.Name(), imagePath, out.err)
		return f.mockResult(ctx, imagePath)
	}
	if out.res == nil {
		logger.Errorf("[fallback]: provider %s returned no result for %s, using mock data", f.inner.Name(), imagePath)
		return f.mockResult(ctx, imagePath)
	}
	return out.res, nil
}

func (f *Fallback) mockResult(ctx context.Context, imagePath string) (*ocr.Result, error) {
	res, err := f.mock.ExtractText(ctx, imagePath)
	if err != nil {
		return nil, err
	}
	res.Fallback = true
	return res, nil
}
