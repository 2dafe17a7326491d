// Package reconcile matches parsed scorecards against the course database,
// creating verified courses or staging unverified ones.
package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/config"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/golf"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/logger"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/scorecard"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/store"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/validation"
)

var ErrNoData = errors.New("no course data to reconcile")

const maxCreateAttempts = 3

// CourseStore is the persistence the engine needs. *store.Repository
// satisfies it.
type CourseStore interface {
	FindVerifiedCourse(ctx context.Context, name, teeName string) (*store.Course, error)
	FindOrCreateVerifiedCourse(ctx context.Context, c *store.Course) (*store.Course, bool, error)
	UpsertUnverifiedCourse(ctx context.Context, uc *store.UnverifiedCourse) (*store.UnverifiedCourse, bool, error)
}

type Request struct {
	ScanID     uuid.UUID
	Sources    scorecard.Sources
	Confidence float64
}

type Outcome struct {
	// Data is the merged record the decision was made on.
	Data       *golf.CourseData
	Validation validation.Result

	CourseCreated bool
	CourseID      *uuid.UUID
	Course        *store.Course

	Staged     bool
	Unverified *store.UnverifiedCourse

	Errors   []string
	Warnings []string
}

// Matched reports whether a verified course was resolved.
func (o *Outcome) Matched() bool {
	return o.Course != nil
}

type Engine struct {
	courses   CourseStore
	validator *validation.Validator
	threshold float64
	locks     *keyedMutex
}

func NewEngine(courses CourseStore, cfg config.ReconcileConfig) *Engine {
	return &Engine{
		courses:   courses,
		validator: validation.New(validation.Standard),
		threshold: cfg.ConfidenceThreshold,
		locks:     newKeyedMutex(),
	}
}

// Reconcile resolves the scan's course: an existing verified match, a newly
// created verified course when confidence reaches the threshold, or a staged
// unverified submission otherwise.
func (e *Engine) Reconcile(ctx context.Context, req Request) (*Outcome, error) {
	data := scorecard.SelectBest(req.Sources)
	if data.IsEmpty() {
		return nil, ErrNoData
	}

	res := e.validator.Validate(data)
	out := &Outcome{
		Data:       data,
		Validation: res,
		Errors:     res.ErrorMessages(),
		Warnings:   res.WarningMessages(),
	}
	if !res.Valid {
		logger.Infof("[reconcile] scan %s: %v", req.ScanID, out.Errors)
		return out, nil
	}

	unlock := e.locks.Lock(courseKey(data.CourseName, data.TeeName))
	defer unlock()

	existing, err := e.courses.FindVerifiedCourse(ctx, data.CourseName, data.TeeName)
	switch {
	case err == nil:
		logger.DebugLog("[reconcile] scan %s matched course %s", req.ScanID, existing.ID)
		out.useCourse(existing, false)
		return out, nil
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("matching course %q: %w", data.CourseName, err)
	}

	if req.Confidence >= e.threshold {
		course, created, err := e.createVerified(ctx, data)
		if err == nil {
			out.useCourse(course, created)
			if created {
				logger.Infof("[reconcile] scan %s created verified course %q (%s)", req.ScanID, course.Name, course.ID)
			}
			return out, nil
		}
		logger.Errorf("[reconcile] scan %s: creating course %q failed, staging instead: %v", req.ScanID, data.CourseName, err)
	}

	uc, created, err := e.courses.UpsertUnverifiedCourse(ctx, toUnverified(data))
	if err != nil {
		return nil, fmt.Errorf("staging course %q: %w", data.CourseName, err)
	}
	out.Staged = true
	out.Unverified = uc
	if created {
		logger.Infof("[reconcile] scan %s staged course %q for review", req.ScanID, uc.Name)
	} else {
		logger.DebugLog("[reconcile] scan %s: course %q now has %d submissions", req.ScanID, uc.Name, uc.SubmissionCount)
	}
	return out, nil
}

// createVerified inserts the course, treating a unique violation as a
// concurrent insert and re-matching.
func (e *Engine) createVerified(ctx context.Context, data *golf.CourseData) (*store.Course, bool, error) {
	var lastErr error
	for range maxCreateAttempts {
		course, created, err := e.courses.FindOrCreateVerifiedCourse(ctx, toCourse(data))
		if err == nil {
			return course, created, nil
		}
		lastErr = err
		if !errors.Is(err, store.ErrDuplicate) {
			return nil, false, err
		}
		existing, err := e.courses.FindVerifiedCourse(ctx, data.CourseName, data.TeeName)
		if err == nil {
			return existing, false, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, false, err
		}
	}
	return nil, false, lastErr
}

func (o *Outcome) useCourse(c *store.Course, created bool) {
	id := c.ID
	o.Course = c
	o.CourseID = &id
	o.CourseCreated = created
}

func toCourse(d *golf.CourseData) *store.Course {
	return &store.Course{
		Name:           d.CourseName,
		TeeName:        d.TeeName,
		ParValues:      copyInts(d.ParValues),
		HandicapValues: copyInts(d.HandicapValues),
		SlopeRating:    d.SlopeRating,
		CourseRating:   d.CourseRating,
		Location:       d.Location,
	}
}

func toUnverified(d *golf.CourseData) *store.UnverifiedCourse {
	return &store.UnverifiedCourse{
		Name:           d.CourseName,
		TeeName:        d.TeeName,
		ParValues:      copyInts(d.ParValues),
		HandicapValues: copyInts(d.HandicapValues),
		SlopeRating:    d.SlopeRating,
		CourseRating:   d.CourseRating,
		Location:       d.Location,
	}
}

func copyInts(v []int) []int {
	if len(v) == 0 {
		return nil
	}
	return append([]int(nil), v...)
}
