package store

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/logger"
)

const maxUpsertAttempts = 3

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(s))) + "%"
}

func forUpdate() clause.Expression {
	// sqlite dialectors drop the locking clause
	return clause.Locking{Strength: "UPDATE"}
}

// FindVerifiedCourse returns the first verified course whose name and tee
// contain the given values, ignoring case.
func (r *Repository) FindVerifiedCourse(ctx context.Context, name, teeName string) (*Course, error) {
	course, err := findVerified(r.db.WithContext(ctx), name, teeName, false)
	if err != nil {
		return nil, dbError(err)
	}
	return course, nil
}

func findVerified(tx *gorm.DB, name, teeName string, lock bool) (*Course, error) {
	q := tx.Where(`is_verified = ? AND LOWER(name) LIKE ? ESCAPE '\' AND LOWER(tee_name) LIKE ? ESCAPE '\'`,
		true, containsPattern(name), containsPattern(teeName))
	if lock {
		q = q.Clauses(forUpdate())
	}
	var course Course
	if err := q.Order("created_at, id").First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *Repository) GetCourse(ctx context.Context, id uuid.UUID) (*Course, error) {
	var course Course
	if err := r.db.WithContext(ctx).First(&course, "id = ?", id).Error; err != nil {
		return nil, dbError(err)
	}
	return &course, nil
}

// FindOrCreateVerifiedCourse matches an existing verified course or inserts
// c, in one transaction. A concurrent insert of the same course surfaces as
// ErrDuplicate so the caller can re-match.
func (r *Repository) FindOrCreateVerifiedCourse(ctx context.Context, c *Course) (*Course, bool, error) {
	var (
		result  *Course
		created bool
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		result, created, err = findOrCreateVerified(tx, c)
		return err
	})
	if err != nil {
		return nil, false, dbError(err)
	}
	return result, created, nil
}

func findOrCreateVerified(tx *gorm.DB, c *Course) (*Course, bool, error) {
	existing, err := findVerified(tx, c.Name, c.TeeName, true)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	c.IsVerified = true
	if err := tx.Create(c).Error; err != nil {
		return nil, false, err
	}
	return c, true, nil
}

// UpsertUnverifiedCourse increments the submission count of the first pending
// entry whose name and tee contain uc's, ignoring case, or stages uc as a new
// pending entry.
func (r *Repository) UpsertUnverifiedCourse(ctx context.Context, uc *UnverifiedCourse) (*UnverifiedCourse, bool, error) {
	var lastErr error
	for attempt := 1; attempt <= maxUpsertAttempts; attempt++ {
		result, created, err := r.upsertUnverified(ctx, uc)
		if err == nil {
			return result, created, nil
		}
		lastErr = err
		if !isUniqueViolation(err) {
			break
		}
		logger.DebugLog("[store] pending course %q/%q inserted concurrently, retrying (%d)", uc.Name, uc.TeeName, attempt)
	}
	return nil, false, dbError(lastErr)
}

func (r *Repository) upsertUnverified(ctx context.Context, uc *UnverifiedCourse) (*UnverifiedCourse, bool, error) {
	var (
		result  *UnverifiedCourse
		created bool
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pending UnverifiedCourse
		err := tx.Clauses(forUpdate()).
			Where(`status = ? AND LOWER(name) LIKE ? ESCAPE '\' AND LOWER(tee_name) LIKE ? ESCAPE '\'`,
				CoursePending, containsPattern(uc.Name), containsPattern(uc.TeeName)).
			Order("created_at, id").
			First(&pending).Error
		switch {
		case err == nil:
			if err := tx.Model(&pending).
				UpdateColumn("submission_count", gorm.Expr("submission_count + 1")).Error; err != nil {
				return err
			}
			if err := tx.First(&pending, "id = ?", pending.ID).Error; err != nil {
				return err
			}
			result = &pending
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			row := *uc
			row.ID = uuid.Nil
			row.Name = strings.TrimSpace(row.Name)
			row.TeeName = strings.TrimSpace(row.TeeName)
			row.Status = CoursePending
			row.SubmissionCount = 1
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			result, created = &row, true
			return nil
		default:
			return err
		}
	})
	return result, created, err
}

func (r *Repository) ListUnverifiedCourses(ctx context.Context, status CourseStatus) ([]UnverifiedCourse, error) {
	var out []UnverifiedCourse
	q := r.db.WithContext(ctx).Order("created_at, id")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, dbError(err)
	}
	return out, nil
}

func (r *Repository) ListVerifiedCourses(ctx context.Context) ([]Course, error) {
	var out []Course
	if err := r.db.WithContext(ctx).Where("is_verified = ?", true).Order("created_at, id").Find(&out).Error; err != nil {
		return nil, dbError(err)
	}
	return out, nil
}

// ApproveUnverifiedCourse promotes a pending submission to a verified
// course, reusing an existing verified course with the same name and tee.
func (r *Repository) ApproveUnverifiedCourse(ctx context.Context, id uuid.UUID, notes string) (*Course, error) {
	var course *Course
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		uc, err := lockPending(tx, id)
		if err != nil {
			return err
		}
		course, _, err = findOrCreateVerified(tx, &Course{
			Name:           uc.Name,
			TeeName:        uc.TeeName,
			ParValues:      uc.ParValues,
			HandicapValues: uc.HandicapValues,
			SlopeRating:    uc.SlopeRating,
			CourseRating:   uc.CourseRating,
			Location:       uc.Location,
		})
		if err != nil {
			return err
		}
		return tx.Model(uc).Updates(map[string]any{
			"status":             CourseApproved,
			"admin_notes":        notes,
			"approved_course_id": course.ID,
		}).Error
	})
	if err != nil {
		return nil, dbError(err)
	}
	logger.Infof("[store] approved course %s as %s", id, course.ID)
	return course, nil
}

func (r *Repository) RejectUnverifiedCourse(ctx context.Context, id uuid.UUID, notes string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		uc, err := lockPending(tx, id)
		if err != nil {
			return err
		}
		return tx.Model(uc).Updates(map[string]any{
			"status":      CourseRejected,
			"admin_notes": notes,
		}).Error
	})
	if err != nil {
		return dbError(err)
	}
	logger.Infof("[store] rejected course %s", id)
	return nil
}

func lockPending(tx *gorm.DB, id uuid.UUID) (*UnverifiedCourse, error) {
	var uc UnverifiedCourse
	if err := tx.Clauses(forUpdate()).First(&uc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if uc.Status != CoursePending {
		return nil, &RepositoryError{
			Code:    CodeInvalidState,
			Message: "Course is not pending",
			Detail:  string(uc.Status),
			Err:     ErrInvalidState,
		}
	}
	return &uc, nil
}
