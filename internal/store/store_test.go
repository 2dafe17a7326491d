package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/config"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(config.DatabaseConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(context.Background()))
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func pars() datatypes.JSONSlice[int] {
	return datatypes.JSONSlice[int]{4, 4, 3, 5, 4, 4, 3, 4, 5, 4, 4, 3, 5, 4, 4, 3, 4, 5}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "mysql"})
	assert.Error(t, err)
}

func TestDBError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     string
		sentinel error
	}{
		{name: "not found", err: gorm.ErrRecordNotFound, code: CodeNotFound, sentinel: ErrNotFound},
		{name: "translated duplicate", err: gorm.ErrDuplicatedKey, code: PgErrUniqueViolation, sentinel: ErrDuplicate},
		{name: "postgres duplicate", err: &pgconn.PgError{Code: "23505", Message: "dup"}, code: PgErrUniqueViolation, sentinel: ErrDuplicate},
		{name: "sqlite duplicate", err: errors.New("constraint failed: UNIQUE constraint failed: courses.name (2067)"), code: PgErrUniqueViolation, sentinel: ErrDuplicate},
		{name: "postgres other", err: &pgconn.PgError{Code: "23503", Message: "fk"}, code: PgErrForeignKeyViolation},
		{name: "generic", err: errors.New("disk on fire"), code: CodeDatabaseError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := dbError(fmt.Errorf("wrapped: %w", tt.err))

			var repoErr *RepositoryError
			require.ErrorAs(t, err, &repoErr)
			assert.Equal(t, tt.code, repoErr.Code)
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			}
		})
	}

	assert.NoError(t, dbError(nil))
}

func TestFindOrCreateVerifiedCourse(t *testing.T) {
	// Arrange
	repo := newTestRepo(t)
	ctx := context.Background()

	// Act
	first, created, err := repo.FindOrCreateVerifiedCourse(ctx, &Course{Name: "Pine Valley Golf Club", TeeName: "Blue", ParValues: pars()})
	require.NoError(t, err)
	second, createdAgain, err := repo.FindOrCreateVerifiedCourse(ctx, &Course{Name: "pine valley", TeeName: "BLUE"})
	require.NoError(t, err)

	// Assert
	assert.True(t, created)
	assert.False(t, createdAgain)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.IsVerified)
	assert.Equal(t, []int(pars()), []int(second.ParValues))

	courses, err := repo.ListVerifiedCourses(ctx)
	require.NoError(t, err)
	assert.Len(t, courses, 1)
}

func TestFindVerifiedCourse(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	_, _, err := repo.FindOrCreateVerifiedCourse(ctx, &Course{Name: "Oak Hill Country Club", TeeName: "White"})
	require.NoError(t, err)

	found, err := repo.FindVerifiedCourse(ctx, "OAK HILL", "whi")
	require.NoError(t, err)
	assert.Equal(t, "Oak Hill Country Club", found.Name)

	_, err = repo.FindVerifiedCourse(ctx, "Oak Hill", "Blue")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, IsNotFound(err))

	_, err = repo.FindVerifiedCourse(ctx, "Oak_Hill", "White")
	assert.ErrorIs(t, err, ErrNotFound, "underscore is literal")
}

func TestFindVerifiedCourse_IgnoresUnverified(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.db.Create(&Course{Name: "Draft Course", TeeName: "Red", IsVerified: false}).Error)

	_, err := repo.FindVerifiedCourse(ctx, "Draft", "Red")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCourseUniqueIndex(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.db.Create(&Course{Name: "Dup", TeeName: "Blue", IsVerified: true}).Error)

	err := dbError(repo.db.Create(&Course{Name: "Dup", TeeName: "Blue", IsVerified: true}).Error)

	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestUnverifiedPendingIndex(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.db.Create(&UnverifiedCourse{Name: "Oak Hill", TeeName: "White", Status: CoursePending, SubmissionCount: 1}).Error)

	dup := repo.db.Create(&UnverifiedCourse{Name: "Oak Hill", TeeName: "White", Status: CoursePending, SubmissionCount: 1}).Error
	rejected := repo.db.Create(&UnverifiedCourse{Name: "Oak Hill", TeeName: "White", Status: CourseRejected, SubmissionCount: 1}).Error

	assert.ErrorIs(t, dbError(dup), ErrDuplicate)
	assert.NoError(t, rejected)
}

func TestUnverifiedPendingIndex_IgnoresCase(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.db.Create(&UnverifiedCourse{Name: "Oak Hill", TeeName: "White", Status: CoursePending, SubmissionCount: 1}).Error)

	dup := repo.db.Create(&UnverifiedCourse{Name: "OAK HILL", TeeName: "white", Status: CoursePending, SubmissionCount: 1}).Error

	assert.ErrorIs(t, dbError(dup), ErrDuplicate)
}

func TestUpsertUnverifiedCourse_Substring(t *testing.T) {
	// Arrange
	repo := newTestRepo(t)
	ctx := context.Background()
	first, created, err := repo.UpsertUnverifiedCourse(ctx, &UnverifiedCourse{Name: "Oak Hill Country Club", TeeName: "White Tees"})
	require.NoError(t, err)
	require.True(t, created)

	// Act
	_, createdShort, err := repo.UpsertUnverifiedCourse(ctx, &UnverifiedCourse{Name: " Oak Hill ", TeeName: "White"})
	require.NoError(t, err)
	other, createdOther, err := repo.UpsertUnverifiedCourse(ctx, &UnverifiedCourse{Name: "Oak_Hill", TeeName: "White"})
	require.NoError(t, err)

	// Assert
	assert.False(t, createdShort)
	assert.True(t, createdOther, "underscore is matched literally")
	pending, err := repo.ListUnverifiedCourses(ctx, CoursePending)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.ID, pending[0].ID)
	assert.Equal(t, 2, pending[0].SubmissionCount)
	assert.Equal(t, "Oak_Hill", other.Name)
}

func TestUpsertUnverifiedCourse_TrimsNewEntry(t *testing.T) {
	repo := newTestRepo(t)

	uc, created, err := repo.UpsertUnverifiedCourse(context.Background(), &UnverifiedCourse{Name: "  Dunes Club ", TeeName: " Red "})

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Dunes Club", uc.Name)
	assert.Equal(t, "Red", uc.TeeName)
}

func TestUpsertUnverifiedCourse(t *testing.T) {
	// Arrange
	repo := newTestRepo(t)
	ctx := context.Background()

	// Act
	first, created, err := repo.UpsertUnverifiedCourse(ctx, &UnverifiedCourse{Name: "Oak Hill", TeeName: "White", ParValues: pars()})
	require.NoError(t, err)
	second, createdAgain, err := repo.UpsertUnverifiedCourse(ctx, &UnverifiedCourse{Name: "oak hill", TeeName: "white"})
	require.NoError(t, err)

	// Assert
	assert.True(t, created)
	assert.False(t, createdAgain)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.SubmissionCount)
	assert.Equal(t, CoursePending, second.Status)

	all, err := repo.ListUnverifiedCourses(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUpsertUnverifiedCourse_Concurrent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	const n = 8

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := repo.UpsertUnverifiedCourse(ctx, &UnverifiedCourse{Name: "Race Course", TeeName: "Gold"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	pending, err := repo.ListUnverifiedCourses(ctx, CoursePending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, n, pending[0].SubmissionCount)
}

func TestApproveUnverifiedCourse(t *testing.T) {
	// Arrange
	repo := newTestRepo(t)
	ctx := context.Background()
	uc, _, err := repo.UpsertUnverifiedCourse(ctx, &UnverifiedCourse{
		Name:         "Heather Links",
		TeeName:      "Red",
		ParValues:    pars(),
		SlopeRating:  intPtr(118),
		CourseRating: floatPtr(69.4),
		Location:     "Fife",
	})
	require.NoError(t, err)

	// Act
	course, err := repo.ApproveUnverifiedCourse(ctx, uc.ID, "checked against club website")

	// Assert
	require.NoError(t, err)
	assert.True(t, course.IsVerified)
	assert.Equal(t, "Heather Links", course.Name)
	assert.Equal(t, 118, *course.SlopeRating)
	assert.Equal(t, "Fife", course.Location)

	approved, err := repo.ListUnverifiedCourses(ctx, CourseApproved)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	require.NotNil(t, approved[0].ApprovedCourseID)
	assert.Equal(t, course.ID, *approved[0].ApprovedCourseID)
	assert.Equal(t, "checked against club website", approved[0].AdminNotes)

	_, err = repo.ApproveUnverifiedCourse(ctx, uc.ID, "")
	assert.ErrorIs(t, err, ErrInvalidState)

	// a new pending submission may follow an approved one
	_, created, err := repo.UpsertUnverifiedCourse(ctx, &UnverifiedCourse{Name: "Heather Links", TeeName: "Red"})
	require.NoError(t, err)
	assert.True(t, created)
}

func TestRejectUnverifiedCourse(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	uc, _, err := repo.UpsertUnverifiedCourse(ctx, &UnverifiedCourse{Name: "Blurry Club", TeeName: "White"})
	require.NoError(t, err)

	require.NoError(t, repo.RejectUnverifiedCourse(ctx, uc.ID, "unreadable"))

	rejected, err := repo.ListUnverifiedCourses(ctx, CourseRejected)
	require.NoError(t, err)
	require.Len(t, rejected, 1)
	assert.Equal(t, "unreadable", rejected[0].AdminNotes)
	courses, err := repo.ListVerifiedCourses(ctx)
	require.NoError(t, err)
	assert.Empty(t, courses)

	assert.ErrorIs(t, repo.RejectUnverifiedCourse(ctx, uc.ID, ""), ErrInvalidState)
	assert.ErrorIs(t, repo.RejectUnverifiedCourse(ctx, uuid.New(), ""), ErrNotFound)
}

func buildScores(players []string) []RoundScore {
	var scores []RoundScore
	for _, p := range players {
		for hole := 1; hole <= 18; hole++ {
			scores = append(scores, RoundScore{PlayerName: p, HoleNumber: hole, Score: 4, Par: 4, Handicap: hole})
		}
	}
	return scores
}

func TestCreateRoundWithScores(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	round := &Round{UserID: "u1", CourseID: uuid.New(), PlayedAt: time.Now(), TotalScore: 72}

	err := repo.CreateRoundWithScores(ctx, round, buildScores([]string{"A", "B"}))

	require.NoError(t, err)
	stored, err := repo.GetRound(ctx, round.ID)
	require.NoError(t, err)
	assert.Equal(t, 72, stored.TotalScore)
	scores, err := repo.ListRoundScores(ctx, round.ID)
	require.NoError(t, err)
	assert.Len(t, scores, 36)
}

func TestCreateRoundWithScores_RollsBack(t *testing.T) {
	// Arrange
	repo := newTestRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.db.Callback().Create().Before("gorm:create").Register("test:fail_hole_10", func(tx *gorm.DB) {
		if rs, ok := tx.Statement.Dest.(*RoundScore); ok && rs.HoleNumber == 10 {
			_ = tx.AddError(errors.New("disk full"))
		}
	}))
	round := &Round{UserID: "u1", CourseID: uuid.New(), PlayedAt: time.Now()}

	// Act
	err := repo.CreateRoundWithScores(ctx, round, buildScores([]string{"A"}))

	// Assert
	require.Error(t, err)
	var roundCount, scoreCount int64
	require.NoError(t, repo.db.Model(&Round{}).Count(&roundCount).Error)
	require.NoError(t, repo.db.Model(&RoundScore{}).Count(&scoreCount).Error)
	assert.Zero(t, roundCount)
	assert.Zero(t, scoreCount)
}

func TestRoundScoreHoleRange(t *testing.T) {
	repo := newTestRepo(t)
	round := &Round{CourseID: uuid.New()}

	err := repo.CreateRoundWithScores(context.Background(), round, []RoundScore{{PlayerName: "A", HoleNumber: 19, Score: 4}})

	assert.Error(t, err)
}

func TestScanLifecycle(t *testing.T) {
	// Arrange
	repo := newTestRepo(t)
	ctx := context.Background()
	scan := &ScanResult{UserID: "u1", OriginalImagePath: "/cards/originals/a.jpg"}
	require.NoError(t, repo.CreateScan(ctx, scan))
	assert.Equal(t, ScanProcessing, scan.Status)

	// Act
	err := repo.CompleteScan(ctx, scan.ID, ScanUpdate{
		ProcessedImagePath: "/cards/processed/a.jpg",
		ParsedData:         datatypes.JSON(`{"course_name":"X"}`),
		ConfidenceScores:   map[string]float64{"course_name": 0.9},
	})

	// Assert
	require.NoError(t, err)
	stored, err := repo.GetScan(ctx, scan.ID)
	require.NoError(t, err)
	assert.Equal(t, ScanCompleted, stored.Status)
	assert.Equal(t, "/cards/processed/a.jpg", stored.ProcessedImagePath)
	assert.Equal(t, 0.9, stored.ConfidenceScores.Data()["course_name"])
	assert.JSONEq(t, `{"course_name":"X"}`, string(stored.ParsedData))

	assert.ErrorIs(t, repo.FailScan(ctx, scan.ID, ScanUpdate{ErrorMessage: "late"}), ErrInvalidState)
	assert.ErrorIs(t, repo.CompleteScan(ctx, uuid.New(), ScanUpdate{}), ErrNotFound)

	failed, err := repo.ListScans(ctx, ScanFailed)
	require.NoError(t, err)
	assert.Empty(t, failed)
}

func TestTrainingRecords(t *testing.T) {
	// Arrange
	repo := newTestRepo(t)
	ctx := context.Background()
	records := []*TrainingDataRecord{
		{ScanID: uuid.New(), ConfidenceScore: 0.9, OCRProvider: "vision_chat", UsedEnhancedPrompt: true, IsTrainingCandidate: true},
		{ScanID: uuid.New(), ConfidenceScore: 0.5, OCRProvider: "mock"},
		{ScanID: uuid.New(), ConfidenceScore: 0.75, OCRProvider: "vision_chat"},
	}
	for _, rec := range records {
		require.NoError(t, repo.CreateTrainingRecord(ctx, rec))
	}
	require.NoError(t, repo.VerifyTrainingRecord(ctx, records[2].ID, datatypes.JSON(`{"course_name":"Y"}`), nil))

	tests := []struct {
		name  string
		query TrainingQuery
		want  int
	}{
		{name: "all", query: TrainingQuery{}, want: 3},
		{name: "verified", query: TrainingQuery{VerifiedOnly: true}, want: 1},
		{name: "min confidence", query: TrainingQuery{MinConfidence: 0.7}, want: 2},
		{name: "provider", query: TrainingQuery{OCRProvider: "vision_chat"}, want: 2},
		{name: "enhanced", query: TrainingQuery{EnhancedPromptOnly: true}, want: 1},
		{name: "candidates", query: TrainingQuery{CandidatesOnly: true}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			got, err := repo.ListTrainingRecords(ctx, tt.query)

			// Assert
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}

	assert.ErrorIs(t, repo.VerifyTrainingRecord(ctx, uuid.New(), nil, nil), ErrNotFound)
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }
