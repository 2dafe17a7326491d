package store

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ScanStatus string

const (
	ScanProcessing ScanStatus = "processing"
	ScanCompleted  ScanStatus = "completed"
	ScanFailed     ScanStatus = "failed"
)

type CourseStatus string

const (
	CoursePending  CourseStatus = "pending"
	CourseApproved CourseStatus = "approved"
	CourseRejected CourseStatus = "rejected"
)

// ScanResult tracks one uploaded scorecard image. It is terminal once
// completed or failed.
type ScanResult struct {
	ID                 uuid.UUID                              `gorm:"column:id;type:uuid;primaryKey"`
	UserID             string                                 `gorm:"column:user_id;type:varchar(64);index"`
	Status             ScanStatus                             `gorm:"column:status;type:varchar(20);not null;index"`
	OriginalImagePath  string                                 `gorm:"column:original_image_path;type:varchar(512)"`
	ProcessedImagePath string                                 `gorm:"column:processed_image_path;type:varchar(512)"`
	RawOCRPayload      datatypes.JSON                         `gorm:"column:raw_ocr_payload"`
	ParsedData         datatypes.JSON                         `gorm:"column:parsed_data"`
	ConfidenceScores   datatypes.JSONType[map[string]float64] `gorm:"column:confidence_scores"`
	ErrorMessage       string                                 `gorm:"column:error_message;type:text"`
	CreatedAt          time.Time                              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time                              `gorm:"column:updated_at;autoUpdateTime"`
}

// Course is a verified course. Name and tee are unique together.
type Course struct {
	ID             uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	Name           string                   `gorm:"column:name;type:varchar(255);not null;uniqueIndex:idx_courses_name_tee"`
	TeeName        string                   `gorm:"column:tee_name;type:varchar(100);not null;uniqueIndex:idx_courses_name_tee"`
	ParValues      datatypes.JSONSlice[int] `gorm:"column:par_values"`
	HandicapValues datatypes.JSONSlice[int] `gorm:"column:handicap_values"`
	SlopeRating    *int                     `gorm:"column:slope_rating"`
	CourseRating   *float64                 `gorm:"column:course_rating"`
	Location       string                   `gorm:"column:location;type:varchar(255)"`
	IsVerified     bool                     `gorm:"column:is_verified;not null;index"`
	CreatedAt      time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

// UnverifiedCourse is a staged submission awaiting review. At most one
// pending row exists per name and tee, ignoring case.
type UnverifiedCourse struct {
	ID               uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	Name             string                   `gorm:"column:name;type:varchar(255);not null;uniqueIndex:idx_unverified_pending,expression:LOWER(name),where:status = 'pending'"`
	TeeName          string                   `gorm:"column:tee_name;type:varchar(100);not null;uniqueIndex:idx_unverified_pending,expression:LOWER(tee_name),where:status = 'pending'"`
	ParValues        datatypes.JSONSlice[int] `gorm:"column:par_values"`
	HandicapValues   datatypes.JSONSlice[int] `gorm:"column:handicap_values"`
	SlopeRating      *int                     `gorm:"column:slope_rating"`
	CourseRating     *float64                 `gorm:"column:course_rating"`
	Location         string                   `gorm:"column:location;type:varchar(255)"`
	SubmissionCount  int                      `gorm:"column:submission_count;not null;default:1"`
	Status           CourseStatus             `gorm:"column:status;type:varchar(20);not null;index"`
	AdminNotes       string                   `gorm:"column:admin_notes;type:text"`
	ApprovedCourseID *uuid.UUID               `gorm:"column:approved_course_id;type:uuid"`
	CreatedAt        time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

type Round struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	UserID         string     `gorm:"column:user_id;type:varchar(64);index"`
	CourseID       uuid.UUID  `gorm:"column:course_id;type:uuid;not null;index"`
	ScanID         *uuid.UUID `gorm:"column:scan_id;type:uuid;index"`
	PlayedAt       time.Time  `gorm:"column:played_at"`
	TotalScore     int        `gorm:"column:total_score"`
	FrontNineScore int        `gorm:"column:front_nine_score"`
	BackNineScore  int        `gorm:"column:back_nine_score"`
	Weather        string     `gorm:"column:weather;type:varchar(100)"`
	Notes          string     `gorm:"column:notes;type:text"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
}

type RoundScore struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	RoundID    uuid.UUID `gorm:"column:round_id;type:uuid;not null;uniqueIndex:idx_round_scores_hole"`
	PlayerName string    `gorm:"column:player_name;type:varchar(100);not null;uniqueIndex:idx_round_scores_hole"`
	HoleNumber int       `gorm:"column:hole_number;not null;uniqueIndex:idx_round_scores_hole;check:hole_number BETWEEN 1 AND 18"`
	Score      int       `gorm:"column:score;not null"`
	Par        int       `gorm:"column:par"`
	Handicap   int       `gorm:"column:handicap"`
}

type TrainingDataRecord struct {
	ID                    uuid.UUID                              `gorm:"column:id;type:uuid;primaryKey"`
	ScanID                uuid.UUID                              `gorm:"column:scan_id;type:uuid;not null;index"`
	RawOCRResponse        datatypes.JSON                         `gorm:"column:raw_ocr_response"`
	ExtractedData         datatypes.JSON                         `gorm:"column:extracted_data"`
	ConfidenceScore       float64                                `gorm:"column:confidence_score"`
	VerifiedData          datatypes.JSON                         `gorm:"column:verified_data"`
	Corrections           datatypes.JSON                         `gorm:"column:corrections"`
	IsVerified            bool                                   `gorm:"column:is_verified;not null;index"`
	IsTrainingCandidate   bool                                   `gorm:"column:is_training_candidate;not null;index"`
	OCRProvider           string                                 `gorm:"column:ocr_provider;type:varchar(50);index"`
	UsedEnhancedPrompt    bool                                   `gorm:"column:used_enhanced_prompt;not null"`
	DataCompletenessScore int                                    `gorm:"column:data_completeness_score"`
	FieldConfidenceScores datatypes.JSONType[map[string]float64] `gorm:"column:field_confidence_scores"`
	ValidationErrors      datatypes.JSONSlice[string]            `gorm:"column:validation_errors"`
	ProcessingTimeMs      int64                                  `gorm:"column:processing_time_ms"`
	CreatedAt             time.Time                              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time                              `gorm:"column:updated_at;autoUpdateTime"`
}

func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (m *ScanResult) BeforeCreate(*gorm.DB) error         { assignID(&m.ID); return nil }
func (m *Course) BeforeCreate(*gorm.DB) error             { assignID(&m.ID); return nil }
func (m *UnverifiedCourse) BeforeCreate(*gorm.DB) error   { assignID(&m.ID); return nil }
func (m *Round) BeforeCreate(*gorm.DB) error              { assignID(&m.ID); return nil }
func (m *RoundScore) BeforeCreate(*gorm.DB) error         { assignID(&m.ID); return nil }
func (m *TrainingDataRecord) BeforeCreate(*gorm.DB) error { assignID(&m.ID); return nil }

var allModels = []any{
	&ScanResult{},
	&Course{},
	&UnverifiedCourse{},
	&Round{},
	&RoundScore{},
	&TrainingDataRecord{},
}
