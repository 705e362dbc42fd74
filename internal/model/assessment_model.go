package model

import (
	"time"

	"github.com/fadilmartias/talent-assessment/internal/question"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Assessment struct {
	ID            uuid.UUID                   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ApplicationID uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex" json:"applicationId"`
	CandidateID   uuid.UUID                   `gorm:"type:uuid;not null;index" json:"candidateId"`
	EmployerID    uuid.UUID                   `gorm:"type:uuid;not null;index" json:"employerId"`
	PostingID     uuid.UUID                   `gorm:"type:uuid;not null" json:"postingId"`
	Token         string                      `gorm:"type:varchar(64);not null;uniqueIndex" json:"-"`
	TestLink      string                      `gorm:"type:text;not null" json:"testLink"`
	TestExpiry    time.Time                   `gorm:"not null" json:"testExpiry"`
	Questions     datatypes.JSON              `gorm:"type:jsonb;not null" json:"-"` // full set, answer keys included
	Provider      string                      `gorm:"type:varchar(32)" json:"provider"`
	Answers       datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"answers"`
	Correctness   datatypes.JSONSlice[bool]   `gorm:"type:jsonb" json:"correctness"`
	Score         *int                        `json:"score"`
	Result        *string                     `gorm:"type:varchar(16)" json:"result"`
	SubmittedAt   *time.Time                  `json:"submittedAt"`
	CreatedAt     time.Time                   `json:"createdAt"`
	UpdatedAt     time.Time                   `json:"updatedAt"`
}

func (a *Assessment) TableName() string {
	return "assessments"
}

func (a *Assessment) DecodeQuestions() ([]question.Question, error) {
	return question.Decode(a.Questions)
}

func (a *Assessment) IsSubmitted() bool {
	return a.SubmittedAt != nil
}

// IsExpired is true once submitted or past the deadline.
func (a *Assessment) IsExpired(now time.Time) bool {
	return a.IsSubmitted() || now.After(a.TestExpiry)
}

// Submission is everything written by a successful submit.
type Submission struct {
	Answers     []string
	Correctness []bool
	Score       int
	Result      string
	SubmittedAt time.Time
	TestExpiry  time.Time
}
