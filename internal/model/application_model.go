package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type ApplicationStatus string

const (
	StatusPending      ApplicationStatus = "pending"
	StatusReviewed     ApplicationStatus = "reviewed"
	StatusShortlisted  ApplicationStatus = "shortlisted"
	StatusTestAssigned ApplicationStatus = "test-assigned"
	StatusSelected     ApplicationStatus = "selected"
	StatusRejected     ApplicationStatus = "rejected"
	StatusAccepted     ApplicationStatus = "accepted"
	StatusWithdrawn    ApplicationStatus = "withdrawn"
)

const (
	ResultPassed = "Passed"
	ResultFailed = "Failed"
)

// Application is one candidate's submission against one posting. Posting and
// candidate details are snapshotted at apply time.
type Application struct {
	ID             uuid.UUID                   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PostingID      uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:idx_applications_posting_candidate,where:status <> 'withdrawn'" json:"postingId"`
	CandidateID    uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:idx_applications_posting_candidate;index" json:"candidateId"`
	EmployerID     uuid.UUID                   `gorm:"type:uuid;not null;index:idx_applications_employer_status" json:"employerId"`
	PostingTitle   string                      `gorm:"type:varchar(255)" json:"postingTitle"`
	PostingType    string                      `gorm:"type:varchar(32)" json:"postingType"`
	CompanyName    string                      `gorm:"type:varchar(255)" json:"companyName"`
	CandidateName  string                      `gorm:"type:varchar(255)" json:"candidateName"`
	CandidateEmail string                      `gorm:"type:varchar(255)" json:"candidateEmail"`
	Skills         pq.StringArray              `gorm:"type:text[]" json:"skills"`
	Status         ApplicationStatus           `gorm:"type:varchar(32);not null;default:'pending';index:idx_applications_employer_status" json:"status"`
	MatchScore     float64                     `gorm:"type:float;default:0" json:"matchScore"` // advisory only
	TestLink       *string                     `gorm:"type:text" json:"testLink"`
	TestExpiry     *time.Time                  `json:"testExpiry"`
	Answers        datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"answers"`
	Score          *int                        `json:"score"`
	Result         *string                     `gorm:"type:varchar(16)" json:"result"`
	Reason         *string                     `gorm:"type:varchar(64)" json:"reason"`
	EmployerNotes  string                      `gorm:"type:text" json:"employerNotes,omitempty"`
	ReviewedBy     *uuid.UUID                  `gorm:"type:uuid" json:"reviewedBy,omitempty"`
	ReviewedAt     *time.Time                  `json:"reviewedAt,omitempty"`
	CreatedAt      time.Time                   `json:"createdAt"`
	UpdatedAt      time.Time                   `json:"updatedAt"`
}

func (a *Application) TableName() string {
	return "applications"
}

// ClearTest drops every assessment-derived field.
func (a *Application) ClearTest() {
	a.TestLink = nil
	a.TestExpiry = nil
	a.Answers = nil
	a.Score = nil
	a.Result = nil
	a.Reason = nil
}

func (a *Application) HasFailedTest() bool {
	return a.Result != nil && *a.Result == ResultFailed
}
