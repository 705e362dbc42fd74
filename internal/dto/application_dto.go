package dto

import (
	"time"

	"github.com/fadilmartias/talent-assessment/internal/model"
	"github.com/google/uuid"
)

type ApplyRequest struct {
	PostingID string   `json:"postingId"`
	Skills    []string `json:"skills"`
}

type DecisionRequest struct {
	Notes string `json:"notes"`
}

type ApplicationDTO struct {
	ID             uuid.UUID  `json:"id"`
	PostingID      uuid.UUID  `json:"postingId"`
	CandidateID    uuid.UUID  `json:"candidateId"`
	PostingTitle   string     `json:"postingTitle"`
	PostingType    string     `json:"postingType"`
	CompanyName    string     `json:"companyName"`
	CandidateName  string     `json:"candidateName"`
	CandidateEmail string     `json:"candidateEmail"`
	Skills         []string   `json:"skills"`
	Status         string     `json:"status"`
	MatchScore     float64    `json:"matchScore"`
	TestLink       *string    `json:"testLink"`
	TestExpiry     *time.Time `json:"testExpiry"`
	Answers        []string   `json:"answers,omitempty"`
	Score          *int       `json:"score"`
	Result         *string    `json:"result"`
	Reason         *string    `json:"reason"`
	EmployerNotes  string     `json:"employerNotes,omitempty"`
	ReviewedAt     *time.Time `json:"reviewedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func NewApplicationDTO(app *model.Application) ApplicationDTO {
	return ApplicationDTO{
		ID:             app.ID,
		PostingID:      app.PostingID,
		CandidateID:    app.CandidateID,
		PostingTitle:   app.PostingTitle,
		PostingType:    app.PostingType,
		CompanyName:    app.CompanyName,
		CandidateName:  app.CandidateName,
		CandidateEmail: app.CandidateEmail,
		Skills:         app.Skills,
		Status:         string(app.Status),
		MatchScore:     app.MatchScore,
		TestLink:       app.TestLink,
		TestExpiry:     app.TestExpiry,
		Answers:        app.Answers,
		Score:          app.Score,
		Result:         app.Result,
		Reason:         app.Reason,
		EmployerNotes:  app.EmployerNotes,
		ReviewedAt:     app.ReviewedAt,
		CreatedAt:      app.CreatedAt,
		UpdatedAt:      app.UpdatedAt,
	}
}

func NewApplicationDTOs(apps []model.Application) []ApplicationDTO {
	out := make([]ApplicationDTO, 0, len(apps))
	for i := range apps {
		out = append(out, NewApplicationDTO(&apps[i]))
	}
	return out
}
