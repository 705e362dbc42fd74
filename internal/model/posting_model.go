package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Posting is owned by the posting CRUD; this service only reads it.
type Posting struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EmployerID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"employerId"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Type        string         `gorm:"type:varchar(32)" json:"type"` // Paid or Unpaid
	CompanyName string         `gorm:"type:varchar(255)" json:"companyName"`
	Skills      pq.StringArray `gorm:"type:text[]" json:"skills"`
	Status      string         `gorm:"type:varchar(32);default:'active'" json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func (p *Posting) TableName() string {
	return "postings"
}

func (p *Posting) IsOpen() bool {
	return p.Status == "" || p.Status == "active"
}
