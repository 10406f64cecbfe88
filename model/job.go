package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Job type values
const (
	JobTypeFullTime   = "full-time"
	JobTypePartTime   = "part-time"
	JobTypeFreelance  = "freelance"
	JobTypeInternship = "internship"
	JobTypeContract   = "contract"
)

// JobEntity a job posting. Draft and expired jobs never appear in public listings.
type JobEntity struct {
	ID          string    `gorm:"primaryKey;type:varchar(36);column:id"`
	Title       string    `gorm:"size:255;not null;column:title"`
	Description string    `gorm:"type:text;column:description"`
	Slug        string    `gorm:"size:255;uniqueIndex;column:slug"`
	Type        string    `gorm:"size:50;index;column:type"`
	Category    string    `gorm:"size:50;index;column:category"`
	Location    string    `gorm:"size:50;index;column:location"`
	City        string    `gorm:"size:255;column:city"`
	ApplyLink   string    `gorm:"size:500;column:apply_link"`
	Draft       bool      `gorm:"not null;index;column:draft"`
	Featured    bool      `gorm:"not null;default:false;column:featured"`
	Expired     bool      `gorm:"not null;default:false;index;column:expired"`
	SalaryRange string    `gorm:"size:100;column:salary_range"`
	CompanyID   string    `gorm:"type:varchar(36);not null;index;column:company_id"`
	UserID      string    `gorm:"type:varchar(36);not null;index;column:user_id"`
	CreatedAt   time.Time `gorm:"index;column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`

	Company CompanyEntity `gorm:"foreignKey:CompanyID"`
}

func (JobEntity) TableName() string {
	return "jobs"
}

func (j *JobEntity) BeforeCreate(tx *gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	return nil
}

// SavedJobEntity user bookmark of a job
type SavedJobEntity struct {
	UserID    string    `gorm:"primaryKey;type:varchar(36);column:user_id"`
	JobID     string    `gorm:"primaryKey;type:varchar(36);column:job_id"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (SavedJobEntity) TableName() string {
	return "saved_jobs"
}
