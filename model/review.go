package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employment status of a reviewer
const (
	ReviewStatusEmployed           = "Employed"
	ReviewStatusPreviouslyEmployed = "Previously employed"
)

// Interview offer outcome
const (
	OfferAccepted = "accepted"
	OfferDeclined = "declined"
	OfferNone     = "no"
)

// ReviewEntity company review. There is no update path.
type ReviewEntity struct {
	ID        string    `gorm:"primaryKey;type:varchar(36);column:id" json:"id"`
	Title     string    `gorm:"size:255;not null;column:title" json:"title"`
	Content   string    `gorm:"type:text;column:content" json:"content"`
	Pros      string    `gorm:"type:text;column:pros" json:"pros"`
	Cons      string    `gorm:"type:text;column:cons" json:"cons"`
	Rating    int       `gorm:"not null;column:rating" json:"rating"`
	Status    string    `gorm:"size:50;column:status" json:"status"`
	CompanyID string    `gorm:"type:varchar(36);not null;index;column:company_id" json:"companyId"`
	UserID    string    `gorm:"type:varchar(36);not null;index;column:user_id" json:"-"`
	CreatedAt time.Time `gorm:"index;column:created_at" json:"createdAt"`
}

func (ReviewEntity) TableName() string {
	return "reviews"
}

func (r *ReviewEntity) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// InterviewEntity interview experience report
type InterviewEntity struct {
	ID         string    `gorm:"primaryKey;type:varchar(36);column:id" json:"id"`
	Title      string    `gorm:"size:255;not null;column:title" json:"title"`
	Position   string    `gorm:"size:255;column:position" json:"position"`
	Year       int       `gorm:"column:year" json:"year"`
	HR         string    `gorm:"type:text;column:hr" json:"hr"`
	Technical  string    `gorm:"type:text;column:technical" json:"technical"`
	Duration   int       `gorm:"column:duration" json:"duration"` // weeks
	Difficulty int       `gorm:"column:difficulty" json:"difficulty"`
	Offer      string    `gorm:"size:20;column:offer" json:"offer"`
	Rating     int       `gorm:"column:rating" json:"rating"`
	CompanyID  string    `gorm:"type:varchar(36);not null;index;column:company_id" json:"companyId"`
	UserID     string    `gorm:"type:varchar(36);not null;index;column:user_id" json:"-"`
	CreatedAt  time.Time `gorm:"index;column:created_at" json:"createdAt"`
}

func (InterviewEntity) TableName() string {
	return "interviews"
}

func (i *InterviewEntity) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
