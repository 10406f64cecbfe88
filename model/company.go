package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompanyEntity an employer profile
type CompanyEntity struct {
	ID          string    `gorm:"primaryKey;type:varchar(36);column:id"`
	Name        string    `gorm:"size:255;not null;uniqueIndex;column:name"`
	Slug        string    `gorm:"size:255;uniqueIndex;column:slug"`
	Description string    `gorm:"type:text;column:description"`
	Website     string    `gorm:"size:500;column:website"`
	Logo        string    `gorm:"size:500;column:logo"`
	Region      string    `gorm:"size:50;column:region"`
	City        string    `gorm:"size:255;column:city"`
	UserID      string    `gorm:"type:varchar(36);not null;index;column:user_id"`
	CreatedAt   time.Time `gorm:"index;column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (CompanyEntity) TableName() string {
	return "companies"
}

func (c *CompanyEntity) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
