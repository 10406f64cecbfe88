package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Role values
const (
	RoleUser     = "USER"
	RoleEmployer = "EMPLOYER"
)

// FeedPreferences saved job feed filter. Empty slices mean no constraint.
type FeedPreferences struct {
	Location []string `json:"location"`
	Category []string `json:"category"`
	Type     []string `json:"type"`
}

// IsEmpty reports whether no field constrains the feed
func (p FeedPreferences) IsEmpty() bool {
	return len(p.Location) == 0 && len(p.Category) == 0 && len(p.Type) == 0
}

// UserEntity account
type UserEntity struct {
	ID          string                               `gorm:"primaryKey;type:varchar(36);column:id"`
	Email       string                               `gorm:"size:255;not null;uniqueIndex;column:email"`
	Role        string                               `gorm:"size:20;not null;default:USER;column:role"`
	Preferences datatypes.JSONType[FeedPreferences] `gorm:"column:preferences"`
	CreatedAt   time.Time                            `gorm:"column:created_at"`
	UpdatedAt   time.Time                            `gorm:"column:updated_at"`
}

func (UserEntity) TableName() string {
	return "users"
}

func (u *UserEntity) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// SessionEntity database session, looked up by token on every request
type SessionEntity struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Token     string    `gorm:"size:255;not null;uniqueIndex;column:session_token"`
	UserID    string    `gorm:"type:varchar(36);not null;index;column:user_id"`
	Expires   time.Time `gorm:"column:expires"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (SessionEntity) TableName() string {
	return "sessions"
}

// Session the authenticated caller of a single request
type Session struct {
	UserID string
	Role   string
}

// IsEmployer reports whether the caller may manage companies and jobs
func (s *Session) IsEmployer() bool {
	return s != nil && s.Role == RoleEmployer
}

// SubscriberEntity newsletter subscriber
type SubscriberEntity struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Email     string    `gorm:"size:255;not null;uniqueIndex;column:email"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (SubscriberEntity) TableName() string {
	return "subscribers"
}
