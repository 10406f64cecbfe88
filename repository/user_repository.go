package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mycareerlist/model"
)

// UserRepository users, their sessions and newsletter subscribers
type UserRepository interface {
	Create(ctx context.Context, user *model.UserEntity) error
	FindByID(ctx context.Context, id string) (*model.UserEntity, error)
	FindByEmail(ctx context.Context, email string) (*model.UserEntity, error)
	UpdatePreferences(ctx context.Context, userID string, prefs model.FeedPreferences) error

	CreateSession(ctx context.Context, session *model.SessionEntity) error
	FindSession(ctx context.Context, token string, now time.Time) (*model.Session, error)

	AddSubscriber(ctx context.Context, email string) error
	FindSubscriberEmails(ctx context.Context) ([]string, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.UserEntity) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.UserEntity, error) {
	var user model.UserEntity
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.UserEntity, error) {
	var user model.UserEntity
	result := r.db.WithContext(ctx).Where("email = ?", email).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &user, nil
}

func (r *userRepository) UpdatePreferences(ctx context.Context, userID string, prefs model.FeedPreferences) error {
	result := r.db.WithContext(ctx).Model(&model.UserEntity{}).
		Where("id = ?", userID).
		Update("preferences", datatypes.NewJSONType(prefs))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) CreateSession(ctx context.Context, session *model.SessionEntity) error {
	return r.db.WithContext(ctx).Create(session).Error
}

type sessionRow struct {
	UserID string
	Role   string
}

// FindSession resolves an unexpired session token to its caller, nil when
// the token is unknown or expired.
func (r *userRepository) FindSession(ctx context.Context, token string, now time.Time) (*model.Session, error) {
	var row sessionRow
	result := r.db.WithContext(ctx).Model(&model.SessionEntity{}).
		Select("users.id AS user_id, users.role AS role").
		Joins("JOIN users ON users.id = sessions.user_id").
		Where("sessions.session_token = ?", token).
		Where("sessions.expires > ?", now).
		Limit(1).
		Scan(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &model.Session{UserID: row.UserID, Role: row.Role}, nil
}

func (r *userRepository) AddSubscriber(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.SubscriberEntity{Email: email}).Error
}

func (r *userRepository) FindSubscriberEmails(ctx context.Context) ([]string, error) {
	emails := []string{}
	result := r.db.WithContext(ctx).Model(&model.SubscriberEntity{}).
		Order("id ASC").
		Pluck("email", &emails)
	if result.Error != nil {
		return nil, result.Error
	}
	return emails, nil
}
