package repository

import (
	"context"

	"gorm.io/gorm"

	"mycareerlist/model"
)

// ReviewRepository reviews and interview reports. Both are insert-only.
type ReviewRepository interface {
	CreateReview(ctx context.Context, review *model.ReviewEntity) error
	FindReviews(ctx context.Context, companyID string) ([]model.ReviewEntity, error)
	ReviewStats(ctx context.Context, companyID string) (model.RatingStats, error)
	CountReviewsByCompanies(ctx context.Context, companyIDs []string) (map[string]int64, error)

	CreateInterview(ctx context.Context, interview *model.InterviewEntity) error
	FindInterviews(ctx context.Context, companyID string) ([]model.InterviewEntity, error)
	InterviewStats(ctx context.Context, companyID string) (model.RatingStats, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) CreateReview(ctx context.Context, review *model.ReviewEntity) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) FindReviews(ctx context.Context, companyID string) ([]model.ReviewEntity, error) {
	reviews := []model.ReviewEntity{}
	result := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").Order("id DESC").
		Find(&reviews)
	if result.Error != nil {
		return nil, result.Error
	}
	return reviews, nil
}

type ratingAggregate struct {
	Average         *float64
	AverageDuration *float64
	Total           int64
}

func (r *reviewRepository) ReviewStats(ctx context.Context, companyID string) (model.RatingStats, error) {
	var agg ratingAggregate
	result := r.db.WithContext(ctx).Model(&model.ReviewEntity{}).
		Select("AVG(rating) AS average, COUNT(*) AS total").
		Where("company_id = ?", companyID).
		Scan(&agg)
	if result.Error != nil {
		return model.RatingStats{}, result.Error
	}
	return model.RatingStats{Average: agg.Average, Count: agg.Total}, nil
}

func (r *reviewRepository) CountReviewsByCompanies(ctx context.Context, companyIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(companyIDs))
	if len(companyIDs) == 0 {
		return counts, nil
	}
	var rows []companyCount
	result := r.db.WithContext(ctx).Model(&model.ReviewEntity{}).
		Select("company_id, COUNT(*) AS total").
		Where("company_id IN ?", companyIDs).
		Group("company_id").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	for _, row := range rows {
		counts[row.CompanyID] = row.Total
	}
	return counts, nil
}

func (r *reviewRepository) CreateInterview(ctx context.Context, interview *model.InterviewEntity) error {
	return r.db.WithContext(ctx).Create(interview).Error
}

func (r *reviewRepository) FindInterviews(ctx context.Context, companyID string) ([]model.InterviewEntity, error) {
	interviews := []model.InterviewEntity{}
	result := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").Order("id DESC").
		Find(&interviews)
	if result.Error != nil {
		return nil, result.Error
	}
	return interviews, nil
}

func (r *reviewRepository) InterviewStats(ctx context.Context, companyID string) (model.RatingStats, error) {
	var agg ratingAggregate
	result := r.db.WithContext(ctx).Model(&model.InterviewEntity{}).
		Select("AVG(rating) AS average, AVG(duration) AS average_duration, COUNT(*) AS total").
		Where("company_id = ?", companyID).
		Scan(&agg)
	if result.Error != nil {
		return model.RatingStats{}, result.Error
	}
	return model.RatingStats{Average: agg.Average, AverageDuration: agg.AverageDuration, Count: agg.Total}, nil
}
