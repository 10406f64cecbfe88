package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mycareerlist/model"
)

// JobRepository job and saved-job persistence
type JobRepository interface {
	Create(ctx context.Context, job *model.JobEntity) error
	FindByID(ctx context.Context, id string) (*model.JobEntity, error)
	FindBySlug(ctx context.Context, slug string) (*model.JobEntity, error)
	FindByWrapper(wrapper *gorm.DB) ([]*model.JobEntity, error)
	CountByWrapper(wrapper *gorm.DB) (int64, error)
	FindByCompany(ctx context.Context, companyID string, activeOnly bool) ([]*model.JobEntity, error)
	CountActiveByCompanies(ctx context.Context, companyIDs []string) (map[string]int64, error)
	Publish(ctx context.Context, id string, featured bool) error
	ExpireCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)

	Save(ctx context.Context, userID, jobID string) error
	Unsave(ctx context.Context, userID, jobID string) error
	FindSavedBy(ctx context.Context, jobID string) ([]string, error)
	FindSavedActive(ctx context.Context, userID string) ([]*model.JobEntity, error)
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(ctx context.Context, job *model.JobEntity) error {
	return r.db.WithContext(ctx).Omit("Company").Create(job).Error
}

func (r *jobRepository) FindByID(ctx context.Context, id string) (*model.JobEntity, error) {
	var job model.JobEntity
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&job)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &job, nil
}

func (r *jobRepository) FindBySlug(ctx context.Context, slug string) (*model.JobEntity, error) {
	var job model.JobEntity
	result := r.db.WithContext(ctx).Preload("Company").Where("slug = ?", slug).First(&job)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &job, nil
}

func (r *jobRepository) FindByWrapper(wrapper *gorm.DB) ([]*model.JobEntity, error) {
	var jobs []*model.JobEntity
	result := wrapper.Find(&jobs)
	if result.Error != nil {
		return nil, result.Error
	}
	return jobs, nil
}

func (r *jobRepository) CountByWrapper(wrapper *gorm.DB) (int64, error) {
	var count int64
	result := wrapper.Count(&count)
	return count, result.Error
}

func (r *jobRepository) FindByCompany(ctx context.Context, companyID string, activeOnly bool) ([]*model.JobEntity, error) {
	var jobs []*model.JobEntity
	query := r.db.WithContext(ctx).Where("company_id = ?", companyID)
	if activeOnly {
		query = query.Where("expired = ? AND draft = ?", false, false)
	}
	result := query.Order("created_at DESC").Order("id DESC").Find(&jobs)
	if result.Error != nil {
		return nil, result.Error
	}
	return jobs, nil
}

type companyCount struct {
	CompanyID string
	Total     int64
}

func (r *jobRepository) CountActiveByCompanies(ctx context.Context, companyIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(companyIDs))
	if len(companyIDs) == 0 {
		return counts, nil
	}
	var rows []companyCount
	result := r.db.WithContext(ctx).Model(&model.JobEntity{}).
		Select("company_id, COUNT(*) AS total").
		Where("company_id IN ?", companyIDs).
		Where("expired = ? AND draft = ?", false, false).
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

func (r *jobRepository) Publish(ctx context.Context, id string, featured bool) error {
	result := r.db.WithContext(ctx).Model(&model.JobEntity{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"draft": false, "featured": featured})
	return result.Error
}

// ExpireCreatedBefore marks every unexpired job created at or before cutoff
// as expired in one statement and returns the number of rows changed.
func (r *jobRepository) ExpireCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.JobEntity{}).
		Where("expired = ?", false).
		Where("created_at <= ?", cutoff).
		Update("expired", true)
	return result.RowsAffected, result.Error
}

func (r *jobRepository) Save(ctx context.Context, userID, jobID string) error {
	saved := &model.SavedJobEntity{UserID: userID, JobID: jobID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(saved).Error
}

func (r *jobRepository) Unsave(ctx context.Context, userID, jobID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND job_id = ?", userID, jobID).
		Delete(&model.SavedJobEntity{}).Error
}

func (r *jobRepository) FindSavedBy(ctx context.Context, jobID string) ([]string, error) {
	userIDs := []string{}
	result := r.db.WithContext(ctx).Model(&model.SavedJobEntity{}).
		Where("job_id = ?", jobID).
		Order("created_at ASC").
		Pluck("user_id", &userIDs)
	if result.Error != nil {
		return nil, result.Error
	}
	return userIDs, nil
}

func (r *jobRepository) FindSavedActive(ctx context.Context, userID string) ([]*model.JobEntity, error) {
	var jobs []*model.JobEntity
	result := r.db.WithContext(ctx).Preload("Company").
		Joins("JOIN saved_jobs ON saved_jobs.job_id = jobs.id").
		Where("saved_jobs.user_id = ?", userID).
		Where("jobs.expired = ? AND jobs.draft = ?", false, false).
		Order("saved_jobs.created_at DESC").
		Find(&jobs)
	if result.Error != nil {
		return nil, result.Error
	}
	return jobs, nil
}
