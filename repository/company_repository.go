package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"mycareerlist/model"
)

// CompanyRepository company persistence
type CompanyRepository interface {
	Create(ctx context.Context, company *model.CompanyEntity) error
	FindByID(ctx context.Context, id string) (*model.CompanyEntity, error)
	FindBySlug(ctx context.Context, slug string) (*model.CompanyEntity, error)
	FindByName(ctx context.Context, name string) (*model.CompanyEntity, error)
	FindByUser(ctx context.Context, userID string) ([]*model.CompanyEntity, error)
	FindByWrapper(wrapper *gorm.DB) ([]*model.CompanyEntity, error)
	CountByWrapper(wrapper *gorm.DB) (int64, error)
}

type companyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) Create(ctx context.Context, company *model.CompanyEntity) error {
	return r.db.WithContext(ctx).Create(company).Error
}

func (r *companyRepository) findOne(ctx context.Context, column, value string) (*model.CompanyEntity, error) {
	var company model.CompanyEntity
	result := r.db.WithContext(ctx).Where(column+" = ?", value).First(&company)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &company, nil
}

func (r *companyRepository) FindByID(ctx context.Context, id string) (*model.CompanyEntity, error) {
	return r.findOne(ctx, "id", id)
}

func (r *companyRepository) FindBySlug(ctx context.Context, slug string) (*model.CompanyEntity, error) {
	return r.findOne(ctx, "slug", slug)
}

func (r *companyRepository) FindByName(ctx context.Context, name string) (*model.CompanyEntity, error) {
	return r.findOne(ctx, "name", name)
}

func (r *companyRepository) FindByUser(ctx context.Context, userID string) ([]*model.CompanyEntity, error) {
	var companies []*model.CompanyEntity
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&companies)
	if result.Error != nil {
		return nil, result.Error
	}
	return companies, nil
}

func (r *companyRepository) FindByWrapper(wrapper *gorm.DB) ([]*model.CompanyEntity, error) {
	var companies []*model.CompanyEntity
	result := wrapper.Find(&companies)
	if result.Error != nil {
		return nil, result.Error
	}
	return companies, nil
}

func (r *companyRepository) CountByWrapper(wrapper *gorm.DB) (int64, error) {
	var count int64
	result := wrapper.Count(&count)
	return count, result.Error
}
