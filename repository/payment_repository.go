package repository

import (
	"context"

	"gorm.io/gorm"

	"mycareerlist/model"
)

// PaymentRepository captured payments
type PaymentRepository interface {
	Create(ctx context.Context, payment *model.PaymentEntity) error
	FindByJob(ctx context.Context, jobID string) ([]*model.PaymentEntity, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *model.PaymentEntity) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) FindByJob(ctx context.Context, jobID string) ([]*model.PaymentEntity, error) {
	var payments []*model.PaymentEntity
	result := r.db.WithContext(ctx).Where("job_id = ?", jobID).Order("created_at DESC").Find(&payments)
	if result.Error != nil {
		return nil, result.Error
	}
	return payments, nil
}
