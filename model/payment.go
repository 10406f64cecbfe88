package model

import (
	"time"
)

// PaymentStatusCompleted capture status that publishes a job
const PaymentStatusCompleted = "COMPLETED"

// PaymentEntity captured payment. OrderID is unique so a replayed capture fails.
type PaymentEntity struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	OrderID   string    `gorm:"size:100;not null;uniqueIndex;column:order_id"`
	UserID    string    `gorm:"type:varchar(36);not null;index;column:user_id"`
	JobID     string    `gorm:"type:varchar(36);index;column:job_id"`
	Amount    string    `gorm:"size:50;column:amount"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (PaymentEntity) TableName() string {
	return "payments"
}
