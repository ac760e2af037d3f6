package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fine представляє штраф за пошкодження або запізнення
type Fine struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"`
	RentalID  uint            `gorm:"column:rental_id;not null;index"`
	Reason    string          `gorm:"column:reason;not null;size:200"`
	Amount    decimal.Decimal `gorm:"column:amount;type:decimal(10,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
}

// TableName повертає ім'я таблиці для моделі Fine
func (Fine) TableName() string {
	return "fines"
}
