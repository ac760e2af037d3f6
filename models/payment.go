package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType представляє тип платежу
type PaymentType string

const (
	PaymentTypeDeposit    PaymentType = "deposit"    // Застава
	PaymentTypeRefund     PaymentType = "refund"     // Повернення застави
	PaymentTypeAdditional PaymentType = "additional" // Доплата
	PaymentTypeFine       PaymentType = "fine"       // Оплата штрафу
)

// Payment представляє платіж по оренді
type Payment struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"`
	RentalID    uint            `gorm:"column:rental_id;not null;index"`
	PaymentType PaymentType     `gorm:"column:payment_type;type:varchar(20);not null"`
	Amount      decimal.Decimal `gorm:"column:amount;type:decimal(10,2);not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
}

// TableName повертає ім'я таблиці для моделі Payment
func (Payment) TableName() string {
	return "payments"
}
