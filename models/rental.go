package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RentalStatus представляє статус оренди
type RentalStatus string

const (
	RentalStatusPending   RentalStatus = "pending"   // Очікує підтвердження
	RentalStatusActive    RentalStatus = "active"    // Активна
	RentalStatusCompleted RentalStatus = "completed" // Завершена
	RentalStatusOverdue   RentalStatus = "overdue"   // Прострочена
	RentalStatusCancelled RentalStatus = "cancelled" // Скасована
)

// Rental представляє оренду автомобіля
type Rental struct {
	ID              uint            `gorm:"primaryKey;autoIncrement"`
	Number          string          `gorm:"column:number;unique;not null;size:36"`
	ClientID        uint            `gorm:"column:client_id;not null;index"`
	Client          Client          `gorm:"foreignKey:ClientID"`
	CarID           uint            `gorm:"column:car_id;not null;index"`
	Car             Car             `gorm:"foreignKey:CarID"`
	StartDate       time.Time       `gorm:"column:start_date;not null"`
	ExpectedEndDate time.Time       `gorm:"column:expected_end_date;not null"`
	ActualEndDate   *time.Time      `gorm:"column:actual_end_date"`
	Deposit         decimal.Decimal `gorm:"column:deposit;type:decimal(10,2);not null"`
	DailyCost       decimal.Decimal `gorm:"column:daily_cost;type:decimal(10,2);not null"`
	TotalCost       decimal.Decimal `gorm:"column:total_cost;type:decimal(10,2);not null;default:0"`
	Status          RentalStatus    `gorm:"column:status;type:varchar(20);not null;default:'pending';index"`
	DamageLevel     int             `gorm:"column:damage_level;not null;default:0"`
	LateDays        int             `gorm:"column:late_days;not null;default:0"`
	Fines           []Fine          `gorm:"foreignKey:RentalID;constraint:OnDelete:CASCADE"`
	Payments        []Payment       `gorm:"foreignKey:RentalID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time       `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

// TableName повертає ім'я таблиці для моделі Rental
func (Rental) TableName() string {
	return "rentals"
}

// DaysRented повертає кількість днів оренди станом на вказану дату
func (r *Rental) DaysRented(today time.Time) int {
	endDate := today
	if r.ActualEndDate != nil {
		endDate = *r.ActualEndDate
	}
	return int(endDate.Sub(r.StartDate).Hours()/24) + 1
}

// IsOverdue перевіряє, чи прострочена оренда станом на вказану дату
func (r *Rental) IsOverdue(today time.Time) bool {
	return r.Status == RentalStatusActive && today.After(r.ExpectedEndDate)
}

// IsTerminal перевіряє, чи оренда в термінальному статусі
func (r *Rental) IsTerminal() bool {
	return r.Status == RentalStatusCompleted || r.Status == RentalStatusCancelled
}
