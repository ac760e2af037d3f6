package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CarStatus представляє статус автомобіля в автопарку
type CarStatus string

const (
	CarStatusAvailable   CarStatus = "available"   // Доступний для оренди
	CarStatusRented      CarStatus = "rented"      // Орендований
	CarStatusMaintenance CarStatus = "maintenance" // На ремонті
	CarStatusUnavailable CarStatus = "unavailable" // Недоступний
)

// CarType представляє тип автомобіля (седан, кросовер, мінівен тощо)
type CarType struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"column:name;unique;not null;size:50"`
	Description string `gorm:"column:description;type:text"`
}

// TableName повертає ім'я таблиці для моделі CarType
func (CarType) TableName() string {
	return "car_types"
}

// Car представляє автомобіль в автопарку
type Car struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"`
	Brand       string          `gorm:"column:brand;not null;size:50"`
	Model       string          `gorm:"column:model;not null;size:50"`
	CarTypeID   uint            `gorm:"column:car_type_id;not null"`
	CarType     CarType         `gorm:"foreignKey:CarTypeID"`
	Year        int             `gorm:"column:year;not null"`
	DailyPrice  decimal.Decimal `gorm:"column:daily_price;type:decimal(10,2);not null"`
	Photo       string          `gorm:"column:photo;size:255"`
	Description string          `gorm:"column:description;type:text"`
	Status      CarStatus       `gorm:"column:status;type:varchar(20);not null;default:'available'"`
	Rentals     []Rental        `gorm:"foreignKey:CarID"`
	CreatedAt   time.Time       `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

// TableName повертає ім'я таблиці для моделі Car
func (Car) TableName() string {
	return "cars"
}

// BeforeCreate хук для валідації перед створенням
func (c *Car) BeforeCreate(tx *gorm.DB) error {
	if c.Year < 1900 || c.Year > 2100 {
		return errors.New("year must be between 1900 and 2100")
	}
	if !c.DailyPrice.IsPositive() {
		return errors.New("daily price must be positive")
	}
	return nil
}

// DisplayName повертає назву автомобіля для відображення
func (c *Car) DisplayName() string {
	return fmt.Sprintf("%s %s (%d)", c.Brand, c.Model, c.Year)
}

// IsAvailable перевіряє, чи доступний автомобіль для оренди
func (c *Car) IsAvailable() bool {
	return c.Status == CarStatusAvailable
}
