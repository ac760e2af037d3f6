package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"autorental/models"
)

// maxRentalDays — максимальна тривалість оренди
const maxRentalDays = 365

// depositRate — частка оцінки вартості оренди, що береться як застава
var depositRate = decimal.RequireFromString("0.3")

// RentalFactory інкапсулює створення оренд з валідацією та обчисленнями
type RentalFactory struct {
	db      *gorm.DB
	pricing *PricingStrategyFactory
	now     Clock
}

// NewRentalFactory створює нову фабрику оренд
func NewRentalFactory(db *gorm.DB, now Clock) *RentalFactory {
	if now == nil {
		now = time.Now
	}
	return &RentalFactory{
		db:      db,
		pricing: NewPricingStrategyFactory(now),
		now:     now,
	}
}

// CalculateDeposit розраховує заставну суму: 30% від оцінки вартості оренди
// за комбінованою стратегією. Оцінка рахується від сьогоднішньої дати,
// а не від дати початку оренди.
func (f *RentalFactory) CalculateDeposit(car *models.Car, rentalDaysCount int) decimal.Decimal {
	strategy := f.pricing.GetDefaultStrategy()
	today := dateOnly(f.now())
	estimatedEnd := today.AddDate(0, 0, rentalDaysCount)

	rentalCost := strategy.CalculatePrice(car, today, estimatedEnd)
	return rentalCost.Mul(depositRate).Round(2)
}

// CreateRental створює нову оренду з автоматичним розрахунком цін.
//
// Валідація виконується до будь-яких записів. Оренда, платіж застави та
// зміна статусу автомобіля зберігаються в одній транзакції: статус
// змінюється умовним оновленням (status='rented' лише якщо 'available'),
// що захищає від одночасного бронювання того ж авто.
func (f *RentalFactory) CreateRental(client *models.Client, car *models.Car, startDate, endDate time.Time, pricingStrategy string) (*models.Rental, error) {
	today := dateOnly(f.now())
	startDate = dateOnly(startDate)
	endDate = dateOnly(endDate)

	// Валідація
	if !car.IsAvailable() {
		return nil, fmt.Errorf("%w: %s", ErrCarUnavailable, car.DisplayName())
	}
	if startDate.Before(today) {
		return nil, fmt.Errorf("%w: дата початку не може бути в минулому", ErrInvalidDateRange)
	}
	if !endDate.After(startDate) {
		return nil, fmt.Errorf("%w: дата закінчення повинна бути після дати початку", ErrInvalidDateRange)
	}

	// Розрахунок вартості за обраною стратегією
	strategy := f.pricing.CreateStrategy(pricingStrategy)
	totalCost := strategy.CalculatePrice(car, startDate, endDate)

	// Розрахунок застави
	days := rentalDays(startDate, endDate)
	deposit := f.CalculateDeposit(car, days)

	// Якщо дата початку сьогодні або раніше, статус active, інакше pending
	status := models.RentalStatusPending
	if !startDate.After(today) {
		status = models.RentalStatusActive
	}

	rental := &models.Rental{
		Number:          uuid.NewString(),
		ClientID:        client.ID,
		CarID:           car.ID,
		StartDate:       startDate,
		ExpectedEndDate: endDate,
		Deposit:         deposit,
		DailyCost:       car.DailyPrice,
		TotalCost:       totalCost,
		Status:          status,
	}

	// Починаємо транзакцію
	tx := f.db.Begin()
	if tx.Error != nil {
		return nil, errors.New("помилка при початку транзакції")
	}

	// Умовне оновлення статусу автомобіля
	res := tx.Model(&models.Car{}).
		Where("id = ? AND status = ?", car.ID, models.CarStatusAvailable).
		Update("status", models.CarStatusRented)
	if res.Error != nil {
		tx.Rollback()
		return nil, errors.New("помилка при оновленні статусу автомобіля")
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return nil, fmt.Errorf("%w: %s", ErrCarUnavailable, car.DisplayName())
	}

	// Створюємо оренду
	if err := tx.Create(rental).Error; err != nil {
		tx.Rollback()
		return nil, errors.New("помилка при створенні оренди")
	}

	// Створюємо платіж застави
	payment := &models.Payment{
		RentalID:    rental.ID,
		PaymentType: models.PaymentTypeDeposit,
		Amount:      deposit,
	}
	if err := tx.Create(payment).Error; err != nil {
		tx.Rollback()
		return nil, errors.New("помилка при створенні платежу застави")
	}

	// Підтверджуємо транзакцію
	if err := tx.Commit().Error; err != nil {
		return nil, errors.New("помилка при підтвердженні транзакції")
	}

	car.Status = models.CarStatusRented
	return rental, nil
}

// ValidateRentalDates валідує дати оренди без створення оренди.
// Повертає (true, "") якщо дати коректні, інакше (false, повідомлення).
func (f *RentalFactory) ValidateRentalDates(startDate, endDate time.Time) (bool, string) {
	today := dateOnly(f.now())
	startDate = dateOnly(startDate)
	endDate = dateOnly(endDate)

	if startDate.Before(today) {
		return false, "Дата початку не може бути в минулому"
	}
	if !endDate.After(startDate) {
		return false, "Дата закінчення повинна бути після дати початку"
	}

	days := int(endDate.Sub(startDate).Hours() / 24)
	if days > maxRentalDays {
		return false, fmt.Sprintf("Максимальна тривалість оренди - %d днів", maxRentalDays)
	}
	if days < 1 {
		return false, "Мінімальна тривалість оренди - 1 день"
	}

	return true, ""
}
