package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"autorental/models"
	"autorental/utils"
)

// RentalService інкапсулює бізнес-логіку роботи з орендами:
// створення через фабрику, оновлення статусів та завершення з розрахунком штрафів.
type RentalService struct {
	db      *gorm.DB
	factory *RentalFactory
	fines   *FineCalculator
	pricing *PricingStrategyFactory
	email   *EmailService
	now     Clock
}

// NewRentalService створює новий екземпляр RentalService.
// email може бути nil, тоді сповіщення не відправляються.
func NewRentalService(db *gorm.DB, email *EmailService, now Clock) *RentalService {
	if now == nil {
		now = time.Now
	}
	return &RentalService{
		db:      db,
		factory: NewRentalFactory(db, now),
		fines:   NewFineCalculator(nil),
		pricing: NewPricingStrategyFactory(now),
		email:   email,
		now:     now,
	}
}

// Factory повертає фабрику оренд (розрахунок застави, валідація дат)
func (s *RentalService) Factory() *RentalFactory {
	return s.factory
}

// CreateRental створює нову оренду через фабрику та відправляє сповіщення клієнту.
// Порожня назва стратегії трактується як комбінована.
func (s *RentalService) CreateRental(client *models.Client, car *models.Car, startDate, endDate time.Time, pricingStrategy string) (*models.Rental, error) {
	rental, err := s.factory.CreateRental(client, car, startDate, endDate, pricingStrategy)
	if err != nil {
		return nil, err
	}

	utils.GetMetrics().RecordRentalCreated(rental.Deposit.InexactFloat64())

	if s.email != nil && client.User.Email != "" {
		if err := s.email.SendRentalCreatedNotification(client.User.Email, car, rental); err != nil {
			// Сповіщення не критичне, оренда вже створена
			log.Printf("Помилка при відправці сповіщення про оренду: %v", err)
		}
	}

	return rental, nil
}

// GetRentalByID повертає оренду з усіма зв'язаними записами
func (s *RentalService) GetRentalByID(id uint) (*models.Rental, error) {
	var rental models.Rental
	if err := s.db.Preload("Client.User").
		Preload("Car.CarType").
		Preload("Fines").
		Preload("Payments").
		First(&rental, id).Error; err != nil {
		return nil, err
	}
	return &rental, nil
}

// GetClientRentals повертає всі оренди клієнта, нові спочатку
func (s *RentalService) GetClientRentals(clientID uint) ([]models.Rental, error) {
	var rentals []models.Rental
	if err := s.db.Where("client_id = ?", clientID).
		Preload("Car.CarType").
		Order("created_at DESC").
		Find(&rentals).Error; err != nil {
		return nil, err
	}
	return rentals, nil
}

// GetActiveRentals повертає активні оренди: статуси active та pending,
// які вже почалися
func (s *RentalService) GetActiveRentals() ([]models.Rental, error) {
	today := dateOnly(s.now())
	var rentals []models.Rental
	if err := s.db.Where("status IN ? AND start_date <= ?",
		[]models.RentalStatus{models.RentalStatusActive, models.RentalStatusPending}, today).
		Preload("Car").
		Preload("Client").
		Find(&rentals).Error; err != nil {
		return nil, err
	}
	return rentals, nil
}

// GetAllRentals повертає всі оренди з опціональним фільтром за статусом
func (s *RentalService) GetAllRentals(status models.RentalStatus) ([]models.Rental, error) {
	query := s.db.Preload("Car").Preload("Client").Order("created_at DESC")
	if status != "" {
		if status == models.RentalStatusActive {
			// Фільтр "active" включає також pending, які вже почалися
			today := dateOnly(s.now())
			query = query.Where("status IN ? AND start_date <= ?",
				[]models.RentalStatus{models.RentalStatusActive, models.RentalStatusPending}, today)
		} else {
			query = query.Where("status = ?", status)
		}
	}

	var rentals []models.Rental
	if err := query.Find(&rentals).Error; err != nil {
		return nil, err
	}
	return rentals, nil
}

// UpdateOverdueRentals оновлює статуси оренд:
// pending -> active для оренд, які вже почалися,
// active -> overdue для оренд з простроченою датою повернення.
// Операція ідемпотентна, повертає кількість оновлених оренд.
func (s *RentalService) UpdateOverdueRentals() (int64, error) {
	today := dateOnly(s.now())

	// Активуємо pending оренди, які вже почалися
	activated := s.db.Model(&models.Rental{}).
		Where("status = ? AND start_date <= ?", models.RentalStatusPending, today).
		Update("status", models.RentalStatusActive)
	if activated.Error != nil {
		return 0, errors.New("помилка при активації оренд")
	}

	// Оновлюємо прострочені оренди
	overdue := s.db.Model(&models.Rental{}).
		Where("status = ? AND expected_end_date < ?", models.RentalStatusActive, today).
		Update("status", models.RentalStatusOverdue)
	if overdue.Error != nil {
		return 0, errors.New("помилка при оновленні прострочених оренд")
	}

	if overdue.RowsAffected > 0 {
		utils.GetMetrics().RecordOverdueTransitions(overdue.RowsAffected)
	}

	return activated.RowsAffected + overdue.RowsAffected, nil
}

// CompleteRental завершує оренду з розрахунком штрафів та оновленням статусів.
//
// Вартість перераховується за фактичну тривалість оренди за стратегією
// за замовчуванням, штрафи додаються до вартості. Записи про штрафи,
// платіж повернення застави та зміна статусу автомобіля зберігаються
// в одній транзакції.
//
// Перевірку, що оренда ще не завершена, виконує викликаючий код.
func (s *RentalService) CompleteRental(rental *models.Rental, actualEndDate time.Time, damageLevel, lateDays int) (*models.Rental, decimal.Decimal, decimal.Decimal, error) {
	actualEndDate = dateOnly(actualEndDate)

	// Розрахунок штрафів
	totalFines := s.fines.CalculateTotalFines(rental, damageLevel, lateDays)
	refund := s.fines.CalculateRefund(rental, totalFines)

	// Починаємо транзакцію
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, decimal.Zero, decimal.Zero, errors.New("помилка при початку транзакції")
	}

	var car models.Car
	if err := tx.First(&car, rental.CarID).Error; err != nil {
		tx.Rollback()
		return nil, decimal.Zero, decimal.Zero, errors.New("автомобіль оренди не знайдено")
	}

	// Оновлення даних оренди
	rental.ActualEndDate = &actualEndDate
	rental.DamageLevel = damageLevel
	rental.LateDays = lateDays
	rental.Status = models.RentalStatusCompleted

	// Перерахунок вартості з урахуванням фактичних днів та штрафів
	strategy := s.pricing.GetDefaultStrategy()
	rental.TotalCost = strategy.CalculatePrice(&car, rental.StartDate, actualEndDate).Add(totalFines)

	if err := tx.Model(&models.Rental{}).Where("id = ?", rental.ID).Updates(map[string]interface{}{
		"actual_end_date": rental.ActualEndDate,
		"damage_level":    rental.DamageLevel,
		"late_days":       rental.LateDays,
		"status":          rental.Status,
		"total_cost":      rental.TotalCost,
	}).Error; err != nil {
		tx.Rollback()
		return nil, decimal.Zero, decimal.Zero, errors.New("помилка при оновленні оренди")
	}

	// Створюємо записи про штрафи
	if err := s.createFineRecords(tx, rental, damageLevel, lateDays); err != nil {
		tx.Rollback()
		return nil, decimal.Zero, decimal.Zero, err
	}

	// Повернення застави (якщо є що повертати)
	if refund.IsPositive() {
		payment := &models.Payment{
			RentalID:    rental.ID,
			PaymentType: models.PaymentTypeRefund,
			Amount:      refund,
		}
		if err := tx.Create(payment).Error; err != nil {
			tx.Rollback()
			return nil, decimal.Zero, decimal.Zero, errors.New("помилка при створенні платежу повернення")
		}
	}

	// Автомобіль знову доступний
	if err := tx.Model(&models.Car{}).
		Where("id = ?", rental.CarID).
		Update("status", models.CarStatusAvailable).Error; err != nil {
		tx.Rollback()
		return nil, decimal.Zero, decimal.Zero, errors.New("помилка при оновленні статусу автомобіля")
	}

	// Підтверджуємо транзакцію
	if err := tx.Commit().Error; err != nil {
		return nil, decimal.Zero, decimal.Zero, errors.New("помилка при підтвердженні транзакції")
	}

	utils.GetMetrics().RecordRentalCompleted(totalFines.InexactFloat64(), refund.InexactFloat64())

	if s.email != nil && rental.Client.User.Email != "" {
		if err := s.email.SendRentalCompletedNotification(rental.Client.User.Email, rental, totalFines, refund); err != nil {
			log.Printf("Помилка при відправці сповіщення про завершення оренди: %v", err)
		}
	}

	return rental, totalFines, refund, nil
}

// createFineRecords створює записи про штрафи в базі даних
func (s *RentalService) createFineRecords(tx *gorm.DB, rental *models.Rental, damageLevel, lateDays int) error {
	if damageLevel > 0 {
		damageFine := s.fines.Strategy.CalculateDamageFine(rental, damageLevel)
		fine := &models.Fine{
			RentalID: rental.ID,
			Reason:   fmt.Sprintf("Пошкодження рівня %d", damageLevel),
			Amount:   damageFine,
		}
		if err := tx.Create(fine).Error; err != nil {
			return errors.New("помилка при створенні штрафу за пошкодження")
		}
		utils.GetMetrics().RecordFineIssued(damageFine.InexactFloat64())
	}

	if lateDays > 0 {
		lateFine := s.fines.Strategy.CalculateLateFine(rental, lateDays)
		fine := &models.Fine{
			RentalID: rental.ID,
			Reason:   fmt.Sprintf("Запізнення на %d днів", lateDays),
			Amount:   lateFine,
		}
		if err := tx.Create(fine).Error; err != nil {
			return errors.New("помилка при створенні штрафу за запізнення")
		}
		utils.GetMetrics().RecordFineIssued(lateFine.InexactFloat64())
	}

	return nil
}
