package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"autorental/models"
)

// occupancyWindowDays — вікно розрахунку коефіцієнта зайнятості
const occupancyWindowDays = 90

// busyStatuses — статуси оренд, які блокують автомобіль на період
var busyStatuses = []models.RentalStatus{
	models.RentalStatusActive,
	models.RentalStatusPending,
	models.RentalStatusOverdue,
}

// CarService — сервіс для управління автопарком
type CarService struct {
	db  *gorm.DB
	now Clock
}

// NewCarService створює новий екземпляр CarService
func NewCarService(db *gorm.DB, now Clock) *CarService {
	if now == nil {
		now = time.Now
	}
	return &CarService{db: db, now: now}
}

// GetCarByID повертає автомобіль за ID
func (s *CarService) GetCarByID(id uint) (*models.Car, error) {
	var car models.Car
	if err := s.db.Preload("CarType").First(&car, id).Error; err != nil {
		return nil, err
	}
	return &car, nil
}

// GetAllCars повертає всі автомобілі, нові спочатку
func (s *CarService) GetAllCars() ([]models.Car, error) {
	var cars []models.Car
	if err := s.db.Preload("CarType").Order("created_at DESC").Find(&cars).Error; err != nil {
		return nil, err
	}
	return cars, nil
}

// GetAvailableCars повертає доступні автомобілі
func (s *CarService) GetAvailableCars() ([]models.Car, error) {
	return s.GetCarsByStatus(models.CarStatusAvailable)
}

// GetCarsByStatus повертає автомобілі за статусом
func (s *CarService) GetCarsByStatus(status models.CarStatus) ([]models.Car, error) {
	var cars []models.Car
	if err := s.db.Preload("CarType").Where("status = ?", status).Find(&cars).Error; err != nil {
		return nil, err
	}
	return cars, nil
}

// CarFilter — фільтри каталогу автомобілів
type CarFilter struct {
	Brand     string
	CarTypeID uint
	MaxPrice  decimal.Decimal
	Status    models.CarStatus
}

// SearchCars повертає автомобілі за фільтрами каталогу
func (s *CarService) SearchCars(filter CarFilter) ([]models.Car, error) {
	query := s.db.Preload("CarType").Order("created_at DESC")

	if filter.Brand != "" {
		query = query.Where("brand LIKE ?", "%"+filter.Brand+"%")
	}
	if filter.CarTypeID != 0 {
		query = query.Where("car_type_id = ?", filter.CarTypeID)
	}
	if !filter.MaxPrice.IsZero() {
		query = query.Where("daily_price <= ?", filter.MaxPrice)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var cars []models.Car
	if err := query.Find(&cars).Error; err != nil {
		return nil, err
	}
	return cars, nil
}

// GetCarsAvailableForDates повертає автомобілі, які не мають оренд,
// що перетинаються з вказаним періодом
func (s *CarService) GetCarsAvailableForDates(startDate, endDate time.Time) ([]models.Car, error) {
	busy := s.db.Model(&models.Rental{}).
		Select("car_id").
		Where("status IN ? AND start_date <= ? AND expected_end_date >= ?",
			busyStatuses, dateOnly(endDate), dateOnly(startDate))

	var cars []models.Car
	if err := s.db.Preload("CarType").
		Where("id NOT IN (?)", busy).
		Find(&cars).Error; err != nil {
		return nil, err
	}
	return cars, nil
}

// IsCarBusyForDates перевіряє, чи зайнятий автомобіль на вказані дати
func (s *CarService) IsCarBusyForDates(carID uint, startDate, endDate time.Time) (bool, error) {
	var count int64
	if err := s.db.Model(&models.Rental{}).
		Where("car_id = ? AND status IN ? AND start_date <= ? AND expected_end_date >= ?",
			carID, busyStatuses, dateOnly(endDate), dateOnly(startDate)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CarFinancialReport — фінансовий звіт по автомобілю
type CarFinancialReport struct {
	Car               *models.Car     `json:"car"`
	TotalRentals      int             `json:"total_rentals"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalFines        decimal.Decimal `json:"total_fines"`
	NetRevenue        decimal.Decimal `json:"net_revenue"`
	AvgRentalDuration float64         `json:"avg_rental_duration"`
	OccupancyRate     float64         `json:"occupancy_rate"`
}

// GetCarFinancialReport повертає фінансовий звіт по автомобілю
func (s *CarService) GetCarFinancialReport(car *models.Car) (*CarFinancialReport, error) {
	var completed []models.Rental
	if err := s.db.Where("car_id = ? AND status = ?", car.ID, models.RentalStatusCompleted).
		Preload("Fines").
		Find(&completed).Error; err != nil {
		return nil, err
	}

	today := dateOnly(s.now())
	totalRevenue := decimal.Zero
	totalFines := decimal.Zero
	totalDays := 0
	for _, rental := range completed {
		totalRevenue = totalRevenue.Add(rental.TotalCost)
		for _, fine := range rental.Fines {
			totalFines = totalFines.Add(fine.Amount)
		}
		totalDays += rental.DaysRented(today)
	}

	avgDuration := 0.0
	if len(completed) > 0 {
		avgDuration = float64(totalDays) / float64(len(completed))
	}

	occupancy, err := s.occupancyRate(car.ID)
	if err != nil {
		return nil, err
	}

	return &CarFinancialReport{
		Car:               car,
		TotalRentals:      len(completed),
		TotalRevenue:      totalRevenue,
		TotalFines:        totalFines,
		NetRevenue:        totalRevenue.Sub(totalFines),
		AvgRentalDuration: roundTo1(avgDuration),
		OccupancyRate:     occupancy,
	}, nil
}

// occupancyRate розраховує коефіцієнт зайнятості авто за останні 90 днів
func (s *CarService) occupancyRate(carID uint) (float64, error) {
	windowEnd := dateOnly(s.now())
	windowStart := windowEnd.AddDate(0, 0, -occupancyWindowDays)

	var rentals []models.Rental
	if err := s.db.Where(
		"car_id = ? AND status IN ? AND start_date <= ? AND expected_end_date >= ?",
		carID,
		[]models.RentalStatus{models.RentalStatusActive, models.RentalStatusCompleted},
		windowEnd, windowStart).
		Find(&rentals).Error; err != nil {
		return 0, err
	}

	rentedDays := 0
	for _, rental := range rentals {
		rentalStart := rental.StartDate
		if windowStart.After(rentalStart) {
			rentalStart = windowStart
		}

		rentalEnd := rental.ExpectedEndDate
		if rental.ActualEndDate != nil {
			rentalEnd = *rental.ActualEndDate
		}
		if rentalEnd.After(windowEnd) {
			rentalEnd = windowEnd
		}

		if !rentalEnd.Before(rentalStart) {
			rentedDays += rentalDays(rentalStart, rentalEnd)
		}
	}

	rate := float64(rentedDays) / float64(occupancyWindowDays) * 100
	return roundTo2(rate), nil
}

// CarRevenueEntry — рядок рейтингу автомобілів за виручкою
type CarRevenueEntry struct {
	Car     models.Car      `json:"car"`
	Revenue decimal.Decimal `json:"revenue"`
}

// GetTopCarsByRevenue повертає автомобілі з найбільшою виручкою
func (s *CarService) GetTopCarsByRevenue(limit int) ([]CarRevenueEntry, error) {
	var cars []models.Car
	if err := s.db.Preload("CarType").
		Preload("Rentals", "status = ?", models.RentalStatusCompleted).
		Find(&cars).Error; err != nil {
		return nil, err
	}

	entries := make([]CarRevenueEntry, 0, len(cars))
	for _, car := range cars {
		revenue := decimal.Zero
		for _, rental := range car.Rentals {
			revenue = revenue.Add(rental.TotalCost)
		}
		car.Rentals = nil
		entries = append(entries, CarRevenueEntry{Car: car, Revenue: revenue})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Revenue.GreaterThan(entries[j].Revenue)
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// CarOccupancyEntry — рядок звіту по зайнятості автомобілів
type CarOccupancyEntry struct {
	Car           models.Car `json:"car"`
	Status        string     `json:"status"`
	OccupancyRate float64    `json:"occupancy_rate"`
	TotalRentals  int64      `json:"total_rentals"`
}

// GetCarsOccupancyReport повертає звіт по зайнятості автомобілів,
// відсортований за коефіцієнтом зайнятості
func (s *CarService) GetCarsOccupancyReport() ([]CarOccupancyEntry, error) {
	cars, err := s.GetAllCars()
	if err != nil {
		return nil, err
	}

	report := make([]CarOccupancyEntry, 0, len(cars))
	for _, car := range cars {
		rate, err := s.occupancyRate(car.ID)
		if err != nil {
			return nil, err
		}

		var total int64
		if err := s.db.Model(&models.Rental{}).Where("car_id = ?", car.ID).Count(&total).Error; err != nil {
			return nil, err
		}

		report = append(report, CarOccupancyEntry{
			Car:           car,
			Status:        string(car.Status),
			OccupancyRate: rate,
			TotalRentals:  total,
		})
	}

	sort.Slice(report, func(i, j int) bool {
		return report[i].OccupancyRate > report[j].OccupancyRate
	})
	return report, nil
}

// CountCarRentals повертає кількість активних оренд та всіх оренд автомобіля.
// Використовується як передумова перед видаленням.
func (s *CarService) CountCarRentals(carID uint) (active int64, total int64, err error) {
	if err = s.db.Model(&models.Rental{}).
		Where("car_id = ? AND status IN ?", carID, busyStatuses).
		Count(&active).Error; err != nil {
		return 0, 0, err
	}
	if err = s.db.Model(&models.Rental{}).
		Where("car_id = ?", carID).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}
	return active, total, nil
}

// DeleteCar видаляє автомобіль.
//
// Видалення заборонене, поки в автомобіля є активні оренди. Якщо є лише
// завершені оренди, видалення потребує явного підтвердження та прибирає
// історію оренд разом зі штрафами і платежами.
func (s *CarService) DeleteCar(car *models.Car, confirmed bool) error {
	active, total, err := s.CountCarRentals(car.ID)
	if err != nil {
		return errors.New("помилка при перевірці оренд автомобіля")
	}

	if active > 0 {
		return fmt.Errorf("%w: знайдено %d активних оренд", ErrCarHasActiveRentals, active)
	}
	if total > 0 && !confirmed {
		return fmt.Errorf("%w: %d оренд, потрібне підтвердження", ErrCarHasRentalHistory, total)
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return errors.New("помилка при початку транзакції")
	}

	var rentalIDs []uint
	if err := tx.Model(&models.Rental{}).Where("car_id = ?", car.ID).Pluck("id", &rentalIDs).Error; err != nil {
		tx.Rollback()
		return errors.New("помилка при пошуку оренд автомобіля")
	}

	if len(rentalIDs) > 0 {
		if err := tx.Where("rental_id IN ?", rentalIDs).Delete(&models.Fine{}).Error; err != nil {
			tx.Rollback()
			return errors.New("помилка при видаленні штрафів")
		}
		if err := tx.Where("rental_id IN ?", rentalIDs).Delete(&models.Payment{}).Error; err != nil {
			tx.Rollback()
			return errors.New("помилка при видаленні платежів")
		}
		if err := tx.Where("car_id = ?", car.ID).Delete(&models.Rental{}).Error; err != nil {
			tx.Rollback()
			return errors.New("помилка при видаленні оренд")
		}
	}

	if err := tx.Delete(&models.Car{}, car.ID).Error; err != nil {
		tx.Rollback()
		return errors.New("помилка при видаленні автомобіля")
	}

	return tx.Commit().Error
}

// DeleteCarType видаляє тип автомобіля, якщо він не використовується
func (s *CarService) DeleteCarType(typeID uint) error {
	var inUse int64
	if err := s.db.Model(&models.Car{}).Where("car_type_id = ?", typeID).Count(&inUse).Error; err != nil {
		return err
	}
	if inUse > 0 {
		return ErrCarTypeInUse
	}
	return s.db.Delete(&models.CarType{}, typeID).Error
}

func roundTo1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

func roundTo2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
