package services

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"autorental/models"
)

// DashboardStats — зведена статистика для панелі адміністратора
type DashboardStats struct {
	TotalCars      int64             `json:"total_cars"`
	AvailableCars  int64             `json:"available_cars"`
	ActiveRentals  int64             `json:"active_rentals"`
	TotalClients   int64             `json:"total_clients"`
	MonthlyRevenue decimal.Decimal   `json:"monthly_revenue"`
	TotalRevenue   decimal.Decimal   `json:"total_revenue"`
	TotalDeposits  decimal.Decimal   `json:"total_deposits"`
	TotalFines     decimal.Decimal   `json:"total_fines"`
	TopCars        []CarRevenueEntry `json:"top_cars"`
}

// RevenuePoint — виручка за день
type RevenuePoint struct {
	Date  time.Time       `json:"date"`
	Total decimal.Decimal `json:"total"`
}

// StatisticsService — сервіс для генерації статистики та звітів
type StatisticsService struct {
	db   *gorm.DB
	cars *CarService
	now  Clock
}

// NewStatisticsService створює новий екземпляр StatisticsService
func NewStatisticsService(db *gorm.DB, now Clock) *StatisticsService {
	if now == nil {
		now = time.Now
	}
	return &StatisticsService{
		db:   db,
		cars: NewCarService(db, now),
		now:  now,
	}
}

// finishDate повертає дату завершення оренди: фактичну, якщо вона є,
// інакше очікувану
func finishDate(rental *models.Rental) time.Time {
	if rental.ActualEndDate != nil {
		return *rental.ActualEndDate
	}
	return rental.ExpectedEndDate
}

// GetDashboardStats повертає статистику для панелі адміністратора
func (s *StatisticsService) GetDashboardStats() (*DashboardStats, error) {
	today := dateOnly(s.now())
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	stats := &DashboardStats{
		MonthlyRevenue: decimal.Zero,
		TotalRevenue:   decimal.Zero,
		TotalDeposits:  decimal.Zero,
		TotalFines:     decimal.Zero,
	}

	if err := s.db.Model(&models.Car{}).Count(&stats.TotalCars).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Car{}).
		Where("status = ?", models.CarStatusAvailable).
		Count(&stats.AvailableCars).Error; err != nil {
		return nil, err
	}

	// Активні оренди включають pending, які вже почалися
	if err := s.db.Model(&models.Rental{}).
		Where("status IN ? AND start_date <= ?",
			[]models.RentalStatus{models.RentalStatusActive, models.RentalStatusPending}, today).
		Count(&stats.ActiveRentals).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Client{}).Count(&stats.TotalClients).Error; err != nil {
		return nil, err
	}

	// Фінансова статистика рахується по завершених орендах
	var completed []models.Rental
	if err := s.db.Where("status = ?", models.RentalStatusCompleted).Find(&completed).Error; err != nil {
		return nil, err
	}
	for i := range completed {
		rental := &completed[i]
		stats.TotalRevenue = stats.TotalRevenue.Add(rental.TotalCost)
		if !finishDate(rental).Before(monthStart) {
			stats.MonthlyRevenue = stats.MonthlyRevenue.Add(rental.TotalCost)
		}
	}

	var deposits []models.Payment
	if err := s.db.Where("payment_type = ?", models.PaymentTypeDeposit).Find(&deposits).Error; err != nil {
		return nil, err
	}
	for _, payment := range deposits {
		stats.TotalDeposits = stats.TotalDeposits.Add(payment.Amount)
	}

	var fines []models.Fine
	if err := s.db.Find(&fines).Error; err != nil {
		return nil, err
	}
	for _, fine := range fines {
		stats.TotalFines = stats.TotalFines.Add(fine.Amount)
	}

	topCars, err := s.cars.GetTopCarsByRevenue(5)
	if err != nil {
		return nil, err
	}
	stats.TopCars = topCars

	return stats, nil
}

// GetRevenueByPeriod повертає виручку за період, згруповану по датах
// завершення оренд
func (s *StatisticsService) GetRevenueByPeriod(startDate, endDate time.Time) ([]RevenuePoint, error) {
	startDate = dateOnly(startDate)
	endDate = dateOnly(endDate)

	var completed []models.Rental
	if err := s.db.Where("status = ?", models.RentalStatusCompleted).Find(&completed).Error; err != nil {
		return nil, err
	}

	byDay := make(map[time.Time]decimal.Decimal)
	for i := range completed {
		rental := &completed[i]
		day := dateOnly(finishDate(rental))
		if day.Before(startDate) || day.After(endDate) {
			continue
		}
		byDay[day] = byDay[day].Add(rental.TotalCost)
	}

	points := make([]RevenuePoint, 0, len(byDay))
	for day, total := range byDay {
		points = append(points, RevenuePoint{Date: day, Total: total})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points, nil
}

// GetAverageRentalCost повертає середню вартість завершеної оренди
func (s *StatisticsService) GetAverageRentalCost() (decimal.Decimal, error) {
	var completed []models.Rental
	if err := s.db.Where("status = ?", models.RentalStatusCompleted).Find(&completed).Error; err != nil {
		return decimal.Zero, err
	}
	if len(completed) == 0 {
		return decimal.Zero, nil
	}

	total := decimal.Zero
	for _, rental := range completed {
		total = total.Add(rental.TotalCost)
	}
	return total.Div(decimal.NewFromInt(int64(len(completed)))).Round(2), nil
}
