package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"autorental/models"
)

// testToday — фіксована дата "сьогодні" для тестів
var testToday = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

// fixedClock повертає годинник, що завжди показує вказаний момент
func fixedClock(moment time.Time) Clock {
	return func() time.Time { return moment }
}

// mustDec парсить десяткове число, панікує при помилці
func mustDec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// setupTestDB створює ізольовану in-memory базу даних для тесту
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.CarType{},
		&models.Car{},
		&models.Rental{},
		&models.Fine{},
		&models.Payment{},
	))

	return db
}

// createTestClient створює користувача та профіль клієнта
func createTestClient(t *testing.T, db *gorm.DB) *models.Client {
	t.Helper()

	user := &models.User{
		Email:    fmt.Sprintf("%s@test.ua", uuid.NewString()[:8]),
		Password: "$2a$10$hashhashhashhashhashha",
	}
	require.NoError(t, db.Create(user).Error)

	client := &models.Client{
		UserID:   user.ID,
		FullName: "Тестовий Клієнт",
		Phone:    "+380501234567",
	}
	require.NoError(t, db.Create(client).Error)

	client.User = *user
	return client
}

// createTestCar створює тип авто та автомобіль з вказаним роком
// та денною ціною
func createTestCar(t *testing.T, db *gorm.DB, year int, dailyPrice string) *models.Car {
	t.Helper()

	carType := &models.CarType{Name: "Седан " + uuid.NewString()[:8]}
	require.NoError(t, db.Create(carType).Error)

	car := &models.Car{
		Brand:      "Toyota",
		Model:      "Corolla",
		CarTypeID:  carType.ID,
		Year:       year,
		DailyPrice: decimal.RequireFromString(dailyPrice),
		Status:     models.CarStatusAvailable,
	}
	require.NoError(t, db.Create(car).Error)

	car.CarType = *carType
	return car
}

// createTestRental створює оренду напряму в базі, в обхід фабрики
func createTestRental(t *testing.T, db *gorm.DB, clientID, carID uint, status models.RentalStatus, startDate, endDate time.Time, totalCost string) *models.Rental {
	t.Helper()

	rental := &models.Rental{
		Number:          uuid.NewString(),
		ClientID:        clientID,
		CarID:           carID,
		StartDate:       startDate,
		ExpectedEndDate: endDate,
		Deposit:         decimal.RequireFromString("3000.00"),
		DailyCost:       decimal.RequireFromString("1000.00"),
		TotalCost:       decimal.RequireFromString(totalCost),
		Status:          status,
	}
	require.NoError(t, db.Create(rental).Error)
	return rental
}
