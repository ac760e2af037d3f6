package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autorental/models"
)

func TestCalculateDeposit(t *testing.T) {
	db := setupTestDB(t)
	factory := NewRentalFactory(db, fixedClock(testToday))

	// Авто 5 років (без коефіцієнта), 5 днів оренди.
	// Оцінка рахується від сьогодні на 5 днів вперед: 6 днів * 1000 = 6000,
	// застава 30% = 1800
	car := createTestCar(t, db, 2020, "1000.00")
	deposit := factory.CalculateDeposit(car, 5)
	assert.Equal(t, "1800.00", deposit.StringFixed(2))
}

func TestCreateRental(t *testing.T) {
	db := setupTestDB(t)
	factory := NewRentalFactory(db, fixedClock(testToday))
	client := createTestClient(t, db)
	car := createTestCar(t, db, 2020, "1000.00")

	startDate := testToday.AddDate(0, 0, 1)
	endDate := testToday.AddDate(0, 0, 5)

	rental, err := factory.CreateRental(client, car, startDate, endDate, PricingCombined)
	require.NoError(t, err)

	// Майбутня дата початку — статус pending
	assert.Equal(t, models.RentalStatusPending, rental.Status)
	assert.NotEmpty(t, rental.Number)
	// 5 днів * 1000, без знижок
	assert.Equal(t, "5000.00", rental.TotalCost.StringFixed(2))
	assert.Equal(t, "1800.00", rental.Deposit.StringFixed(2))

	// Автомобіль переведено в статус rented
	var updatedCar models.Car
	require.NoError(t, db.First(&updatedCar, car.ID).Error)
	assert.Equal(t, models.CarStatusRented, updatedCar.Status)

	// Платіж застави створено
	var payments []models.Payment
	require.NoError(t, db.Where("rental_id = ?", rental.ID).Find(&payments).Error)
	require.Len(t, payments, 1)
	assert.Equal(t, models.PaymentTypeDeposit, payments[0].PaymentType)
	assert.Equal(t, "1800.00", payments[0].Amount.StringFixed(2))
}

func TestCreateRentalStartsToday(t *testing.T) {
	db := setupTestDB(t)
	factory := NewRentalFactory(db, fixedClock(testToday))
	client := createTestClient(t, db)
	car := createTestCar(t, db, 2020, "1000.00")

	rental, err := factory.CreateRental(client, car, testToday, testToday.AddDate(0, 0, 3), PricingCombined)
	require.NoError(t, err)

	// Оренда, що починається сьогодні, одразу активна
	assert.Equal(t, models.RentalStatusActive, rental.Status)
}

func TestCreateRentalValidation(t *testing.T) {
	db := setupTestDB(t)
	factory := NewRentalFactory(db, fixedClock(testToday))
	client := createTestClient(t, db)

	t.Run("недоступний автомобіль", func(t *testing.T) {
		car := createTestCar(t, db, 2020, "1000.00")
		require.NoError(t, db.Model(car).Update("status", models.CarStatusMaintenance).Error)
		car.Status = models.CarStatusMaintenance

		_, err := factory.CreateRental(client, car, testToday, testToday.AddDate(0, 0, 3), PricingCombined)
		assert.ErrorIs(t, err, ErrCarUnavailable)
	})

	t.Run("дата початку в минулому", func(t *testing.T) {
		car := createTestCar(t, db, 2020, "1000.00")
		_, err := factory.CreateRental(client, car, testToday.AddDate(0, 0, -1), testToday.AddDate(0, 0, 3), PricingCombined)
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})

	t.Run("дата закінчення не після початку", func(t *testing.T) {
		car := createTestCar(t, db, 2020, "1000.00")
		_, err := factory.CreateRental(client, car, testToday, testToday, PricingCombined)
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})
}

func TestCreateRentalConcurrentGuard(t *testing.T) {
	db := setupTestDB(t)
	factory := NewRentalFactory(db, fixedClock(testToday))
	client := createTestClient(t, db)
	car := createTestCar(t, db, 2020, "1000.00")

	// Перше бронювання проходить
	_, err := factory.CreateRental(client, car, testToday, testToday.AddDate(0, 0, 3), PricingCombined)
	require.NoError(t, err)

	// Друге бронювання з застарілою копією авто (ще має статус available)
	// відсікається умовним оновленням статусу
	staleCar := createStaleCopy(car)
	_, err = factory.CreateRental(client, staleCar, testToday, testToday.AddDate(0, 0, 3), PricingCombined)
	assert.ErrorIs(t, err, ErrCarUnavailable)

	// Оренда залишилася одна
	var count int64
	require.NoError(t, db.Model(&models.Rental{}).Where("car_id = ?", car.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

// createStaleCopy повертає копію авто зі статусом available,
// імітуючи паралельний запит зі застарілими даними
func createStaleCopy(car *models.Car) *models.Car {
	stale := *car
	stale.Status = models.CarStatusAvailable
	return &stale
}

func TestValidateRentalDates(t *testing.T) {
	db := setupTestDB(t)
	factory := NewRentalFactory(db, fixedClock(testToday))

	tests := []struct {
		name      string
		startDays int
		endDays   int
		valid     bool
	}{
		{"коректні дати", 1, 5, true},
		{"початок в минулому", -1, 5, false},
		{"закінчення раніше початку", 5, 1, false},
		{"закінчення дорівнює початку", 3, 3, false},
		{"рівно 365 днів", 0, 365, true},
		{"понад 365 днів", 0, 366, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			startDate := testToday.AddDate(0, 0, tt.startDays)
			endDate := testToday.AddDate(0, 0, tt.endDays)

			ok, message := factory.ValidateRentalDates(startDate, endDate)
			assert.Equal(t, tt.valid, ok)
			if !tt.valid {
				assert.NotEmpty(t, message)
			}
		})
	}
}
