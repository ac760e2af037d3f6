package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autorental/models"
)

func TestSearchCars(t *testing.T) {
	db := setupTestDB(t)
	service := NewCarService(db, fixedClock(testToday))

	cheap := createTestCar(t, db, 2020, "800.00")
	expensive := createTestCar(t, db, 2023, "2500.00")
	require.NoError(t, db.Model(expensive).Update("brand", "BMW").Error)

	// Без фільтрів повертаються всі
	cars, err := service.SearchCars(CarFilter{})
	require.NoError(t, err)
	assert.Len(t, cars, 2)

	// Фільтр за брендом
	cars, err = service.SearchCars(CarFilter{Brand: "BMW"})
	require.NoError(t, err)
	require.Len(t, cars, 1)
	assert.Equal(t, expensive.ID, cars[0].ID)

	// Фільтр за максимальною ціною
	cars, err = service.SearchCars(CarFilter{MaxPrice: mustDec("1000.00")})
	require.NoError(t, err)
	require.Len(t, cars, 1)
	assert.Equal(t, cheap.ID, cars[0].ID)

	// Фільтр за типом
	cars, err = service.SearchCars(CarFilter{CarTypeID: cheap.CarTypeID})
	require.NoError(t, err)
	require.Len(t, cars, 1)
	assert.Equal(t, cheap.ID, cars[0].ID)
}

func TestIsCarBusyForDates(t *testing.T) {
	db := setupTestDB(t)
	service := NewCarService(db, fixedClock(testToday))
	client := createTestClient(t, db)
	car := createTestCar(t, db, 2020, "1000.00")

	// Оренда з 15-го по 20-те
	createTestRental(t, db, client.ID, car.ID, models.RentalStatusActive,
		testToday, testToday.AddDate(0, 0, 5), "6000.00")

	tests := []struct {
		name      string
		startDays int
		endDays   int
		busy      bool
	}{
		{"повний перетин", 0, 5, true},
		{"перетин на початку", -2, 1, true},
		{"перетин в кінці", 4, 8, true},
		{"оренда всередині періоду", -2, 8, true},
		{"дотик до останнього дня", 5, 9, true},
		{"після закінчення", 6, 9, false},
		{"до початку", -5, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			busy, err := service.IsCarBusyForDates(car.ID,
				testToday.AddDate(0, 0, tt.startDays), testToday.AddDate(0, 0, tt.endDays))
			require.NoError(t, err)
			assert.Equal(t, tt.busy, busy)
		})
	}
}

func TestIsCarBusyIgnoresFinishedRentals(t *testing.T) {
	db := setupTestDB(t)
	service := NewCarService(db, fixedClock(testToday))
	client := createTestClient(t, db)
	car := createTestCar(t, db, 2020, "1000.00")

	// Завершені та скасовані оренди не блокують автомобіль
	createTestRental(t, db, client.ID, car.ID, models.RentalStatusCompleted,
		testToday, testToday.AddDate(0, 0, 5), "6000.00")
	createTestRental(t, db, client.ID, car.ID, models.RentalStatusCancelled,
		testToday, testToday.AddDate(0, 0, 5), "6000.00")

	busy, err := service.IsCarBusyForDates(car.ID, testToday, testToday.AddDate(0, 0, 5))
	require.NoError(t, err)
	assert.False(t, busy)
}

func TestGetCarsAvailableForDates(t *testing.T) {
	db := setupTestDB(t)
	service := NewCarService(db, fixedClock(testToday))
	client := createTestClient(t, db)

	busyCar := createTestCar(t, db, 2020, "1000.00")
	freeCar := createTestCar(t, db, 2021, "1200.00")

	createTestRental(t, db, client.ID, busyCar.ID, models.RentalStatusActive,
		testToday, testToday.AddDate(0, 0, 5), "6000.00")

	cars, err := service.GetCarsAvailableForDates(testToday.AddDate(0, 0, 2), testToday.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, cars, 1)
	assert.Equal(t, freeCar.ID, cars[0].ID)

	// На вільний період доступні обидва
	cars, err = service.GetCarsAvailableForDates(testToday.AddDate(0, 0, 10), testToday.AddDate(0, 0, 15))
	require.NoError(t, err)
	assert.Len(t, cars, 2)
}

func TestDeleteCarWithActiveRentals(t *testing.T) {
	db := setupTestDB(t)
	service := NewCarService(db, fixedClock(testToday))
	client := createTestClient(t, db)
	car := createTestCar(t, db, 2020, "1000.00")

	createTestRental(t, db, client.ID, car.ID, models.RentalStatusActive,
		testToday, testToday.AddDate(0, 0, 5), "6000.00")

	err := service.DeleteCar(car, true)
	assert.ErrorIs(t, err, ErrCarHasActiveRentals)
}

func TestDeleteCarRequiresConfirmation(t *testing.T) {
	db := setupTestDB(t)
	service := NewCarService(db, fixedClock(testToday))
	client := createTestClient(t, db)
	car := createTestCar(t, db, 2020, "1000.00")

	rental := createTestRental(t, db, client.ID, car.ID, models.RentalStatusCompleted,
		testToday.AddDate(0, 0, -20), testToday.AddDate(0, 0, -15), "6000.00")
	require.NoError(t, db.Create(&models.Fine{RentalID: rental.ID, Reason: "Пошкодження рівня 1", Amount: mustDec("300.00")}).Error)
	require.NoError(t, db.Create(&models.Payment{RentalID: rental.ID, PaymentType: models.PaymentTypeDeposit, Amount: mustDec("3000.00")}).Error)

	// Без підтвердження видалення відхиляється
	err := service.DeleteCar(car, false)
	assert.ErrorIs(t, err, ErrCarHasRentalHistory)

	// З підтвердженням історія видаляється каскадно
	require.NoError(t, service.DeleteCar(car, true))

	var count int64
	require.NoError(t, db.Model(&models.Car{}).Where("id = ?", car.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
	require.NoError(t, db.Model(&models.Rental{}).Where("car_id = ?", car.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
	require.NoError(t, db.Model(&models.Fine{}).Where("rental_id = ?", rental.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
	require.NoError(t, db.Model(&models.Payment{}).Where("rental_id = ?", rental.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestDeleteCarWithoutHistory(t *testing.T) {
	db := setupTestDB(t)
	service := NewCarService(db, fixedClock(testToday))
	car := createTestCar(t, db, 2020, "1000.00")

	// Автомобіль без оренд видаляється без підтвердження
	require.NoError(t, service.DeleteCar(car, false))

	var count int64
	require.NoError(t, db.Model(&models.Car{}).Where("id = ?", car.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestDeleteCarType(t *testing.T) {
	db := setupTestDB(t)
	service := NewCarService(db, fixedClock(testToday))

	// Тип, що використовується, видалити не можна
	car := createTestCar(t, db, 2020, "1000.00")
	err := service.DeleteCarType(car.CarTypeID)
	assert.ErrorIs(t, err, ErrCarTypeInUse)

	// Невикористаний тип видаляється
	unused := &models.CarType{Name: "Кабріолет"}
	require.NoError(t, db.Create(unused).Error)
	require.NoError(t, service.DeleteCarType(unused.ID))
}

func TestGetCarFinancialReport(t *testing.T) {
	db := setupTestDB(t)
	service := NewCarService(db, fixedClock(testToday))
	client := createTestClient(t, db)
	car := createTestCar(t, db, 2020, "1000.00")

	first := createTestRental(t, db, client.ID, car.ID, models.RentalStatusCompleted,
		testToday.AddDate(0, 0, -30), testToday.AddDate(0, 0, -26), "5000.00")
	actualEnd := testToday.AddDate(0, 0, -26)
	require.NoError(t, db.Model(first).Update("actual_end_date", actualEnd).Error)

	second := createTestRental(t, db, client.ID, car.ID, models.RentalStatusCompleted,
		testToday.AddDate(0, 0, -10), testToday.AddDate(0, 0, -8), "3500.00")
	actualEnd = testToday.AddDate(0, 0, -8)
	require.NoError(t, db.Model(second).Update("actual_end_date", actualEnd).Error)

	require.NoError(t, db.Create(&models.Fine{RentalID: second.ID, Reason: "Пошкодження рівня 1", Amount: mustDec("300.00")}).Error)

	report, err := service.GetCarFinancialReport(car)
	require.NoError(t, err)

	assert.Equal(t, 2, report.TotalRentals)
	assert.Equal(t, "8500.00", report.TotalRevenue.StringFixed(2))
	assert.Equal(t, "300.00", report.TotalFines.StringFixed(2))
	assert.Equal(t, "8200.00", report.NetRevenue.StringFixed(2))
	assert.Greater(t, report.OccupancyRate, 0.0)
}

func TestGetTopCarsByRevenue(t *testing.T) {
	db := setupTestDB(t)
	service := NewCarService(db, fixedClock(testToday))
	client := createTestClient(t, db)

	lowCar := createTestCar(t, db, 2020, "1000.00")
	topCar := createTestCar(t, db, 2021, "2000.00")

	createTestRental(t, db, client.ID, lowCar.ID, models.RentalStatusCompleted,
		testToday.AddDate(0, 0, -10), testToday.AddDate(0, 0, -8), "3000.00")
	createTestRental(t, db, client.ID, topCar.ID, models.RentalStatusCompleted,
		testToday.AddDate(0, 0, -10), testToday.AddDate(0, 0, -5), "12000.00")
	// Незавершені оренди не враховуються у виручці
	createTestRental(t, db, client.ID, lowCar.ID, models.RentalStatusActive,
		testToday, testToday.AddDate(0, 0, 5), "99000.00")

	entries, err := service.GetTopCarsByRevenue(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, topCar.ID, entries[0].Car.ID)
	assert.Equal(t, "12000.00", entries[0].Revenue.StringFixed(2))
	assert.Equal(t, lowCar.ID, entries[1].Car.ID)
	assert.Equal(t, "3000.00", entries[1].Revenue.StringFixed(2))
}
