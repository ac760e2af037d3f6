package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"autorental/models"
)

// testCar створює автомобіль у пам'яті без бази даних
func testCar(year int, dailyPrice string) *models.Car {
	return &models.Car{
		Brand:      "Toyota",
		Model:      "Corolla",
		Year:       year,
		DailyPrice: decimal.RequireFromString(dailyPrice),
	}
}

func TestStandardPricingStrategy(t *testing.T) {
	strategy := &StandardPricingStrategy{}
	car := testCar(2020, "1000.00")

	start := testToday
	end := testToday.AddDate(0, 0, 2) // 3 дні включно

	price := strategy.CalculatePrice(car, start, end)
	assert.Equal(t, "3000.00", price.StringFixed(2))
}

func TestYearBasedPricingStrategy(t *testing.T) {
	tests := []struct {
		name     string
		carYear  int
		expected string
	}{
		{"нове авто 0 років +20%", 2025, "1200.00"},
		{"авто 2 роки +20%", 2023, "1200.00"},
		{"авто 3 роки без зміни", 2022, "1000.00"},
		{"авто 5 років без зміни", 2020, "1000.00"},
		{"авто 6 років -10%", 2019, "900.00"},
		{"авто 10 років -10%", 2015, "900.00"},
		{"авто 11 років -20%", 2014, "800.00"},
	}

	strategy := &YearBasedPricingStrategy{now: fixedClock(testToday)}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			car := testCar(tt.carYear, "1000.00")
			// Оренда на 1 день, щоб перевірити лише коефіцієнт за вік
			price := strategy.CalculatePrice(car, testToday, testToday)
			assert.Equal(t, tt.expected, price.StringFixed(2))
		})
	}
}

func TestDurationBasedPricingStrategy(t *testing.T) {
	tests := []struct {
		name     string
		days     int
		expected string
	}{
		{"6 днів без знижки", 6, "6000.00"},
		{"7 днів знижка 5%", 7, "6650.00"},
		{"13 днів знижка 5%", 13, "12350.00"},
		{"14 днів знижка 10%", 14, "12600.00"},
		{"29 днів знижка 10%", 29, "26100.00"},
		{"30 днів знижка 15%", 30, "25500.00"},
	}

	strategy := &DurationBasedPricingStrategy{}
	car := testCar(2020, "1000.00")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			end := testToday.AddDate(0, 0, tt.days-1)
			price := strategy.CalculatePrice(car, testToday, end)
			assert.Equal(t, tt.expected, price.StringFixed(2))
		})
	}
}

func TestCombinedPricingStrategy(t *testing.T) {
	strategy := &CombinedPricingStrategy{now: fixedClock(testToday)}

	// Нове авто (+20%), 10 днів (-5%): 10000 * 1.2 * 0.95 = 11400
	car := testCar(2025, "1000.00")
	end := testToday.AddDate(0, 0, 9)

	price := strategy.CalculatePrice(car, testToday, end)
	assert.Equal(t, "11400.00", price.StringFixed(2))
}

func TestCombinedPricingStrategyDetails(t *testing.T) {
	strategy := &CombinedPricingStrategy{now: fixedClock(testToday)}

	car := testCar(2025, "1000.00")
	end := testToday.AddDate(0, 0, 9)

	details := strategy.CalculatePriceDetails(car, testToday, end)

	assert.Equal(t, 10, details.Days)
	assert.Equal(t, "10000.00", details.BasePrice.StringFixed(2))
	assert.Equal(t, "1.2", details.YearMultiplier.String())
	assert.Equal(t, "2000.00", details.YearAdjustment.StringFixed(2))
	assert.Equal(t, "12000.00", details.PriceWithYear.StringFixed(2))
	assert.Equal(t, "0.05", details.DurationDiscount.String())
	assert.Equal(t, "600.00", details.DurationDiscountAmount.StringFixed(2))
	assert.Equal(t, "11400.00", details.FinalPrice.StringFixed(2))

	// Підсумкова ціна деталізації збігається з CalculatePrice
	assert.Equal(t, strategy.CalculatePrice(car, testToday, end).StringFixed(2), details.FinalPrice.StringFixed(2))
}

func TestPricingStrategyFactory(t *testing.T) {
	factory := NewPricingStrategyFactory(fixedClock(testToday))

	assert.IsType(t, &StandardPricingStrategy{}, factory.CreateStrategy(PricingStandard))
	assert.IsType(t, &YearBasedPricingStrategy{}, factory.CreateStrategy(PricingYearBased))
	assert.IsType(t, &DurationBasedPricingStrategy{}, factory.CreateStrategy(PricingDurationBased))
	assert.IsType(t, &CombinedPricingStrategy{}, factory.CreateStrategy(PricingCombined))

	// Невідома назва трактується як комбінована стратегія
	assert.IsType(t, &CombinedPricingStrategy{}, factory.CreateStrategy("unknown"))
	assert.IsType(t, &CombinedPricingStrategy{}, factory.CreateStrategy(""))
}

func TestRentalDays(t *testing.T) {
	assert.Equal(t, 1, rentalDays(testToday, testToday))
	assert.Equal(t, 2, rentalDays(testToday, testToday.AddDate(0, 0, 1)))
	assert.Equal(t, 31, rentalDays(testToday, testToday.AddDate(0, 0, 30)))

	// Час доби не впливає на кількість днів
	withTime := time.Date(2025, 6, 15, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, 2, rentalDays(withTime, testToday.AddDate(0, 0, 1)))
}
