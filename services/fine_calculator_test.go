package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"autorental/models"
)

// testRental створює оренду в пам'яті з вказаною заставою
func testRental(deposit string) *models.Rental {
	return &models.Rental{
		Deposit: decimal.RequireFromString(deposit),
	}
}

func TestCalculateDamageFine(t *testing.T) {
	tests := []struct {
		name        string
		damageLevel int
		expected    string
	}{
		{"без пошкоджень", 0, "0.00"},
		{"легкі пошкодження 10%", 1, "300.00"},
		{"середні пошкодження 30%", 2, "900.00"},
		{"серйозні пошкодження 50%", 3, "1500.00"},
		{"рівень поза діапазоном", 5, "0.00"},
		{"від'ємний рівень", -1, "0.00"},
	}

	calculator := NewFineCalculator(nil)
	rental := testRental("3000.00")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fine := calculator.Strategy.CalculateDamageFine(rental, tt.damageLevel)
			assert.Equal(t, tt.expected, fine.StringFixed(2))
		})
	}
}

func TestCalculateLateFine(t *testing.T) {
	calculator := NewFineCalculator(nil)
	rental := testRental("3000.00")

	assert.Equal(t, "0.00", calculator.Strategy.CalculateLateFine(rental, 0).StringFixed(2))
	assert.Equal(t, "0.00", calculator.Strategy.CalculateLateFine(rental, -2).StringFixed(2))
	assert.Equal(t, "500.00", calculator.Strategy.CalculateLateFine(rental, 1).StringFixed(2))
	assert.Equal(t, "1500.00", calculator.Strategy.CalculateLateFine(rental, 3).StringFixed(2))
}

func TestCalculateTotalFines(t *testing.T) {
	calculator := NewFineCalculator(nil)
	rental := testRental("3000.00")

	// Штрафи за пошкодження та запізнення додаються:
	// 30% від 3000 + 3 * 500 = 900 + 1500 = 2400
	total := calculator.CalculateTotalFines(rental, 2, 3)
	assert.Equal(t, "2400.00", total.StringFixed(2))
}

func TestCalculateRefund(t *testing.T) {
	calculator := NewFineCalculator(nil)
	rental := testRental("3000.00")

	// Повернення = застава - штрафи
	refund := calculator.CalculateRefund(rental, decimal.RequireFromString("2400.00"))
	assert.Equal(t, "600.00", refund.StringFixed(2))

	// Без штрафів повертається вся застава
	refund = calculator.CalculateRefund(rental, decimal.Zero)
	assert.Equal(t, "3000.00", refund.StringFixed(2))

	// Повернення не може бути від'ємним
	refund = calculator.CalculateRefund(rental, decimal.RequireFromString("5000.00"))
	assert.True(t, refund.IsZero())
}
