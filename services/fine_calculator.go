package services

import (
	"github.com/shopspring/decimal"

	"autorental/models"
)

// LateFinePerDay — фіксований штраф за день запізнення
var LateFinePerDay = decimal.RequireFromString("500.00")

// damageMultipliers — частка застави, що утримується за рівень пошкоджень
var damageMultipliers = map[int]decimal.Decimal{
	0: decimal.Zero,                       // Без пошкоджень
	1: decimal.RequireFromString("0.1"),   // Легкі пошкодження
	2: decimal.RequireFromString("0.3"),   // Середні пошкодження
	3: decimal.RequireFromString("0.5"),   // Серйозні пошкодження
}

// FineCalculationStrategy визначає алгоритм розрахунку штрафів
type FineCalculationStrategy interface {
	CalculateDamageFine(rental *models.Rental, damageLevel int) decimal.Decimal
	CalculateLateFine(rental *models.Rental, lateDays int) decimal.Decimal
}

// StandardFineStrategy — стандартна стратегія розрахунку штрафів
type StandardFineStrategy struct{}

// CalculateDamageFine розраховує штраф за пошкодження.
// Рівень поза діапазоном 0-3 трактується як відсутність пошкоджень.
func (s *StandardFineStrategy) CalculateDamageFine(rental *models.Rental, damageLevel int) decimal.Decimal {
	multiplier, ok := damageMultipliers[damageLevel]
	if !ok {
		multiplier = decimal.Zero
	}
	return rental.Deposit.Mul(multiplier).Round(2)
}

// CalculateLateFine розраховує штраф за запізнення
func (s *StandardFineStrategy) CalculateLateFine(rental *models.Rental, lateDays int) decimal.Decimal {
	if lateDays <= 0 {
		return decimal.Zero
	}
	return LateFinePerDay.Mul(decimal.NewFromInt(int64(lateDays))).Round(2)
}

// FineCalculator — фасад над стратегією розрахунку штрафів
type FineCalculator struct {
	Strategy FineCalculationStrategy
}

// NewFineCalculator створює калькулятор штрафів.
// Якщо стратегію не передано, використовується стандартна.
func NewFineCalculator(strategy FineCalculationStrategy) *FineCalculator {
	if strategy == nil {
		strategy = &StandardFineStrategy{}
	}
	return &FineCalculator{Strategy: strategy}
}

// CalculateTotalFines розраховує загальну суму штрафів
func (c *FineCalculator) CalculateTotalFines(rental *models.Rental, damageLevel, lateDays int) decimal.Decimal {
	damageFine := c.Strategy.CalculateDamageFine(rental, damageLevel)
	lateFine := c.Strategy.CalculateLateFine(rental, lateDays)
	return damageFine.Add(lateFine)
}

// CalculateRefund розраховує суму повернення застави після вирахування штрафів.
// Повернення не може бути від'ємним.
func (c *FineCalculator) CalculateRefund(rental *models.Rental, totalFines decimal.Decimal) decimal.Decimal {
	refund := rental.Deposit.Sub(totalFines)
	if refund.IsNegative() {
		return decimal.Zero
	}
	return refund.Round(2)
}
