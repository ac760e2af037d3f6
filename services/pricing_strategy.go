package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"autorental/models"
)

// Назви стратегій розрахунку ціни
const (
	PricingStandard      = "standard"
	PricingYearBased     = "year_based"
	PricingDurationBased = "duration_based"
	PricingCombined      = "combined"
)

// PricingStrategy визначає алгоритм розрахунку вартості оренди
type PricingStrategy interface {
	CalculatePrice(car *models.Car, startDate, endDate time.Time) decimal.Decimal
}

var one = decimal.NewFromInt(1)

// yearMultiplier повертає коефіцієнт за вік авто та опис для відображення
func yearMultiplier(age int) (decimal.Decimal, string) {
	switch {
	case age <= 2:
		return decimal.RequireFromString("1.2"), fmt.Sprintf("+20%% (авто %d років)", age)
	case age <= 5:
		return decimal.RequireFromString("1.0"), "Без зміни (авто 3-5 років)"
	case age <= 10:
		return decimal.RequireFromString("0.9"), fmt.Sprintf("-10%% (авто %d років)", age)
	default:
		return decimal.RequireFromString("0.8"), fmt.Sprintf("-20%% (авто %d років)", age)
	}
}

// durationDiscount повертає знижку за тривалість оренди та опис для відображення
func durationDiscount(days int) (decimal.Decimal, string) {
	switch {
	case days >= 30:
		return decimal.RequireFromString("0.15"), "-15% (оренда 30+ днів)"
	case days >= 14:
		return decimal.RequireFromString("0.10"), "-10% (оренда 14+ днів)"
	case days >= 7:
		return decimal.RequireFromString("0.05"), "-5% (оренда 7+ днів)"
	default:
		return decimal.Zero, "Без знижки"
	}
}

// StandardPricingStrategy — ціна залежить тільки від кількості днів
type StandardPricingStrategy struct{}

// CalculatePrice розраховує вартість оренди
func (s *StandardPricingStrategy) CalculatePrice(car *models.Car, startDate, endDate time.Time) decimal.Decimal {
	days := rentalDays(startDate, endDate)
	return car.DailyPrice.Mul(decimal.NewFromInt(int64(days))).Round(2)
}

// YearBasedPricingStrategy — стратегія з урахуванням року випуску (новіші авто дорожчі)
type YearBasedPricingStrategy struct {
	now Clock
}

// CalculatePrice розраховує вартість оренди з коефіцієнтом за вік авто
func (s *YearBasedPricingStrategy) CalculatePrice(car *models.Car, startDate, endDate time.Time) decimal.Decimal {
	days := rentalDays(startDate, endDate)
	age := s.now().Year() - car.Year

	multiplier, _ := yearMultiplier(age)
	return car.DailyPrice.Mul(decimal.NewFromInt(int64(days))).Mul(multiplier).Round(2)
}

// DurationBasedPricingStrategy — стратегія зі знижками за тривалість оренди
type DurationBasedPricingStrategy struct{}

// CalculatePrice розраховує вартість оренди зі знижкою за тривалість
func (s *DurationBasedPricingStrategy) CalculatePrice(car *models.Car, startDate, endDate time.Time) decimal.Decimal {
	days := rentalDays(startDate, endDate)
	basePrice := car.DailyPrice.Mul(decimal.NewFromInt(int64(days)))

	discount, _ := durationDiscount(days)
	return basePrice.Mul(one.Sub(discount)).Round(2)
}

// CombinedPricingStrategy — комбінована стратегія: рік випуску + тривалість
type CombinedPricingStrategy struct {
	now Clock
}

// CalculatePrice розраховує вартість оренди: спочатку коефіцієнт за рік,
// потім знижка за тривалість
func (s *CombinedPricingStrategy) CalculatePrice(car *models.Car, startDate, endDate time.Time) decimal.Decimal {
	days := rentalDays(startDate, endDate)
	age := s.now().Year() - car.Year

	multiplier, _ := yearMultiplier(age)
	discount, _ := durationDiscount(days)

	basePrice := car.DailyPrice.Mul(decimal.NewFromInt(int64(days))).Mul(multiplier)
	return basePrice.Mul(one.Sub(discount)).Round(2)
}

// PriceDetails містить розгорнутий розрахунок вартості для відображення клієнту
type PriceDetails struct {
	BasePrice              decimal.Decimal `json:"base_price"`
	Days                   int             `json:"days"`
	YearMultiplier         decimal.Decimal `json:"year_multiplier"`
	YearDescription        string          `json:"year_description"`
	YearAdjustment         decimal.Decimal `json:"year_adjustment"`
	PriceWithYear          decimal.Decimal `json:"price_with_year"`
	DurationDiscount       decimal.Decimal `json:"duration_discount"`
	DurationDescription    string          `json:"duration_description"`
	DurationDiscountAmount decimal.Decimal `json:"duration_discount_amount"`
	FinalPrice             decimal.Decimal `json:"final_price"`
}

// CalculatePriceDetails розраховує вартість оренди з деталями для відображення
func (s *CombinedPricingStrategy) CalculatePriceDetails(car *models.Car, startDate, endDate time.Time) PriceDetails {
	days := rentalDays(startDate, endDate)
	age := s.now().Year() - car.Year

	basePrice := car.DailyPrice.Mul(decimal.NewFromInt(int64(days)))

	yearMult, yearDescription := yearMultiplier(age)
	priceWithYear := basePrice.Mul(yearMult)
	yearAdjustment := priceWithYear.Sub(basePrice)

	discount, durationDescription := durationDiscount(days)
	finalPrice := priceWithYear.Mul(one.Sub(discount))
	discountAmount := priceWithYear.Mul(discount)

	return PriceDetails{
		BasePrice:              basePrice.Round(2),
		Days:                   days,
		YearMultiplier:         yearMult,
		YearDescription:        yearDescription,
		YearAdjustment:         yearAdjustment.Round(2),
		PriceWithYear:          priceWithYear.Round(2),
		DurationDiscount:       discount,
		DurationDescription:    durationDescription,
		DurationDiscountAmount: discountAmount.Round(2),
		FinalPrice:             finalPrice.Round(2),
	}
}

// PricingStrategyFactory створює стратегії розрахунку ціни
type PricingStrategyFactory struct {
	now Clock
}

// NewPricingStrategyFactory створює нову фабрику стратегій
func NewPricingStrategyFactory(now Clock) *PricingStrategyFactory {
	if now == nil {
		now = time.Now
	}
	return &PricingStrategyFactory{now: now}
}

// CreateStrategy створює стратегію за назвою.
// Невідома назва трактується як комбінована стратегія.
func (f *PricingStrategyFactory) CreateStrategy(strategyType string) PricingStrategy {
	switch strategyType {
	case PricingStandard:
		return &StandardPricingStrategy{}
	case PricingYearBased:
		return &YearBasedPricingStrategy{now: f.now}
	case PricingDurationBased:
		return &DurationBasedPricingStrategy{}
	default:
		return &CombinedPricingStrategy{now: f.now}
	}
}

// GetDefaultStrategy повертає стратегію за замовчуванням
func (f *PricingStrategyFactory) GetDefaultStrategy() *CombinedPricingStrategy {
	return &CombinedPricingStrategy{now: f.now}
}
