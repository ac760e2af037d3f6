package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"autorental/database"
	"autorental/models"
	"autorental/services"
)

// dateLayout — формат дат у параметрах запитів
const dateLayout = "2006-01-02"

// rentalDaysBetween рахує кількість днів оренди, включно з обома датами
func rentalDaysBetween(startDate, endDate time.Time) int {
	return int(endDate.Sub(startDate).Hours()/24) + 1
}

// CarController обробляє публічні запити каталогу автомобілів
type CarController struct {
	carService *services.CarService
	pricing    *services.PricingStrategyFactory
	factory    *services.RentalFactory
}

// NewCarController створює новий екземпляр CarController
func NewCarController(db *database.Database) *CarController {
	return &CarController{
		carService: services.NewCarService(db.DB, nil),
		pricing:    services.NewPricingStrategyFactory(nil),
		factory:    services.NewRentalFactory(db.DB, nil),
	}
}

// GetCars обробляє запит каталогу автомобілів.
// Підтримує фільтри brand, type, max_price, status, а також
// start_date/end_date для пошуку автомобілів, вільних на вказаний період.
func (c *CarController) GetCars(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var cars []models.Car
	var err error

	startParam := query.Get("start_date")
	endParam := query.Get("end_date")

	if startParam != "" && endParam != "" {
		startDate, parseErr := time.Parse(dateLayout, startParam)
		if parseErr != nil {
			http.Error(w, "Некоректна дата початку", http.StatusBadRequest)
			return
		}
		endDate, parseErr := time.Parse(dateLayout, endParam)
		if parseErr != nil {
			http.Error(w, "Некоректна дата закінчення", http.StatusBadRequest)
			return
		}
		cars, err = c.carService.GetCarsAvailableForDates(startDate, endDate)
	} else {
		filter := services.CarFilter{
			Brand:  query.Get("brand"),
			Status: models.CarStatus(query.Get("status")),
		}
		if typeParam := query.Get("type"); typeParam != "" {
			typeID, parseErr := strconv.ParseUint(typeParam, 10, 32)
			if parseErr != nil {
				http.Error(w, "Некоректний тип автомобіля", http.StatusBadRequest)
				return
			}
			filter.CarTypeID = uint(typeID)
		}
		if priceParam := query.Get("max_price"); priceParam != "" {
			maxPrice, parseErr := decimal.NewFromString(priceParam)
			if parseErr != nil {
				http.Error(w, "Некоректна максимальна ціна", http.StatusBadRequest)
				return
			}
			filter.MaxPrice = maxPrice
		}
		cars, err = c.carService.SearchCars(filter)
	}

	if err != nil {
		http.Error(w, "Помилка при отриманні автомобілів", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cars)
}

// GetCar обробляє запит інформації про автомобіль
func (c *CarController) GetCar(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	carID, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		http.Error(w, "Некоректний ID автомобіля", http.StatusBadRequest)
		return
	}

	car, err := c.carService.GetCarByID(uint(carID))
	if err != nil {
		http.Error(w, "Автомобіль не знайдено", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(car)
}

// PriceQuoteResponse — відповідь на запит розрахунку вартості оренди.
// Деталізація заповнюється лише для комбінованої стратегії.
type PriceQuoteResponse struct {
	Car      string                 `json:"car"`
	Strategy string                 `json:"strategy"`
	Price    decimal.Decimal        `json:"price"`
	Details  *services.PriceDetails `json:"details,omitempty"`
	Deposit  decimal.Decimal        `json:"deposit"`
}

// GetPriceQuote обробляє запит попереднього розрахунку вартості оренди
// з деталізацією по коефіцієнтах та розміром застави
func (c *CarController) GetPriceQuote(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	carID, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		http.Error(w, "Некоректний ID автомобіля", http.StatusBadRequest)
		return
	}

	query := r.URL.Query()
	startDate, err := time.Parse(dateLayout, query.Get("start_date"))
	if err != nil {
		http.Error(w, "Некоректна дата початку", http.StatusBadRequest)
		return
	}
	endDate, err := time.Parse(dateLayout, query.Get("end_date"))
	if err != nil {
		http.Error(w, "Некоректна дата закінчення", http.StatusBadRequest)
		return
	}

	if ok, message := c.factory.ValidateRentalDates(startDate, endDate); !ok {
		http.Error(w, message, http.StatusBadRequest)
		return
	}

	car, err := c.carService.GetCarByID(uint(carID))
	if err != nil {
		http.Error(w, "Автомобіль не знайдено", http.StatusNotFound)
		return
	}

	strategyName := query.Get("strategy")
	if strategyName == "" {
		strategyName = services.PricingCombined
	}

	response := PriceQuoteResponse{
		Car:      car.DisplayName(),
		Strategy: strategyName,
	}

	if strategyName == services.PricingCombined {
		details := c.pricing.GetDefaultStrategy().CalculatePriceDetails(car, startDate, endDate)
		response.Price = details.FinalPrice
		response.Details = &details
		response.Deposit = c.factory.CalculateDeposit(car, details.Days)
	} else {
		strategy := c.pricing.CreateStrategy(strategyName)
		response.Price = strategy.CalculatePrice(car, startDate, endDate)
		days := rentalDaysBetween(startDate, endDate)
		response.Deposit = c.factory.CalculateDeposit(car, days)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
