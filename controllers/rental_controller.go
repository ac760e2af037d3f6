package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"autorental/database"
	"autorental/models"
	"autorental/services"
	"autorental/utils"
)

// RentalController обробляє запити, пов'язані з орендами
type RentalController struct {
	db            *database.Database
	rentalService *services.RentalService
	carService    *services.CarService
	validator     *validator.Validate
}

// NewRentalController створює новий екземпляр RentalController
func NewRentalController(db *database.Database, email *services.EmailService) *RentalController {
	return &RentalController{
		db:            db,
		rentalService: services.NewRentalService(db.DB, email, nil),
		carService:    services.NewCarService(db.DB, nil),
		validator:     validator.New(),
	}
}

// CreateRentalRequest — запит на створення оренди
type CreateRentalRequest struct {
	CarID           uint   `json:"car_id" validate:"required"`
	StartDate       string `json:"start_date" validate:"required"`
	EndDate         string `json:"end_date" validate:"required"`
	PricingStrategy string `json:"pricing_strategy" validate:"omitempty,oneof=standard year_based duration_based combined"`
}

// CompleteRentalRequest — запит на завершення оренди
type CompleteRentalRequest struct {
	ActualEndDate string `json:"actual_end_date" validate:"required"`
	DamageLevel   int    `json:"damage_level" validate:"min=0,max=3"`
	LateDays      int    `json:"late_days" validate:"min=0"`
}

// CompleteRentalResponse — результат завершення оренди
type CompleteRentalResponse struct {
	Rental     *models.Rental  `json:"rental"`
	TotalFines decimal.Decimal `json:"total_fines"`
	Refund     decimal.Decimal `json:"refund"`
}

// CreateRental обробляє запит клієнта на оформлення оренди
func (c *RentalController) CreateRental(w http.ResponseWriter, r *http.Request) {
	client, ok := c.currentClient(w, r)
	if !ok {
		return
	}

	// Заблокований клієнт не може оформлювати оренди
	if client.IsBlocked {
		http.Error(w, services.ErrClientBlocked.Error(), http.StatusForbidden)
		return
	}

	var req CreateRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Некоректне тіло запиту", http.StatusBadRequest)
		return
	}
	if err := c.validateRequest(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		http.Error(w, "Некоректна дата початку", http.StatusBadRequest)
		return
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		http.Error(w, "Некоректна дата закінчення", http.StatusBadRequest)
		return
	}

	if ok, message := c.rentalService.Factory().ValidateRentalDates(startDate, endDate); !ok {
		http.Error(w, message, http.StatusBadRequest)
		return
	}

	car, err := c.carService.GetCarByID(req.CarID)
	if err != nil {
		http.Error(w, "Автомобіль не знайдено", http.StatusNotFound)
		return
	}

	// Перевіряємо перетин з іншими бронюваннями
	busy, err := c.carService.IsCarBusyForDates(car.ID, startDate, endDate)
	if err != nil {
		http.Error(w, "Помилка при перевірці доступності", http.StatusInternalServerError)
		return
	}
	if busy {
		http.Error(w, services.ErrCarUnavailable.Error(), http.StatusConflict)
		return
	}

	rental, err := c.rentalService.CreateRental(client, car, startDate, endDate, req.PricingStrategy)
	if err != nil {
		c.writeRentalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(rental)
}

// GetMyRentals обробляє запит клієнта на список власних оренд
func (c *RentalController) GetMyRentals(w http.ResponseWriter, r *http.Request) {
	client, ok := c.currentClient(w, r)
	if !ok {
		return
	}

	// Актуалізуємо статуси перед показом
	if _, err := c.rentalService.UpdateOverdueRentals(); err != nil {
		utils.LogError("Помилка при оновленні статусів оренд: %v", err)
	}

	rentals, err := c.rentalService.GetClientRentals(client.ID)
	if err != nil {
		http.Error(w, "Помилка при отриманні оренд", http.StatusInternalServerError)
		return
	}

	// Розділяємо на поточні та завершені
	response := MyRentalsResponse{
		Active: []models.Rental{},
		Past:   []models.Rental{},
	}
	for _, rental := range rentals {
		if rental.IsTerminal() {
			response.Past = append(response.Past, rental)
		} else {
			response.Active = append(response.Active, rental)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// MyRentalsResponse — оренди клієнта, розділені на поточні та завершені
type MyRentalsResponse struct {
	Active []models.Rental `json:"active"`
	Past   []models.Rental `json:"past"`
}

// GetRental обробляє запит інформації про оренду.
// Клієнт бачить лише власні оренди, адміністратор — будь-які.
func (c *RentalController) GetRental(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	rentalID, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		http.Error(w, "Некоректний ID оренди", http.StatusBadRequest)
		return
	}

	rental, err := c.rentalService.GetRentalByID(uint(rentalID))
	if err != nil {
		http.Error(w, "Оренду не знайдено", http.StatusNotFound)
		return
	}

	isAdmin, _ := r.Context().Value("is_admin").(bool)
	if !isAdmin {
		client, ok := c.currentClient(w, r)
		if !ok {
			return
		}
		if rental.ClientID != client.ID {
			http.Error(w, "Доступ заборонено", http.StatusForbidden)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rental)
}

// GetAllRentals обробляє запит адміністратора на список всіх оренд
// з опціональним фільтром за статусом
func (c *RentalController) GetAllRentals(w http.ResponseWriter, r *http.Request) {
	// Актуалізуємо статуси перед показом
	if _, err := c.rentalService.UpdateOverdueRentals(); err != nil {
		utils.LogError("Помилка при оновленні статусів оренд: %v", err)
	}

	status := models.RentalStatus(r.URL.Query().Get("status"))
	rentals, err := c.rentalService.GetAllRentals(status)
	if err != nil {
		http.Error(w, "Помилка при отриманні оренд", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rentals)
}

// CompleteRental обробляє запит адміністратора на завершення оренди
func (c *RentalController) CompleteRental(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	rentalID, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		http.Error(w, "Некоректний ID оренди", http.StatusBadRequest)
		return
	}

	var req CompleteRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Некоректне тіло запиту", http.StatusBadRequest)
		return
	}
	if err := c.validateRequest(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	actualEndDate, err := time.Parse(dateLayout, req.ActualEndDate)
	if err != nil {
		http.Error(w, "Некоректна дата повернення", http.StatusBadRequest)
		return
	}

	rental, err := c.rentalService.GetRentalByID(uint(rentalID))
	if err != nil {
		http.Error(w, "Оренду не знайдено", http.StatusNotFound)
		return
	}

	// Завершену або скасовану оренду завершити повторно не можна
	if rental.IsTerminal() {
		http.Error(w, services.ErrRentalCompleted.Error(), http.StatusConflict)
		return
	}

	completed, totalFines, refund, err := c.rentalService.CompleteRental(rental, actualEndDate, req.DamageLevel, req.LateDays)
	if err != nil {
		c.writeRentalError(w, err)
		return
	}

	response := CompleteRentalResponse{
		Rental:     completed,
		TotalFines: totalFines,
		Refund:     refund,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// currentClient повертає профіль клієнта з контексту запиту
func (c *RentalController) currentClient(w http.ResponseWriter, r *http.Request) (*models.Client, bool) {
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Необхідна авторизація", http.StatusUnauthorized)
		return nil, false
	}

	client, err := c.db.GetClientByUserID(userID)
	if err != nil {
		http.Error(w, "Профіль клієнта не знайдено", http.StatusNotFound)
		return nil, false
	}
	return client, true
}

// writeRentalError перетворює помилки сервісів на HTTP статуси
func (c *RentalController) writeRentalError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrCarUnavailable):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, services.ErrInvalidDateRange):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrRentalCompleted):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, services.ErrClientBlocked):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// validateRequest валідує DTO та повертає помилки валідації
func (c *RentalController) validateRequest(dto interface{}) error {
	if err := c.validator.Struct(dto); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMessages []string
		for _, e := range validationErrors {
			switch e.Tag() {
			case "required":
				errorMessages = append(errorMessages, "поле "+e.Field()+" обов'язкове")
			case "min":
				errorMessages = append(errorMessages, "поле "+e.Field()+" повинно бути не менше "+e.Param())
			case "max":
				errorMessages = append(errorMessages, "поле "+e.Field()+" повинно бути не більше "+e.Param())
			case "oneof":
				errorMessages = append(errorMessages, "поле "+e.Field()+" повинно бути одним з: "+e.Param())
			default:
				errorMessages = append(errorMessages, "поле "+e.Field()+" некоректне")
			}
		}
		return errors.New(strings.Join(errorMessages, "; "))
	}
	return nil
}
