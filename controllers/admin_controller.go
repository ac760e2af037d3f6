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

// AdminController обробляє адміністративні запити: статистика,
// управління автопарком, типами авто та клієнтами
type AdminController struct {
	db            *database.Database
	carService    *services.CarService
	statsService  *services.StatisticsService
	reportService *services.ReportService
	validator     *validator.Validate
}

// NewAdminController створює новий екземпляр AdminController
func NewAdminController(db *database.Database) *AdminController {
	return &AdminController{
		db:            db,
		carService:    services.NewCarService(db.DB, nil),
		statsService:  services.NewStatisticsService(db.DB, nil),
		reportService: services.NewReportService(db.DB, nil),
		validator:     validator.New(),
	}
}

// GetDashboard обробляє запит зведеної статистики для панелі адміністратора
func (c *AdminController) GetDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := c.statsService.GetDashboardStats()
	if err != nil {
		http.Error(w, "Помилка при отриманні статистики", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

// StatisticsResponse — розгорнута статистика з динамікою виручки
type StatisticsResponse struct {
	Dashboard     *services.DashboardStats `json:"dashboard"`
	Revenue       []services.RevenuePoint  `json:"revenue"`
	AvgRentalCost decimal.Decimal          `json:"avg_rental_cost"`
}

// GetStatistics обробляє запит розгорнутої статистики:
// зведені показники, виручка за останні 30 днів та середня вартість оренди
func (c *AdminController) GetStatistics(w http.ResponseWriter, r *http.Request) {
	dashboard, err := c.statsService.GetDashboardStats()
	if err != nil {
		http.Error(w, "Помилка при отриманні статистики", http.StatusInternalServerError)
		return
	}

	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -30)
	revenue, err := c.statsService.GetRevenueByPeriod(startDate, endDate)
	if err != nil {
		http.Error(w, "Помилка при отриманні виручки", http.StatusInternalServerError)
		return
	}

	avgCost, err := c.statsService.GetAverageRentalCost()
	if err != nil {
		http.Error(w, "Помилка при розрахунку середньої вартості", http.StatusInternalServerError)
		return
	}

	response := StatisticsResponse{
		Dashboard:     dashboard,
		Revenue:       revenue,
		AvgRentalCost: avgCost,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// ExportStatisticsXML обробляє запит вивантаження статистики в XML
func (c *AdminController) ExportStatisticsXML(w http.ResponseWriter, r *http.Request) {
	data, err := c.reportService.BuildStatisticsXML()
	if err != nil {
		http.Error(w, "Помилка при формуванні звіту", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	w.Header().Set("Content-Disposition", `attachment; filename="statistics.xml"`)
	w.Write(data)
}

// GetMetrics обробляє запит метрик застосунку
func (c *AdminController) GetMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(utils.GetMetrics().GetMetricsSnapshot())
}

// CarRequest — запит на створення або оновлення автомобіля
type CarRequest struct {
	Brand       string          `json:"brand" validate:"required,min=1,max=50"`
	Model       string          `json:"model" validate:"required,min=1,max=50"`
	CarTypeID   uint            `json:"car_type_id" validate:"required"`
	Year        int             `json:"year" validate:"required,min=1900,max=2100"`
	DailyPrice  decimal.Decimal `json:"daily_price" validate:"required"`
	Photo       string          `json:"photo" validate:"max=255"`
	Description string          `json:"description"`
	Status      string          `json:"status" validate:"omitempty,oneof=available rented maintenance unavailable"`
}

// CreateCar обробляє запит на додавання автомобіля в автопарк
func (c *AdminController) CreateCar(w http.ResponseWriter, r *http.Request) {
	var req CarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Некоректне тіло запиту", http.StatusBadRequest)
		return
	}
	if err := c.validateRequest(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !req.DailyPrice.IsPositive() {
		http.Error(w, "Ціна за день повинна бути більше 0", http.StatusBadRequest)
		return
	}

	status := models.CarStatusAvailable
	if req.Status != "" {
		status = models.CarStatus(req.Status)
	}

	car := &models.Car{
		Brand:       req.Brand,
		Model:       req.Model,
		CarTypeID:   req.CarTypeID,
		Year:        req.Year,
		DailyPrice:  req.DailyPrice,
		Photo:       req.Photo,
		Description: req.Description,
		Status:      status,
	}

	if err := c.db.CreateCar(car); err != nil {
		http.Error(w, "Помилка при створенні автомобіля", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(car)
}

// UpdateCar обробляє запит на оновлення автомобіля
func (c *AdminController) UpdateCar(w http.ResponseWriter, r *http.Request) {
	car, ok := c.carFromRequest(w, r)
	if !ok {
		return
	}

	var req CarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Некоректне тіло запиту", http.StatusBadRequest)
		return
	}
	if err := c.validateRequest(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !req.DailyPrice.IsPositive() {
		http.Error(w, "Ціна за день повинна бути більше 0", http.StatusBadRequest)
		return
	}

	car.Brand = req.Brand
	car.Model = req.Model
	car.CarTypeID = req.CarTypeID
	car.Year = req.Year
	car.DailyPrice = req.DailyPrice
	car.Photo = req.Photo
	car.Description = req.Description
	if req.Status != "" {
		car.Status = models.CarStatus(req.Status)
	}

	if err := c.db.DB.Save(car).Error; err != nil {
		http.Error(w, "Помилка при оновленні автомобіля", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(car)
}

// DeleteCar обробляє запит на видалення автомобіля.
// Автомобіль з активними орендами видалити не можна. Якщо є історія оренд,
// потрібне явне підтвердження параметром confirm=true.
func (c *AdminController) DeleteCar(w http.ResponseWriter, r *http.Request) {
	car, ok := c.carFromRequest(w, r)
	if !ok {
		return
	}

	confirmed := r.URL.Query().Get("confirm") == "true"

	if err := c.carService.DeleteCar(car, confirmed); err != nil {
		switch {
		case errors.Is(err, services.ErrCarHasActiveRentals):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, services.ErrCarHasRentalHistory):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetCarFinancialReport обробляє запит фінансового звіту по автомобілю
func (c *AdminController) GetCarFinancialReport(w http.ResponseWriter, r *http.Request) {
	car, ok := c.carFromRequest(w, r)
	if !ok {
		return
	}

	report, err := c.carService.GetCarFinancialReport(car)
	if err != nil {
		http.Error(w, "Помилка при формуванні звіту", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

// GetCarsOccupancyReport обробляє запит звіту по зайнятості автопарку
func (c *AdminController) GetCarsOccupancyReport(w http.ResponseWriter, r *http.Request) {
	report, err := c.carService.GetCarsOccupancyReport()
	if err != nil {
		http.Error(w, "Помилка при формуванні звіту", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

// CarTypeRequest — запит на створення типу автомобіля
type CarTypeRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=50"`
	Description string `json:"description"`
}

// GetCarTypes обробляє запит списку типів автомобілів
func (c *AdminController) GetCarTypes(w http.ResponseWriter, r *http.Request) {
	var carTypes []models.CarType
	if err := c.db.DB.Order("name").Find(&carTypes).Error; err != nil {
		http.Error(w, "Помилка при отриманні типів автомобілів", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(carTypes)
}

// CreateCarType обробляє запит на створення типу автомобіля
func (c *AdminController) CreateCarType(w http.ResponseWriter, r *http.Request) {
	var req CarTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Некоректне тіло запиту", http.StatusBadRequest)
		return
	}
	if err := c.validateRequest(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	carType := &models.CarType{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := c.db.DB.Create(carType).Error; err != nil {
		http.Error(w, "Помилка при створенні типу автомобіля", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(carType)
}

// DeleteCarType обробляє запит на видалення типу автомобіля
func (c *AdminController) DeleteCarType(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	typeID, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		http.Error(w, "Некоректний ID типу", http.StatusBadRequest)
		return
	}

	if err := c.carService.DeleteCarType(uint(typeID)); err != nil {
		if errors.Is(err, services.ErrCarTypeInUse) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, "Помилка при видаленні типу автомобіля", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetClients обробляє запит списку клієнтів з опціональним пошуком
// за ім'ям або email
func (c *AdminController) GetClients(w http.ResponseWriter, r *http.Request) {
	query := c.db.DB.Preload("User").Order("created_at DESC")

	if search := r.URL.Query().Get("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.
			Joins("JOIN users ON users.id = clients.user_id").
			Where("clients.full_name LIKE ? OR users.email LIKE ?", pattern, pattern)
	}

	var clients []models.Client
	if err := query.Find(&clients).Error; err != nil {
		http.Error(w, "Помилка при отриманні клієнтів", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(clients)
}

// GetClient обробляє запит інформації про клієнта з його орендами
func (c *AdminController) GetClient(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	clientID, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		http.Error(w, "Некоректний ID клієнта", http.StatusBadRequest)
		return
	}

	var client models.Client
	if err := c.db.DB.Preload("User").
		Preload("Rentals.Car").
		First(&client, uint(clientID)).Error; err != nil {
		http.Error(w, "Клієнта не знайдено", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(client)
}

// BlockClientRequest — запит на блокування або розблокування клієнта
type BlockClientRequest struct {
	Blocked bool `json:"blocked"`
}

// SetClientBlocked обробляє запит на блокування або розблокування клієнта
func (c *AdminController) SetClientBlocked(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	clientID, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		http.Error(w, "Некоректний ID клієнта", http.StatusBadRequest)
		return
	}

	var req BlockClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Некоректне тіло запиту", http.StatusBadRequest)
		return
	}

	var client models.Client
	if err := c.db.DB.First(&client, uint(clientID)).Error; err != nil {
		http.Error(w, "Клієнта не знайдено", http.StatusNotFound)
		return
	}

	if err := c.db.DB.Model(&client).Update("is_blocked", req.Blocked).Error; err != nil {
		http.Error(w, "Помилка при оновленні клієнта", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(client)
}

// carFromRequest завантажує автомобіль за ID з URL
func (c *AdminController) carFromRequest(w http.ResponseWriter, r *http.Request) (*models.Car, bool) {
	vars := mux.Vars(r)
	carID, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		http.Error(w, "Некоректний ID автомобіля", http.StatusBadRequest)
		return nil, false
	}

	car, err := c.carService.GetCarByID(uint(carID))
	if err != nil {
		http.Error(w, "Автомобіль не знайдено", http.StatusNotFound)
		return nil, false
	}
	return car, true
}

// validateRequest валідує DTO та повертає помилки валідації
func (c *AdminController) validateRequest(dto interface{}) error {
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
