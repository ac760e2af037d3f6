package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"autorental/config"
	"autorental/controllers"
	"autorental/database"
	"autorental/middleware"
	"autorental/services"
)

// healthHandler відповідає на запити перевірки стану сервера
func healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `{"status":"ok"}`)
}

func initRentalScheduler(db *database.Database, emailService *services.EmailService, cfg *config.Config) {
	// Створюємо сервіс оренд
	rentalService := services.NewRentalService(db.DB, emailService, nil)

	// Створюємо планувальник оновлення статусів оренд
	scheduler := services.NewRentalSchedulerService(rentalService, cfg.Scheduler.SweepCron)

	// Запускаємо планувальник
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Помилка запуску планувальника: %v", err)
	}
	log.Println("Планувальник оновлення оренд запущено")
}

func main() {
	// Завантажуємо .env, якщо файл існує
	if err := godotenv.Load(); err != nil {
		log.Println("Файл .env не знайдено, використовуються змінні оточення")
	}

	// Ініціалізуємо конфігурацію
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Помилка завантаження конфігурації: %v", err)
	}

	// Ініціалізуємо підключення до бази даних
	gormDB, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Помилка підключення до бази даних: %v", err)
	}
	db := &database.Database{DB: gormDB}

	// Ініціалізуємо сервіс email (nil, якщо відправка вимкнена)
	emailService := services.NewEmailService(cfg)

	// Запускаємо планувальник оновлення статусів оренд
	initRentalScheduler(db, emailService, cfg)

	// Створюємо роутер
	router := mux.NewRouter()
	router.Use(middleware.RecoveryMiddleware)
	router.Use(middleware.LoggingMiddleware)
	router.Use(middleware.CORSMiddleware)
	router.Use(middleware.RateLimitMiddleware)

	// Ініціалізуємо контролери
	authController := controllers.NewAuthController(db, cfg)
	carController := controllers.NewCarController(db)
	rentalController := controllers.NewRentalController(db, emailService)
	adminController := controllers.NewAdminController(db)

	// Перевірка стану сервера
	router.HandleFunc("/health", healthHandler).Methods("GET")

	// Публічні маршрути
	router.HandleFunc("/api/auth/register", authController.Register).Methods("POST")
	router.HandleFunc("/api/auth/login", authController.Login).Methods("POST")
	router.HandleFunc("/api/cars", carController.GetCars).Methods("GET")
	router.HandleFunc("/api/cars/{id}", carController.GetCar).Methods("GET")
	router.HandleFunc("/api/cars/{id}/quote", carController.GetPriceQuote).Methods("GET")

	// Маршрути для авторизованих клієнтів
	protected := router.PathPrefix("/api").Subrouter()
	protected.Use(middleware.AuthMiddleware([]byte(cfg.JWT.SecretKey)))

	protected.HandleFunc("/rentals", rentalController.CreateRental).Methods("POST")
	protected.HandleFunc("/rentals/my", rentalController.GetMyRentals).Methods("GET")
	protected.HandleFunc("/rentals/{id}", rentalController.GetRental).Methods("GET")

	// Адміністративні маршрути
	admin := router.PathPrefix("/api/admin").Subrouter()
	admin.Use(middleware.AuthMiddleware([]byte(cfg.JWT.SecretKey)))
	admin.Use(middleware.AdminMiddleware)

	admin.HandleFunc("/dashboard", adminController.GetDashboard).Methods("GET")
	admin.HandleFunc("/statistics", adminController.GetStatistics).Methods("GET")
	admin.HandleFunc("/statistics/export", adminController.ExportStatisticsXML).Methods("GET")
	admin.HandleFunc("/metrics", adminController.GetMetrics).Methods("GET")

	admin.HandleFunc("/rentals", rentalController.GetAllRentals).Methods("GET")
	admin.HandleFunc("/rentals/{id}/complete", rentalController.CompleteRental).Methods("POST")

	admin.HandleFunc("/cars", adminController.CreateCar).Methods("POST")
	admin.HandleFunc("/cars/{id}", adminController.UpdateCar).Methods("PUT")
	admin.HandleFunc("/cars/{id}", adminController.DeleteCar).Methods("DELETE")
	admin.HandleFunc("/cars/{id}/report", adminController.GetCarFinancialReport).Methods("GET")
	admin.HandleFunc("/cars/occupancy", adminController.GetCarsOccupancyReport).Methods("GET")

	admin.HandleFunc("/car-types", adminController.GetCarTypes).Methods("GET")
	admin.HandleFunc("/car-types", adminController.CreateCarType).Methods("POST")
	admin.HandleFunc("/car-types/{id}", adminController.DeleteCarType).Methods("DELETE")

	admin.HandleFunc("/clients", adminController.GetClients).Methods("GET")
	admin.HandleFunc("/clients/{id}", adminController.GetClient).Methods("GET")
	admin.HandleFunc("/clients/{id}/block", adminController.SetClientBlocked).Methods("POST")

	// Запускаємо сервер
	port := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Сервер запущено на порту %s", port)
	if err := http.ListenAndServe(port, router); err != nil {
		log.Fatalf("Помилка запуску сервера: %v", err)
	}
}
