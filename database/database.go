package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"autorental/config"
	"autorental/models"
)

// Database представляє підключення до бази даних
type Database struct {
	DB *gorm.DB
}

// NewDatabase створює нове підключення до бази даних
func NewDatabase(cfg *config.Config) (*Database, error) {
	db, err := gorm.Open(postgres.Open(buildDSN(cfg)), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("помилка підключення до бази даних: %v", err)
	}

	return &Database{DB: db}, nil
}

// GetDB повертає екземпляр GORM
func (d *Database) GetDB() *gorm.DB {
	return d.DB
}

// Close закриває підключення до бази даних
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func buildDSN(cfg *config.Config) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DB.Host,
		cfg.DB.Port,
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.DBName,
		cfg.DB.SSLMode,
	)
}

// Connect встановлює з'єднання з базою даних та виконує міграції
func Connect(cfg *config.Config) (*gorm.DB, error) {
	// Налаштовуємо логгер
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	// Встановлюємо з'єднання
	db, err := gorm.Open(postgres.Open(buildDSN(cfg)), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("помилка підключення до бази даних: %v", err)
	}

	// Налаштовуємо пул з'єднань
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("помилка отримання пулу з'єднань: %v", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Виконуємо SQL міграції
	if err := runMigrations(cfg); err != nil {
		return nil, fmt.Errorf("помилка виконання SQL міграцій: %v", err)
	}

	// Виконуємо автоматичну міграцію моделей
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("помилка автоматичної міграції моделей: %v", err)
	}

	return db, nil
}

// runMigrations виконує SQL міграції
func runMigrations(cfg *config.Config) error {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.Host,
		cfg.DB.Port,
		cfg.DB.DBName,
		cfg.DB.SSLMode,
	)

	m, err := migrate.New(
		"file://migrations",
		dsn,
	)
	if err != nil {
		return fmt.Errorf("помилка створення міграції: %v", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("помилка виконання міграцій: %v", err)
	}

	return nil
}

// autoMigrate виконує автоматичну міграцію моделей
func autoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.CarType{},
		&models.Car{},
		&models.Rental{},
		&models.Fine{},
		&models.Payment{},
	)
	if err != nil {
		return fmt.Errorf("помилка автоматичної міграції: %v", err)
	}

	return nil
}

// Методи для роботи з користувачами
func (d *Database) CreateUser(user *models.User) error {
	return d.DB.Create(user).Error
}

func (d *Database) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	err := d.DB.First(&user, id).Error
	return &user, err
}

func (d *Database) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := d.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

// Методи для роботи з клієнтами
func (d *Database) CreateClient(client *models.Client) error {
	return d.DB.Create(client).Error
}

func (d *Database) GetClientByUserID(userID uint) (*models.Client, error) {
	var client models.Client
	err := d.DB.Where("user_id = ?", userID).First(&client).Error
	return &client, err
}

// Методи для роботи з автомобілями
func (d *Database) CreateCar(car *models.Car) error {
	return d.DB.Create(car).Error
}

func (d *Database) GetCarByID(id uint) (*models.Car, error) {
	var car models.Car
	err := d.DB.Preload("CarType").First(&car, id).Error
	return &car, err
}

// Методи для роботи з орендами
func (d *Database) CreateRental(rental *models.Rental) error {
	return d.DB.Create(rental).Error
}

func (d *Database) GetRentalByID(id uint) (*models.Rental, error) {
	var rental models.Rental
	err := d.DB.First(&rental, id).Error
	return &rental, err
}
