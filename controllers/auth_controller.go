package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"autorental/config"
	"autorental/database"
	"autorental/models"
)

// AuthController обробляє реєстрацію та вхід користувачів
type AuthController struct {
	db       *database.Database
	validate *validator.Validate
	config   *config.Config
}

// RegisterRequest — запит на реєстрацію клієнта
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,password"`
	FullName string `json:"full_name" validate:"required,min=2,max=200"`
	Address  string `json:"address" validate:"max=500"`
	Phone    string `json:"phone" validate:"max=20"`
}

// LoginRequest — запит на вхід
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// AuthResponse — відповідь з токеном та даними користувача
type AuthResponse struct {
	Token string `json:"token"`
	User  struct {
		ID       uint   `json:"id"`
		Email    string `json:"email"`
		FullName string `json:"full_name"`
		IsAdmin  bool   `json:"is_admin"`
	} `json:"user"`
}

// Claims — вміст JWT токена
type Claims struct {
	UserID  uint   `json:"user_id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// NewAuthController створює новий екземпляр AuthController
func NewAuthController(db *database.Database, cfg *config.Config) *AuthController {
	validate := validator.New()

	// Кастомна валідація пароля
	validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		password := fl.Field().String()
		hasNumber := regexp.MustCompile(`[0-9]`).MatchString(password)
		hasLetter := regexp.MustCompile(`[a-zA-Z]`).MatchString(password)
		return hasNumber && hasLetter
	})

	return &AuthController{
		db:       db,
		validate: validate,
		config:   cfg,
	}
}

// Register обробляє реєстрацію нового клієнта
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Некоректне тіло запиту", http.StatusBadRequest)
		return
	}

	// Валідація запиту
	if err := c.validateRequest(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Перевіряємо, що email ще не зайнятий
	if _, err := c.db.GetUserByEmail(req.Email); err == nil {
		http.Error(w, "Користувач з таким email вже існує", http.StatusConflict)
		return
	}

	// Хешуємо пароль
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Помилка при обробці пароля", http.StatusInternalServerError)
		return
	}

	// Створюємо користувача та профіль клієнта в одній транзакції
	user := &models.User{
		Email:    req.Email,
		Password: string(hash),
	}
	client := &models.Client{
		FullName: req.FullName,
		Address:  req.Address,
		Phone:    req.Phone,
	}

	err = c.db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		client.UserID = user.ID
		return tx.Create(client).Error
	})
	if err != nil {
		http.Error(w, "Помилка при створенні користувача", http.StatusInternalServerError)
		return
	}

	// Генеруємо JWT токен
	token, err := c.generateToken(user)
	if err != nil {
		http.Error(w, "Помилка при генерації токена", http.StatusInternalServerError)
		return
	}

	response := c.buildAuthResponse(token, user, client.FullName)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)
}

// Login обробляє вхід користувача
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Некоректне тіло запиту", http.StatusBadRequest)
		return
	}

	// Валідація запиту
	if err := c.validateRequest(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Шукаємо користувача за email
	user, err := c.db.GetUserByEmail(req.Email)
	if err != nil {
		http.Error(w, "Невірний email або пароль", http.StatusUnauthorized)
		return
	}

	// Перевіряємо пароль
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		http.Error(w, "Невірний email або пароль", http.StatusUnauthorized)
		return
	}

	// Генеруємо JWT токен
	token, err := c.generateToken(user)
	if err != nil {
		http.Error(w, "Помилка при генерації токена", http.StatusInternalServerError)
		return
	}

	fullName := ""
	if client, err := c.db.GetClientByUserID(user.ID); err == nil {
		fullName = client.FullName
	}

	response := c.buildAuthResponse(token, user, fullName)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// generateToken створює JWT токен для користувача
func (c *AuthController) generateToken(user *models.User) (string, error) {
	expirationTime := time.Now().Add(time.Duration(c.config.JWT.ExpiresIn) * time.Hour)
	claims := &Claims{
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(c.config.JWT.SecretKey))
}

// buildAuthResponse формує відповідь з токеном та даними користувача
func (c *AuthController) buildAuthResponse(token string, user *models.User, fullName string) AuthResponse {
	response := AuthResponse{Token: token}
	response.User.ID = user.ID
	response.User.Email = user.Email
	response.User.FullName = fullName
	response.User.IsAdmin = user.IsAdmin
	return response
}

// validateRequest валідує DTO та повертає помилки валідації
func (c *AuthController) validateRequest(dto interface{}) error {
	if err := c.validate.Struct(dto); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMessages []string
		for _, e := range validationErrors {
			switch e.Tag() {
			case "required":
				errorMessages = append(errorMessages, "поле "+e.Field()+" обов'язкове")
			case "email":
				errorMessages = append(errorMessages, "поле "+e.Field()+" повинно бути коректним email")
			case "min":
				errorMessages = append(errorMessages, "поле "+e.Field()+" занадто коротке (мінімум "+e.Param()+")")
			case "max":
				errorMessages = append(errorMessages, "поле "+e.Field()+" занадто довге (максимум "+e.Param()+")")
			case "password":
				errorMessages = append(errorMessages, "пароль повинен містити літери та цифри")
			default:
				errorMessages = append(errorMessages, "поле "+e.Field()+" некоректне")
			}
		}
		return errors.New(strings.Join(errorMessages, "; "))
	}
	return nil
}
