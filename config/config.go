package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config представляє конфігурацію застосунку
type Config struct {
	Server struct {
		Port int
	}
	DB struct {
		Host     string
		Port     int
		User     string
		Password string
		DBName   string
		SSLMode  string
	}
	JWT struct {
		SecretKey string
		ExpiresIn int // в годинах
	}
	SMTP struct {
		Host     string
		Port     int
		Username string
		Password string
		From     string
		Enabled  bool
	}
	Scheduler struct {
		SweepCron string // розклад планової перевірки оренд
	}
}

// NewConfig створює новий екземпляр конфігурації.
// Значення читаються з config.yaml (якщо файл існує) та змінних оточення,
// змінні оточення мають пріоритет.
func NewConfig() (*Config, error) {
	v := viper.New()

	// Значення за замовчуванням
	v.SetDefault("server.port", 8080)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.dbname", "autorental_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("jwt.secretkey", "your-secret-key-here")
	v.SetDefault("jwt.expiresin", 24)
	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "noreply@autorental.ua")
	v.SetDefault("smtp.enabled", false)
	v.SetDefault("scheduler.sweepcron", "0 1 * * *")

	// Читаємо конфігураційний файл, якщо він є
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("помилка читання конфігураційного файлу: %v", err)
		}
	}

	// Змінні оточення: SERVER_PORT, DB_HOST, JWT_SECRETKEY тощо
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	cfg.Server.Port = v.GetInt("server.port")
	cfg.DB.Host = v.GetString("db.host")
	cfg.DB.Port = v.GetInt("db.port")
	cfg.DB.User = v.GetString("db.user")
	cfg.DB.Password = v.GetString("db.password")
	cfg.DB.DBName = v.GetString("db.dbname")
	cfg.DB.SSLMode = v.GetString("db.sslmode")
	cfg.JWT.SecretKey = v.GetString("jwt.secretkey")
	cfg.JWT.ExpiresIn = v.GetInt("jwt.expiresin")
	cfg.SMTP.Host = v.GetString("smtp.host")
	cfg.SMTP.Port = v.GetInt("smtp.port")
	cfg.SMTP.Username = v.GetString("smtp.username")
	cfg.SMTP.Password = v.GetString("smtp.password")
	cfg.SMTP.From = v.GetString("smtp.from")
	cfg.SMTP.Enabled = v.GetBool("smtp.enabled")
	cfg.Scheduler.SweepCron = v.GetString("scheduler.sweepcron")

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("некоректний порт сервера: %d", cfg.Server.Port)
	}

	return cfg, nil
}
