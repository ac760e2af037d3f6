package services

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/gomail.v2"

	"autorental/config"
	"autorental/models"
)

// EmailService надає методи для відправки email-сповіщень
type EmailService struct {
	dialer *gomail.Dialer
	from   string
}

// NewEmailService створює новий екземпляр EmailService.
// Повертає nil, якщо відправка email вимкнена в конфігурації.
func NewEmailService(cfg *config.Config) *EmailService {
	if !cfg.SMTP.Enabled {
		return nil
	}

	dialer := gomail.NewDialer(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
	)

	return &EmailService{
		dialer: dialer,
		from:   cfg.SMTP.From,
	}
}

// SendEmail відправляє email
func (s *EmailService) SendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("помилка відправки email: %v", err)
	}

	return nil
}

// SendRentalCreatedNotification відправляє сповіщення про оформлення оренди
func (s *EmailService) SendRentalCreatedNotification(to string, car *models.Car, rental *models.Rental) error {
	subject := "Оренда оформлена"
	body := fmt.Sprintf(`
		<h2>Оренда оформлена успішно!</h2>
		<p>Автомобіль: %s</p>
		<p>Період: %s — %s</p>
		<p>Вартість: %s грн</p>
		<p>Застава: %s грн</p>
	`,
		car.DisplayName(),
		rental.StartDate.Format("02.01.2006"),
		rental.ExpectedEndDate.Format("02.01.2006"),
		rental.TotalCost.StringFixed(2),
		rental.Deposit.StringFixed(2),
	)

	return s.SendEmail(to, subject, body)
}

// SendRentalCompletedNotification відправляє сповіщення про завершення оренди
func (s *EmailService) SendRentalCompletedNotification(to string, rental *models.Rental, totalFines, refund decimal.Decimal) error {
	subject := "Оренда завершена"
	body := fmt.Sprintf(`
		<h2>Оренда #%d завершена</h2>
		<p>Загальна вартість: %s грн</p>
		<p>Штрафи: %s грн</p>
		<p>Повернення застави: %s грн</p>
		<p>Дякуємо, що обрали наш прокат!</p>
	`,
		rental.ID,
		rental.TotalCost.StringFixed(2),
		totalFines.StringFixed(2),
		refund.StringFixed(2),
	)

	return s.SendEmail(to, subject, body)
}
