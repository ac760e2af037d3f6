package services

import "errors"

// Помилки бізнес-правил. Контролери розрізняють їх через errors.Is.
var (
	ErrCarUnavailable      = errors.New("автомобіль недоступний для оренди")
	ErrInvalidDateRange    = errors.New("некоректний діапазон дат оренди")
	ErrRentalCompleted     = errors.New("оренда вже завершена")
	ErrCarHasActiveRentals = errors.New("неможливо видалити автомобіль з активними орендами")
	ErrCarHasRentalHistory = errors.New("автомобіль має оренди в історії")
	ErrCarTypeInUse        = errors.New("неможливо видалити тип, який використовується в автомобілях")
	ErrClientBlocked       = errors.New("клієнта заблоковано")
)
