package services

import (
	"log"

	"github.com/robfig/cron/v3"
)

// RentalSchedulerService періодично оновлює статуси оренд за розкладом.
// Доповнює опортуністичне оновлення перед переглядом списків оренд.
type RentalSchedulerService struct {
	cron          *cron.Cron
	rentalService *RentalService
	spec          string
}

// NewRentalSchedulerService створює новий планувальник оновлення оренд
func NewRentalSchedulerService(rentalService *RentalService, spec string) *RentalSchedulerService {
	if spec == "" {
		spec = "0 1 * * *"
	}
	return &RentalSchedulerService{
		cron:          cron.New(),
		rentalService: rentalService,
		spec:          spec,
	}
}

// Start запускає планувальник
func (s *RentalSchedulerService) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		count, err := s.rentalService.UpdateOverdueRentals()
		if err != nil {
			log.Printf("Помилка при плановому оновленні статусів оренд: %v", err)
			return
		}
		if count > 0 {
			log.Printf("Планова перевірка оренд: оновлено %d", count)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop зупиняє планувальник
func (s *RentalSchedulerService) Stop() {
	s.cron.Stop()
}
