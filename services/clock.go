package services

import "time"

// Clock повертає поточний момент часу.
// Передається явно в сервіси, щоб тести могли підставити фіксовану дату.
type Clock func() time.Time

// dateOnly обрізає час до початку доби в UTC
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// rentalDays рахує кількість днів оренди, включно з обома датами
func rentalDays(startDate, endDate time.Time) int {
	return int(dateOnly(endDate).Sub(dateOnly(startDate)).Hours()/24) + 1
}
