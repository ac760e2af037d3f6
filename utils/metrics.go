package utils

import (
	"sync"
	"time"
)

// Metrics містить метрики застосунку
type Metrics struct {
	mu sync.RWMutex

	// Метрики запитів
	TotalRequests   int64
	FailedRequests  int64
	RequestLatency  time.Duration
	AverageLatency  time.Duration
	LastRequestTime time.Time

	// Метрики оренд
	RentalsCreated      int64
	RentalsCompleted    int64
	OverdueTransitions  int64
	DepositsTaken       float64
	FinesIssued         int64
	FinesTotal          float64
	RefundsPaid         float64
	LastRentalOperation time.Time

	// Метрики помилок
	ErrorCount    int64
	LastErrorTime time.Time
	ErrorTypes    map[string]int64
}

var (
	metrics     *Metrics
	metricsOnce sync.Once
)

// GetMetrics повертає екземпляр метрик
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = &Metrics{
			ErrorTypes: make(map[string]int64),
		}
	})
	return metrics
}

// RecordRequest записує метрики запиту
func (m *Metrics) RecordRequest(duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalRequests++
	m.RequestLatency += duration
	m.AverageLatency = m.RequestLatency / time.Duration(m.TotalRequests)
	m.LastRequestTime = time.Now()

	if err != nil {
		m.FailedRequests++
		m.recordError(err)
	}
}

// RecordRentalCreated записує метрики створення оренди
func (m *Metrics) RecordRentalCreated(deposit float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RentalsCreated++
	m.DepositsTaken += deposit
	m.LastRentalOperation = time.Now()
}

// RecordRentalCompleted записує метрики завершення оренди
func (m *Metrics) RecordRentalCompleted(totalFines, refund float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RentalsCompleted++
	m.RefundsPaid += refund
	m.LastRentalOperation = time.Now()
}

// RecordOverdueTransitions записує кількість оренд, переведених в overdue
func (m *Metrics) RecordOverdueTransitions(count int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.OverdueTransitions += count
	m.LastRentalOperation = time.Now()
}

// RecordFineIssued записує метрики нарахованого штрафу
func (m *Metrics) RecordFineIssued(amount float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FinesIssued++
	m.FinesTotal += amount
}

// RecordError записує метрики помилки
func (m *Metrics) RecordError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordError(err)
}

func (m *Metrics) recordError(err error) {
	m.ErrorCount++
	m.LastErrorTime = time.Now()

	errorType := "unknown"
	if err != nil {
		errorType = err.Error()
	}
	m.ErrorTypes[errorType]++
}

// GetMetricsSnapshot повертає знімок поточних метрик
func (m *Metrics) GetMetricsSnapshot() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"total_requests":      m.TotalRequests,
		"failed_requests":     m.FailedRequests,
		"average_latency":     m.AverageLatency.String(),
		"rentals_created":     m.RentalsCreated,
		"rentals_completed":   m.RentalsCompleted,
		"overdue_transitions": m.OverdueTransitions,
		"deposits_taken":      m.DepositsTaken,
		"fines_issued":        m.FinesIssued,
		"fines_total":         m.FinesTotal,
		"refunds_paid":        m.RefundsPaid,
		"error_count":         m.ErrorCount,
		"error_types":         m.ErrorTypes,
	}
}

// ResetMetrics скидає всі метрики
func (m *Metrics) ResetMetrics() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalRequests = 0
	m.FailedRequests = 0
	m.RequestLatency = 0
	m.AverageLatency = 0
	m.RentalsCreated = 0
	m.RentalsCompleted = 0
	m.OverdueTransitions = 0
	m.DepositsTaken = 0
	m.FinesIssued = 0
	m.FinesTotal = 0
	m.RefundsPaid = 0
	m.ErrorCount = 0
	m.ErrorTypes = make(map[string]int64)
}
