package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsRecording(t *testing.T) {
	m := GetMetrics()
	m.ResetMetrics()

	m.RecordRentalCreated(1800)
	m.RecordRentalCreated(2500)
	m.RecordRentalCompleted(1180, 620)
	m.RecordFineIssued(180)
	m.RecordFineIssued(1000)
	m.RecordOverdueTransitions(3)

	snapshot := m.GetMetricsSnapshot()
	assert.EqualValues(t, 2, snapshot["rentals_created"])
	assert.EqualValues(t, 1, snapshot["rentals_completed"])
	assert.EqualValues(t, 4300.0, snapshot["deposits_taken"])
	assert.EqualValues(t, 2, snapshot["fines_issued"])
	assert.EqualValues(t, 1180.0, snapshot["fines_total"])
	assert.EqualValues(t, 620.0, snapshot["refunds_paid"])
	assert.EqualValues(t, 3, snapshot["overdue_transitions"])
}

func TestMetricsRequests(t *testing.T) {
	m := GetMetrics()
	m.ResetMetrics()

	m.RecordRequest(10*time.Millisecond, nil)
	m.RecordRequest(20*time.Millisecond, errors.New("status 500"))

	snapshot := m.GetMetricsSnapshot()
	assert.EqualValues(t, 2, snapshot["total_requests"])
	assert.EqualValues(t, 1, snapshot["failed_requests"])
	assert.EqualValues(t, 1, snapshot["error_count"])
}
