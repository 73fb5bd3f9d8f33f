package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("bad date %q: %v", value, err)
	}
	return d
}

func TestRequestStatus_CanTransitionTo(t *testing.T) {
	t.Run("Pending", func(t *testing.T) {
		assert.True(t, RequestStatusPending.CanTransitionTo(RequestStatusApproved))
		assert.True(t, RequestStatusPending.CanTransitionTo(RequestStatusRejected))
		assert.True(t, RequestStatusPending.CanTransitionTo(RequestStatusCancelled))
		assert.False(t, RequestStatusPending.CanTransitionTo(RequestStatusCompleted))
		assert.False(t, RequestStatusPending.CanTransitionTo(RequestStatusPending))
	})

	t.Run("Approved", func(t *testing.T) {
		assert.True(t, RequestStatusApproved.CanTransitionTo(RequestStatusCompleted))
		assert.True(t, RequestStatusApproved.CanTransitionTo(RequestStatusCancelled))
		assert.False(t, RequestStatusApproved.CanTransitionTo(RequestStatusRejected))
		assert.False(t, RequestStatusApproved.CanTransitionTo(RequestStatusPending))
	})

	t.Run("Terminal states allow nothing", func(t *testing.T) {
		targets := []RequestStatus{
			RequestStatusPending, RequestStatusApproved, RequestStatusRejected,
			RequestStatusCompleted, RequestStatusCancelled,
		}
		for _, from := range []RequestStatus{RequestStatusCompleted, RequestStatusRejected, RequestStatusCancelled} {
			assert.True(t, from.IsTerminal(), "%s should be terminal", from)
			for _, to := range targets {
				assert.False(t, from.CanTransitionTo(to), "%s -> %s should be rejected", from, to)
			}
		}
	})
}

func TestRequestStatus_IsTerminal(t *testing.T) {
	assert.False(t, RequestStatusPending.IsTerminal())
	assert.False(t, RequestStatusApproved.IsTerminal())
	assert.True(t, RequestStatusRejected.IsTerminal())
	assert.True(t, RequestStatusCompleted.IsTerminal())
	assert.True(t, RequestStatusCancelled.IsTerminal())
	assert.False(t, RequestStatus("UNKNOWN").IsTerminal())
}

func TestRequestKind_BusyItemStatus(t *testing.T) {
	assert.Equal(t, ItemStatusRented, KindRental.BusyItemStatus())
	assert.Equal(t, ItemStatusInCalibration, KindCalibration.BusyItemStatus())
	assert.Equal(t, ItemStatusInMaintenance, KindMaintenance.BusyItemStatus())
}

func TestIllegalTransitionError(t *testing.T) {
	err := NewIllegalTransition(KindRental, RequestStatusCompleted, RequestStatusApproved)

	assert.True(t, errors.Is(err, ErrIllegalTransition))

	var ite *IllegalTransitionError
	assert.True(t, errors.As(err, &ite))
	assert.Equal(t, KindRental, ite.Kind)
	assert.Equal(t, RequestStatusCompleted, ite.From)
	assert.Equal(t, RequestStatusApproved, ite.To)
	assert.Contains(t, err.Error(), "COMPLETED")
	assert.Contains(t, err.Error(), "APPROVED")
}

func TestScheduleFrequency_Advance(t *testing.T) {
	s := &InventorySchedule{Frequency: FrequencyQuarterly}
	s.NextDate = mustDate(t, "2026-01-15")

	next := s.Advance(mustDate(t, "2026-05-01"))
	assert.Equal(t, mustDate(t, "2026-07-15"), next)

	// Already in the future: unchanged.
	next = s.Advance(mustDate(t, "2026-01-01"))
	assert.Equal(t, s.NextDate, next)
}
