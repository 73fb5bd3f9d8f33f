package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruddypp/Paramata-System/internal/domain"
)

func TestCreateScheduleSeedsReminder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	scheduleSvc := NewScheduleService(env.store, env.clock, env.reminders)

	sch := &domain.InventorySchedule{
		Name:      "Quarterly stock check",
		Frequency: domain.FrequencyQuarterly,
		NextDate:  env.clock.now.AddDate(0, 0, 2),
	}
	err := scheduleSvc.CreateSchedule(ctx, userActor, sch)
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "schedules are admin only")

	require.NoError(t, scheduleSvc.CreateSchedule(ctx, adminActor, sch))
	assert.Equal(t, "admin-1", sch.UserID)

	due, err := env.store.Reminders().ListDue(ctx, env.clock.now)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, domain.ReminderTypeSchedule, due[0].Type)
	assert.Equal(t, sch.NextDate, due[0].DueDate)
}

func TestSyncDueAdvancesSchedules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	scheduleSvc := NewScheduleService(env.store, env.clock, env.reminders)

	past := env.clock.now.AddDate(0, -1, -3)
	sch := &domain.InventorySchedule{
		Name:      "Monthly check",
		Frequency: domain.FrequencyMonthly,
		NextDate:  past,
		UserID:    "admin-1",
	}
	require.NoError(t, env.store.Schedules().Create(ctx, sch))

	advanced, err := scheduleSvc.SyncDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, advanced)

	updated, err := env.store.Schedules().GetByID(ctx, sch.ID)
	require.NoError(t, err)
	assert.True(t, updated.NextDate.After(env.clock.now), "schedule rolled past now")
	assert.Equal(t, past.AddDate(0, 2, 0), updated.NextDate, "stepped by whole monthly intervals")

	// Nothing due anymore, second sync is a no-op
	advanced, err = scheduleSvc.SyncDue(ctx)
	require.NoError(t, err)
	assert.Zero(t, advanced)
}

func TestScheduleAdvanceSteps(t *testing.T) {
	base := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	sch := &domain.InventorySchedule{Frequency: domain.FrequencyQuarterly, NextDate: base}

	next := sch.Advance(base.AddDate(0, 7, 0))
	assert.Equal(t, base.AddDate(0, 9, 0), next)
}
