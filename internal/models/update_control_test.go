package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeEmployee(t *testing.T) *Employee {
	t.Helper()
	e := mustEmployee(t)
	contact, err := validContactData().Build()
	require.NoError(t, err)
	housing, err := validHousingData().Build()
	require.NoError(t, err)
	e.SetContactInfo(contact)
	e.SetHousingInfo(housing)
	return e
}

func TestEmployee_UpdateControlBeforePersisting(t *testing.T) {
	useFixedClock(t)

	e := completeEmployee(t)
	assert.True(t, e.NextUpdateDue().IsZero())
	assert.False(t, e.IsOverdue(fixedToday))
	assert.False(t, e.DueWithin(fixedToday, 30))
	assert.Zero(t, e.DaysUntilUpdate(fixedToday))
	assert.Equal(t, UpdateStatusCurrent, e.UpdateStatus(fixedToday))
}

func TestEmployee_UpdateControl(t *testing.T) {
	useFixedClock(t)

	tests := []struct {
		name        string
		complete    bool
		updatedAt   time.Time
		status      UpdateStatus
		needsUpdate bool
		dueIn30     bool
		days        int
	}{
		{
			name:      "updated today",
			complete:  true,
			updatedAt: fixedToday,
			status:    UpdateStatusCurrent,
			days:      365,
		},
		{
			name:      "due in ten days",
			complete:  true,
			updatedAt: fixedToday.AddDate(-1, 0, 10),
			status:    UpdateStatusCurrent,
			dueIn30:   true,
			days:      10,
		},
		{
			name:        "overdue by a day",
			complete:    true,
			updatedAt:   fixedToday.AddDate(-1, 0, -1),
			status:      UpdateStatusOverdue,
			needsUpdate: true,
			days:        -1,
		},
		{
			name:        "incomplete but recent",
			updatedAt:   fixedToday.AddDate(0, -1, 0),
			status:      UpdateStatusPending,
			needsUpdate: true,
			days:        334,
		},
		{
			name:        "incomplete and overdue",
			updatedAt:   fixedToday.AddDate(-2, 0, 0),
			status:      UpdateStatusOverdue,
			needsUpdate: true,
			days:        -365,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := mustEmployee(t)
			if tt.complete {
				e = completeEmployee(t)
			}
			e.MarkPersisted(1, tt.updatedAt)

			assert.Equal(t, tt.updatedAt.AddDate(UpdateIntervalYears, 0, 0), e.NextUpdateDue())
			assert.Equal(t, tt.status, e.UpdateStatus(fixedToday))
			assert.Equal(t, tt.needsUpdate, e.NeedsUpdate(fixedToday))
			assert.Equal(t, tt.dueIn30, e.DueWithin(fixedToday, 30))
			assert.Equal(t, tt.days, e.DaysUntilUpdate(fixedToday))
		})
	}
}

func TestEmployee_DueWithinBoundary(t *testing.T) {
	useFixedClock(t)

	e := completeEmployee(t)
	e.MarkPersisted(3, fixedToday.AddDate(-1, 0, 30))

	assert.True(t, e.DueWithin(fixedToday, 30), "due exactly on the last day of the window")
	assert.False(t, e.DueWithin(fixedToday, 29))
	assert.True(t, e.DueWithin(e.NextUpdateDue(), 0), "due at this very instant")
	assert.False(t, e.DueWithin(e.NextUpdateDue().Add(time.Second), 30), "overdue is not due soon")
}
