package models

import "time"

// UpdateStatus is the annual declaration state of an employee record
type UpdateStatus string

const (
	// UpdateStatusPending marks a record whose mandatory sections are missing
	UpdateStatusPending UpdateStatus = "PENDING"
	// UpdateStatusCurrent marks a complete record updated within the last year
	UpdateStatusCurrent UpdateStatus = "CURRENT"
	// UpdateStatusOverdue marks a record not updated for more than a year
	UpdateStatusOverdue UpdateStatus = "OVERDUE"
)

// UpdateIntervalYears is how often the declaration must be renewed
const UpdateIntervalYears = 1

// NextUpdateDue is one year after the last stored change. It is zero for
// records that were never persisted.
func (e *Employee) NextUpdateDue() time.Time {
	if e.updatedAt.IsZero() {
		return time.Time{}
	}
	return e.updatedAt.AddDate(UpdateIntervalYears, 0, 0)
}

// IsOverdue reports whether the renewal date has passed at the given instant
func (e *Employee) IsOverdue(at time.Time) bool {
	due := e.NextUpdateDue()
	return !due.IsZero() && at.After(due)
}

// NeedsUpdate is true for incomplete or overdue records
func (e *Employee) NeedsUpdate(at time.Time) bool {
	return !e.IsComplete() || e.IsOverdue(at)
}

// DueWithin reports a renewal date that has not passed yet and falls within
// the next days days
func (e *Employee) DueWithin(at time.Time, days int) bool {
	due := e.NextUpdateDue()
	if due.IsZero() || at.After(due) {
		return false
	}
	return !due.After(at.AddDate(0, 0, days))
}

// DaysUntilUpdate counts whole days to the renewal date, negative once overdue
func (e *Employee) DaysUntilUpdate(at time.Time) int {
	due := e.NextUpdateDue()
	if due.IsZero() {
		return 0
	}
	return int(due.Sub(at).Hours() / 24)
}

func (e *Employee) UpdateStatus(at time.Time) UpdateStatus {
	switch {
	case e.IsOverdue(at):
		return UpdateStatusOverdue
	case !e.IsComplete():
		return UpdateStatusPending
	}
	return UpdateStatusCurrent
}
