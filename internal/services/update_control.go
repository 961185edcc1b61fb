package services

import (
	"context"
	"math"
	"time"

	"github.com/hr-portal/app-employee-data/internal/models"
	"github.com/hr-portal/app-employee-data/internal/utils"
)

// UpdateStatistics summarizes the annual update state of every employee
type UpdateStatistics struct {
	Total       int `json:"total"`
	Current     int `json:"current"`
	Pending     int `json:"pending"`
	Overdue     int `json:"overdue"`
	NeedsUpdate int `json:"needs_update"`
	DueSoon     int `json:"due_soon"`
	DueSoonDays int `json:"due_soon_days"`

	CurrentPercentage float64 `json:"current_percentage"`
	OverduePercentage float64 `json:"overdue_percentage"`

	GeneratedAt time.Time `json:"generated_at"`
}

// ComputeUpdateStatistics classifies every stored employee at the given
// instant. dueSoonDays falls back to DefaultDueSoonDays when not positive.
func ComputeUpdateStatistics(ctx context.Context, repo EmployeeRepository, at time.Time, dueSoonDays int) (*UpdateStatistics, error) {
	ctx, span, cleanup := utils.TraceOperation(ctx, "employee.update_statistics", nil)
	defer cleanup()

	q := EmployeeQuery{At: at, DueWithinDays: dueSoonDays}.withDefaults()
	employees, err := repo.FindAll(ctx)
	if err != nil {
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"operation": "find_all"})
		return nil, err
	}

	stats := &UpdateStatistics{
		Total:       len(employees),
		DueSoonDays: q.DueWithinDays,
		GeneratedAt: q.At,
	}
	for _, e := range employees {
		switch e.UpdateStatus(q.At) {
		case models.UpdateStatusOverdue:
			stats.Overdue++
		case models.UpdateStatusPending:
			stats.Pending++
		default:
			stats.Current++
		}
		if e.NeedsUpdate(q.At) {
			stats.NeedsUpdate++
		}
		if e.DueWithin(q.At, q.DueWithinDays) {
			stats.DueSoon++
		}
	}
	stats.CurrentPercentage = percentage(stats.Current, stats.Total)
	stats.OverduePercentage = percentage(stats.Overdue, stats.Total)

	utils.AddSpanAttribute(span, "employees.total", stats.Total)
	utils.AddSpanAttribute(span, "employees.overdue", stats.Overdue)
	return stats, nil
}

// percentage rounds to two decimals; an empty population is 0
func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*10000) / 100
}
