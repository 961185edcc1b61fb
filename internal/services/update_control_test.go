package services

import (
	"context"
	"testing"
	"time"

	"github.com/hr-portal/app-employee-data/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var controlNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func documentsOf(list []*models.Employee) []string {
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.Document().String()
	}
	return out
}

// seedUpdateHistory stores one employee per document, last changed at the
// given instant. Complete ones also carry contact and housing sections.
func seedUpdateHistory(t *testing.T, complete map[string]bool, updated map[string]time.Time) *MemoryEmployeeRepository {
	t.Helper()
	ctx := context.Background()
	repo := NewMemoryEmployeeRepository()
	for doc, at := range updated {
		repo.now = func() time.Time { return at }
		e := savedEmployee(t, repo, doc)
		if complete[doc] {
			contact, err := contactData().Build()
			require.NoError(t, err)
			housing, err := housingData().Build()
			require.NoError(t, err)
			e.SetContactInfo(contact)
			e.SetHousingInfo(housing)
			require.NoError(t, repo.Update(ctx, e))
		}
	}
	return repo
}

func updateHistory(t *testing.T) *MemoryEmployeeRepository {
	return seedUpdateHistory(t,
		map[string]bool{"1000001": true, "1000002": true, "1000003": true},
		map[string]time.Time{
			"1000001": controlNow.AddDate(0, -2, 0),  // current
			"1000002": controlNow.AddDate(-1, 0, 10), // current, due in ten days
			"1000003": controlNow.AddDate(-1, -1, 0), // overdue
			"1000004": controlNow.AddDate(0, 0, -3),  // pending
			"1000005": controlNow.AddDate(-2, 0, 0),  // incomplete and overdue
		})
}

func TestFindNotUpdatedSince(t *testing.T) {
	repo := updateHistory(t)

	got, err := repo.FindNotUpdatedSince(context.Background(), controlNow.AddDate(-1, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, []string{"1000003", "1000005"}, documentsOf(got))

	got, err = repo.FindNotUpdatedSince(context.Background(), controlNow.AddDate(0, -2, 0))
	require.NoError(t, err)
	assert.Equal(t, []string{"1000001", "1000002", "1000003", "1000005"}, documentsOf(got), "the cutoff is inclusive")
}

func TestFindEmployees_UpdateDeadlines(t *testing.T) {
	ctx := context.Background()
	repo := updateHistory(t)

	got, err := FindEmployees(ctx, repo, EmployeeQuery{Filter: FilterOverdue, At: controlNow})
	require.NoError(t, err)
	assert.Equal(t, []string{"1000003", "1000005"}, documentsOf(got))

	got, err = FindEmployees(ctx, repo, EmployeeQuery{Filter: FilterDueSoon, At: controlNow})
	require.NoError(t, err)
	assert.Equal(t, []string{"1000002"}, documentsOf(got))

	got, err = FindEmployees(ctx, repo, EmployeeQuery{Filter: FilterDueSoon, At: controlNow, DueWithinDays: 5})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = FindEmployees(ctx, repo, EmployeeQuery{Filter: FilterDueSoon, At: controlNow, DueWithinDays: 365})
	require.NoError(t, err)
	assert.Equal(t, []string{"1000001", "1000002", "1000004"}, documentsOf(got))

	got, err = FindEmployees(ctx, repo, EmployeeQuery{Filter: FilterOverdue, Department: "Finance", At: controlNow})
	require.NoError(t, err)
	assert.Equal(t, []string{"1000003", "1000005"}, documentsOf(got))
}

func TestComputeUpdateStatistics(t *testing.T) {
	stats, err := ComputeUpdateStatistics(context.Background(), updateHistory(t), controlNow, 0)
	require.NoError(t, err)

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 2, stats.Current)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 2, stats.Overdue)
	assert.Equal(t, 3, stats.NeedsUpdate)
	assert.Equal(t, 1, stats.DueSoon)
	assert.Equal(t, DefaultDueSoonDays, stats.DueSoonDays)
	assert.Equal(t, 40.0, stats.CurrentPercentage)
	assert.Equal(t, 40.0, stats.OverduePercentage)
	assert.Equal(t, controlNow, stats.GeneratedAt)

	t.Run("empty repository", func(t *testing.T) {
		stats, err := ComputeUpdateStatistics(context.Background(), NewMemoryEmployeeRepository(), controlNow, 7)
		require.NoError(t, err)
		assert.Zero(t, stats.Total)
		assert.Zero(t, stats.CurrentPercentage)
		assert.Equal(t, 7, stats.DueSoonDays)
	})
}

func TestParseEmployeeFilter_UpdateDeadlines(t *testing.T) {
	f, ok := ParseEmployeeFilter("Overdue")
	assert.True(t, ok)
	assert.Equal(t, FilterOverdue, f)

	f, ok = ParseEmployeeFilter("due_soon")
	assert.True(t, ok)
	assert.Equal(t, FilterDueSoon, f)
}
