package models

import (
	"strings"
	"time"
)

// DateLayout is the ISO-8601 calendar date used in every outbound projection
const DateLayout = "2006-01-02"

// timeNow is the clock used for age and "not in the future" checks
var timeNow = time.Now

func today() time.Time {
	return truncateDay(timeNow())
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts YYYY-MM-DD or RFC3339 and returns the UTC calendar date
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return truncateDay(t), nil
}

// FormatDate renders a calendar date as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// AgeAt computes the number of whole years between birth and at
func AgeAt(birth, at time.Time) int {
	age := at.Year() - birth.Year()
	if at.Month() < birth.Month() || (at.Month() == birth.Month() && at.Day() < birth.Day()) {
		age--
	}
	return age
}

// parseDateField parses a required date, recording violations in errs
func parseDateField(errs *ValidationErrors, field, raw string) (time.Time, bool) {
	if strings.TrimSpace(raw) == "" {
		errs.Add(KindMissingRequiredField, field, "is required")
		return time.Time{}, false
	}
	t, err := ParseDate(raw)
	if err != nil {
		errs.Add(KindInvalidFormat, field, "must be a date in YYYY-MM-DD format")
		return time.Time{}, false
	}
	return t, true
}

// parseOptionalDateField parses a date that may be absent
func parseOptionalDateField(errs *ValidationErrors, field string, raw *string) (*time.Time, bool) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, true
	}
	t, ok := parseDateField(errs, field, *raw)
	if !ok {
		return nil, false
	}
	return &t, true
}

func checkNotFuture(errs *ValidationErrors, field string, t time.Time) {
	if truncateDay(t).After(today()) {
		errs.Add(KindRangeViolation, field, "cannot be in the future")
	}
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatDate(*t)
	return &s
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}

func datesEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// parseValue runs a value constructor and records its failure under field
func parseValue[In, T any](errs *ValidationErrors, field string, parse func(In) (T, error), raw In) T {
	v, err := parse(raw)
	if err != nil {
		errs.Merge(field, err)
	}
	return v
}

// parseOptionalValue treats a blank string as absent
func parseOptionalValue[T any](errs *ValidationErrors, field string, parse func(string) (T, error), raw string) T {
	var zero T
	if strings.TrimSpace(raw) == "" {
		return zero
	}
	return parseValue(errs, field, parse, raw)
}
