// utils/dates.go
package utils

import "time"

// BeginningOfDay returns midnight of t's day in t's location. Dashboard
// aggregates use it to bound "today" queries.
func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
