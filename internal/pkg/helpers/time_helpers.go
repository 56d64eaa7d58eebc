package helpers

import "time"

// StartOfDay truncates t to local midnight
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// MonthKey formats t as YYYY-MM
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// LastMonths returns the YYYY-MM keys of the n months ending with now's month, oldest first
func LastMonths(now time.Time, n int) []string {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	keys := make([]string, n)
	for i := 0; i < n; i++ {
		keys[n-1-i] = MonthKey(first.AddDate(0, -i, 0))
	}
	return keys
}
