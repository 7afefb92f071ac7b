package store

import (
	"sort"

	"github.com/pbaille/nomi/internal/domain"
)

// GroupByDate buckets entries by their Date, keeping insertion order inside
// each bucket.
func GroupByDate(entries []domain.Entry) map[string][]domain.Entry {
	grouped := make(map[string][]domain.Entry)
	for _, e := range entries {
		grouped[e.Date] = append(grouped[e.Date], e)
	}
	return grouped
}

// SortedDates returns the group keys, most recent date first. Dates are
// YYYY-MM-DD so lexical order is calendar order.
func SortedDates(grouped map[string][]domain.Entry) []string {
	dates := make([]string, 0, len(grouped))
	for d := range grouped {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates
}

// History groups entries by date in display order.
func History(entries []domain.Entry) []domain.DateGroup {
	grouped := GroupByDate(entries)
	days := make([]domain.DateGroup, 0, len(grouped))
	for _, d := range SortedDates(grouped) {
		days = append(days, domain.DateGroup{Date: d, Entries: grouped[d]})
	}
	return days
}
