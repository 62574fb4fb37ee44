// File: internal/waitlist/stats.go
package waitlist

import (
	"time"

	"github.com/gosimple/slug"
)

// StatsWindowDays is how many days of daily signups are reported.
const StatsWindowDays = 7

// DailyCount is the number of signups on one UTC date.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Stats summarises the waitlist.
type Stats struct {
	Total      int            `json:"total"`
	Users      int            `json:"users"`
	Providers  int            `json:"providers"`
	DailyStats []DailyCount   `json:"dailyStats"`
	ByLocation map[string]int `json:"byLocation"`
}

// LocationSlug is the grouping key for a free-text location.
func LocationSlug(location string) string {
	s := slug.Make(location)
	if s == "" {
		return slug.Make(DefaultLocation)
	}
	return s
}

// ComputeStats builds Stats from records. Daily counts cover the StatsWindowDays
// UTC dates ending at now, oldest first.
func ComputeStats(records []Record, now time.Time) Stats {
	stats := Stats{
		Total:      len(records),
		DailyStats: make([]DailyCount, 0, StatsWindowDays),
		ByLocation: make(map[string]int),
	}

	perDay := make(map[string]int, StatsWindowDays)
	for _, r := range records {
		switch r.ServiceType {
		case ServiceUser:
			stats.Users++
		case ServiceProvider:
			stats.Providers++
		}
		perDay[r.CreatedAt.UTC().Format(time.DateOnly)]++
		stats.ByLocation[LocationSlug(r.Location)]++
	}

	today := now.UTC()
	for i := StatsWindowDays - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format(time.DateOnly)
		stats.DailyStats = append(stats.DailyStats, DailyCount{Date: date, Count: perDay[date]})
	}
	return stats
}
