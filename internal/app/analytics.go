package app

import (
	"math"
	"sort"
	"time"

	"github.com/proSamik/airbnb-analytics/internal/domain"
)

const (
	occupancyMonths = 5
	rateWindowDays  = 30
)

// startOfDay maps t to midnight UTC of its calendar date, the same instant record dates parse to.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CalculateMonthlyOccupancy reports the booked share per month for dates in
// [today, today+5 months], sorted by month.
func CalculateMonthlyOccupancy(data []domain.BookingRecord, now time.Time) []domain.MonthlyOccupancy {
	type tally struct{ booked, total int }
	stats := make(map[string]tally)

	from := startOfDay(now)
	to := from.AddDate(0, occupancyMonths, 0)

	for _, b := range data {
		d, err := time.Parse(domain.DateLayout, b.Date)
		if err != nil {
			continue
		}
		if d.Before(from) || d.After(to) {
			continue
		}
		month := d.Format("2006-01")
		st := stats[month]
		st.total++
		if b.IsBooked {
			st.booked++
		}
		stats[month] = st
	}

	out := make([]domain.MonthlyOccupancy, 0, len(stats))
	for month, st := range stats {
		out = append(out, domain.MonthlyOccupancy{
			Month:               month,
			OccupancyPercentage: truncCents(float64(st.booked) / float64(st.total) * 100),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// CalculateRateAnalytics summarises rates dated within [today, today+30 days].
// All figures are zero when nothing falls in the window.
func CalculateRateAnalytics(data []domain.BookingRecord, now time.Time) domain.RateAnalytics {
	from := startOfDay(now)
	to := from.AddDate(0, 0, rateWindowDays)

	var (
		n                    int
		sum, highest, lowest float64
	)
	for _, b := range data {
		d, err := time.Parse(domain.DateLayout, b.Date)
		if err != nil || d.Before(from) || d.After(to) {
			continue
		}
		if n == 0 || b.Rate > highest {
			highest = b.Rate
		}
		if n == 0 || b.Rate < lowest {
			lowest = b.Rate
		}
		sum += b.Rate
		n++
	}
	if n == 0 {
		return domain.RateAnalytics{}
	}
	return domain.RateAnalytics{
		AverageRate: truncCents(sum / float64(n)),
		HighestRate: truncCents(highest),
		LowestRate:  truncCents(lowest),
	}
}

// truncCents drops everything past the second decimal. The epsilon keeps values that are
// already at two decimals (123.45 is 12344.999... after scaling) from losing a cent.
func truncCents(v float64) float64 {
	return math.Trunc(v*100+1e-9) / 100
}
