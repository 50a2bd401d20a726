package app

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/proSamik/airbnb-analytics/internal/domain"
)

// Rand is the random source used by the generator. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// Clock returns the current time.
type Clock func() time.Time

func SystemClock() time.Time { return time.Now() }

func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// NewRand returns a PCG-backed source; seed 0 draws a fresh seed from the runtime.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}

type GenerationParams struct {
	Rooms             int
	Days              int
	RateMin           int
	RateMax           int
	VariationMin      float64
	VariationMax      float64
	BookedProbability float64
}

func DefaultParams() GenerationParams {
	return GenerationParams{
		Rooms:             10,
		Days:              7 * 30,
		RateMin:           80,
		RateMax:           200,
		VariationMin:      0.8,
		VariationMax:      1.2,
		BookedProbability: 0.6,
	}
}

// GenerateRoomID returns one uppercase letter followed by a number in [100, 999].
// Calls are independent; collisions are possible.
func GenerateRoomID(r Rand) string {
	letter := rune('A' + r.IntN(26))
	number := 100 + r.IntN(900)
	return fmt.Sprintf("%c%d", letter, number)
}

// GenerateDateRange lists every calendar day from now's date through the same day
// `days` later, inclusive.
func GenerateDateRange(now time.Time, days int) []string {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, days)

	dates := make([]string, 0, days+1)
	for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, 1) {
		dates = append(dates, cur.Format(domain.DateLayout))
	}
	return dates
}

// GenerateDataset draws all room ids first, then for each room its base rate followed by
// a (multiplier, booking) pair per date. It returns the dataset and the ids in draw order.
// A repeated id replaces the earlier room's records in the mapping.
func GenerateDataset(p GenerationParams, now time.Time, r Rand) (domain.Dataset, []string) {
	ids := make([]string, 0, p.Rooms)
	for i := 0; i < p.Rooms; i++ {
		ids = append(ids, GenerateRoomID(r))
	}
	dates := GenerateDateRange(now, p.Days)

	ds := domain.Dataset{Rooms: make(map[string][]domain.BookingRecord, len(ids))}
	for _, id := range ids {
		baseRate := p.RateMin + r.IntN(p.RateMax-p.RateMin+1)

		records := make([]domain.BookingRecord, 0, len(dates))
		for _, d := range dates {
			variation := p.VariationMin + r.Float64()*(p.VariationMax-p.VariationMin)
			rate := roundCents(float64(baseRate) * variation)
			booked := r.Float64() < p.BookedProbability
			records = append(records, domain.BookingRecord{Date: d, IsBooked: booked, Rate: rate})
		}
		ds.Rooms[id] = records
	}
	return ds, ids
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
