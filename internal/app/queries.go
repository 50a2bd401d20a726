package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/proSamik/airbnb-analytics/internal/domain"
)

type QueryService struct {
	repo     domain.RoomRepository
	cache    domain.Cache
	cacheTTL time.Duration
	clock    Clock
}

// NewQueryService wires the read paths. A nil c or a ttl under one second disables caching;
// analytics keys carry the day, so entries without expiry would accumulate.
func NewQueryService(r domain.RoomRepository, c domain.Cache, ttl time.Duration, clock Clock) *QueryService {
	if clock == nil {
		clock = SystemClock
	}
	if c != nil && ttl < time.Second {
		log.Warn().Dur("ttl", ttl).Msg("cache ttl below one second, caching disabled")
		c = nil
	}
	return &QueryService{repo: r, cache: c, cacheTTL: ttl, clock: clock}
}

func (s *QueryService) ListRooms(ctx context.Context) ([]string, error) {
	return s.repo.ListRoomIDs(ctx)
}

func (s *QueryService) AllRooms(ctx context.Context) (map[string][]domain.BookingRecord, error) {
	return s.repo.AllRooms(ctx)
}

func (s *QueryService) GetRoom(ctx context.Context, id string) ([]domain.BookingRecord, error) {
	return s.repo.GetRoom(ctx, id)
}

// GetAnalytics computes occupancy for the next five months and rate statistics for the next
// thirty days. Results are cached per room and day.
func (s *QueryService) GetAnalytics(ctx context.Context, id string) (domain.AnalyticsResponse, error) {
	now := s.clock()
	today := startOfDay(now)
	key := fmt.Sprintf("analytics:%s:%s", id, today.Format(domain.DateLayout))

	var out domain.AnalyticsResponse
	if s.cache != nil {
		ok, err := s.cache.Get(ctx, key, &out)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		}
		if ok && err == nil {
			return out, nil
		}
	}

	data, err := s.repo.GetRoomData(ctx, id, today, today.AddDate(0, occupancyMonths, 0))
	if err != nil {
		return domain.AnalyticsResponse{}, err
	}
	if len(data) == 0 {
		return domain.AnalyticsResponse{}, fmt.Errorf("no data for room %s: %w", id, domain.ErrNotFound)
	}

	out = domain.AnalyticsResponse{
		RoomID:           id,
		MonthlyOccupancy: CalculateMonthlyOccupancy(data, now),
		RateAnalytics:    CalculateRateAnalytics(data, now),
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds())); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache set failed")
		}
	}
	return out, nil
}
