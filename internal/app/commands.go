package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/proSamik/airbnb-analytics/internal/adapters/observability"
	"github.com/proSamik/airbnb-analytics/internal/domain"
)

type GenerationService struct {
	out    domain.DatasetWriter
	params GenerationParams
	clock  Clock
	rnd    Rand
}

func NewGenerationService(w domain.DatasetWriter, p GenerationParams, clock Clock, rnd Rand) *GenerationService {
	if clock == nil {
		clock = SystemClock
	}
	return &GenerationService{out: w, params: p, clock: clock, rnd: rnd}
}

// Run builds a dataset, writes it in one piece and returns the room ids in generation order.
func (s *GenerationService) Run(ctx context.Context) ([]string, error) {
	now := s.clock()
	ds, ids := GenerateDataset(s.params, now, s.rnd)

	records := 0
	for _, rs := range ds.Rooms {
		records += len(rs)
	}
	log.Ctx(ctx).Info().
		Str("start", now.Format(domain.DateLayout)).
		Int("rooms", len(ds.Rooms)).
		Int("records", records).
		Msg("dataset generated")

	start := time.Now()
	err := s.out.WriteDataset(ctx, ds)
	observability.ObserveDatasetWrite(len(ds.Rooms), records, err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("write dataset: %w", err)
	}
	return ids, nil
}
