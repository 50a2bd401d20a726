package jsonfile

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/proSamik/airbnb-analytics/internal/domain"
)

// Store is an immutable, in-memory RoomRepository over a loaded dataset.
type Store struct {
	rooms map[string][]domain.BookingRecord
	ids   []string
}

func NewStore(ds domain.Dataset) *Store {
	ids := make([]string, 0, len(ds.Rooms))
	for id := range ds.Rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return &Store{rooms: ds.Rooms, ids: ids}
}

// Open reads path and wraps it in a Store.
func Open(path string) (*Store, error) {
	ds, err := Read(path)
	if err != nil {
		return nil, err
	}
	return NewStore(ds), nil
}

func (s *Store) ListRoomIDs(ctx context.Context) ([]string, error) {
	return slices.Clone(s.ids), nil
}

func (s *Store) AllRooms(ctx context.Context) (map[string][]domain.BookingRecord, error) {
	out := make(map[string][]domain.BookingRecord, len(s.rooms))
	for id, rs := range s.rooms {
		out[id] = slices.Clone(rs)
	}
	return out, nil
}

func (s *Store) GetRoom(ctx context.Context, roomID string) ([]domain.BookingRecord, error) {
	rs, ok := s.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("room %s: %w", roomID, domain.ErrNotFound)
	}
	return slices.Clone(rs), nil
}

// GetRoomData filters by calendar date; YYYY-MM-DD strings order the same way the dates do.
func (s *Store) GetRoomData(ctx context.Context, roomID string, from, to time.Time) ([]domain.BookingRecord, error) {
	rs, ok := s.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("room %s: %w", roomID, domain.ErrNotFound)
	}
	lo, hi := from.Format(domain.DateLayout), to.Format(domain.DateLayout)

	var out []domain.BookingRecord
	for _, r := range rs {
		if r.Date >= lo && r.Date <= hi {
			out = append(out, r)
		}
	}
	return out, nil
}
