package domain

import (
	"context"
	"time"
)

type RoomRepository interface {
	ListRoomIDs(ctx context.Context) ([]string, error)
	AllRooms(ctx context.Context) (map[string][]BookingRecord, error)
	GetRoom(ctx context.Context, roomID string) ([]BookingRecord, error)
	// GetRoomData returns the records of one room dated within [from, to], both inclusive.
	GetRoomData(ctx context.Context, roomID string, from, to time.Time) ([]BookingRecord, error)
}

type DatasetWriter interface {
	WriteDataset(ctx context.Context, ds Dataset) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
}
