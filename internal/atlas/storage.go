package atlas

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sundialhq/sundial-platform/pkg/mqtt"
	"github.com/sundialhq/sundial-platform/pkg/redis"
)

const (
	// Clock snapshots go stale within a tick or two
	clockCacheTTL = 5 * time.Minute
	// Zone state only changes on scheme or pin changes; keep a day
	zoneCacheTTL = 24 * time.Hour
)

// Storage mirrors the agent's published state into Redis so late-joining
// consumers can read the current map without waiting for the next tick
type Storage struct {
	redis  redis.Client
	logger *slog.Logger
}

// NewStorage creates a new Redis state mirror
func NewStorage(redisClient redis.Client, logger *slog.Logger) *Storage {
	return &Storage{
		redis:  redisClient,
		logger: logger,
	}
}

// StoreClock caches one band's clock payload
func (s *Storage) StoreClock(ctx context.Context, bandLabel string, payload []byte) error {
	key := redis.ClockKey(mqtt.BandSegment(bandLabel))
	if err := s.redis.Set(ctx, key, payload, clockCacheTTL); err != nil {
		return fmt.Errorf("failed to cache clock for %s: %w", bandLabel, err)
	}
	return nil
}

// StoreTerminator caches the terminator payload with the configured TTL
func (s *Storage) StoreTerminator(ctx context.Context, payload []byte, ttl time.Duration) error {
	if err := s.redis.Set(ctx, redis.TerminatorKey(), payload, ttl); err != nil {
		return fmt.Errorf("failed to cache terminator: %w", err)
	}
	return nil
}

// StoreZones caches the zone layer payload
func (s *Storage) StoreZones(ctx context.Context, payload []byte) error {
	if err := s.redis.Set(ctx, redis.ZonesKey(), payload, zoneCacheTTL); err != nil {
		return fmt.Errorf("failed to cache zone state: %w", err)
	}
	return nil
}

// AddPin mirrors a pin into the Redis pin set
func (s *Storage) AddPin(ctx context.Context, bandLabel string) error {
	if err := s.redis.SAdd(ctx, redis.PinsKey(), bandLabel); err != nil {
		return fmt.Errorf("failed to mirror pin for %s: %w", bandLabel, err)
	}
	return nil
}

// RemovePin removes a pin from the Redis pin set
func (s *Storage) RemovePin(ctx context.Context, bandLabel string) error {
	if err := s.redis.SRem(ctx, redis.PinsKey(), bandLabel); err != nil {
		return fmt.Errorf("failed to remove pin mirror for %s: %w", bandLabel, err)
	}
	return nil
}

// SetHighlight mirrors the highlighted band; empty clears the key
func (s *Storage) SetHighlight(ctx context.Context, bandLabel string) error {
	if bandLabel == "" {
		if err := s.redis.Del(ctx, redis.HighlightKey()); err != nil {
			return fmt.Errorf("failed to clear highlight: %w", err)
		}
		return nil
	}
	if err := s.redis.Set(ctx, redis.HighlightKey(), bandLabel, 0); err != nil {
		return fmt.Errorf("failed to mirror highlight: %w", err)
	}
	return nil
}

// SetScheme mirrors the active scheme name
func (s *Storage) SetScheme(ctx context.Context, name string) error {
	if err := s.redis.Set(ctx, redis.SchemeKey(), name, 0); err != nil {
		return fmt.Errorf("failed to mirror scheme: %w", err)
	}
	return nil
}
