package timezone

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"horarios/internal/geo"
)

const defaultCacheCapacity = 256

// Resolver maps a country name to its *time.Location by geocoding it and
// looking the coordinate up in a timezone service. Results are memoized:
// geocoding is network-bound and country→timezone is effectively constant.
//
// Resolve never fails from the caller's perspective; every failure path logs
// and falls back to UTC.
type Resolver struct {
	geocoder geo.Geocoder
	lookup   geo.TimezoneLookup
	logger   *zap.Logger

	capacity int
	mu       sync.RWMutex
	cache    map[string]*time.Location
	group    singleflight.Group
}

func NewResolver(geocoder geo.Geocoder, lookup geo.TimezoneLookup, capacity int, logger *zap.Logger) *Resolver {
	if capacity <= 0 {
		capacity = defaultCacheCapacity
	}
	return &Resolver{
		geocoder: geocoder,
		lookup:   lookup,
		logger:   logger,
		capacity: capacity,
		cache:    make(map[string]*time.Location),
	}
}

// Resolve returns the timezone for a country name, or UTC when anything in
// the chain fails. Concurrent calls for the same country share one lookup.
func (r *Resolver) Resolve(ctx context.Context, country string) *time.Location {
	key := strings.ToLower(strings.TrimSpace(country))
	if key == "" {
		return time.UTC
	}

	r.mu.RLock()
	loc, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return loc
	}

	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		return r.resolve(ctx, country, key), nil
	})
	if err != nil || v == nil {
		return time.UTC
	}
	return v.(*time.Location)
}

func (r *Resolver) resolve(ctx context.Context, country, key string) *time.Location {
	coords, err := r.geocoder.Geocode(ctx, country)
	if err != nil {
		r.logger.Warn("Geocoding failed, falling back to UTC",
			zap.String("country", country),
			zap.Error(err))
		return time.UTC
	}

	zoneName, err := r.lookup.TimezoneAt(ctx, coords)
	if err != nil {
		r.logger.Warn("Timezone lookup failed, falling back to UTC",
			zap.String("country", country),
			zap.Float64("lat", coords.Lat),
			zap.Float64("lng", coords.Lng),
			zap.Error(err))
		return time.UTC
	}

	loc, err := time.LoadLocation(zoneName)
	if err != nil {
		r.logger.Warn("Unknown IANA zone, falling back to UTC",
			zap.String("country", country),
			zap.String("zone", zoneName),
			zap.Error(err))
		return time.UTC
	}

	// Only successful resolutions are cached so a transient outage does not
	// pin UTC for the cache lifetime.
	r.store(key, loc)

	r.logger.Info("Resolved timezone",
		zap.String("country", country),
		zap.String("zone", zoneName))
	return loc
}

func (r *Resolver) store(key string, loc *time.Location) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.cache) >= r.capacity {
		// The country set is small in practice; dropping an arbitrary entry
		// keeps the bound without bookkeeping.
		for k := range r.cache {
			delete(r.cache, k)
			break
		}
	}
	r.cache[key] = loc
}
