// Package cached wraps the geocoding ports with a Redis read-through cache.
// Geocoding results for a fixed address or point are stable over days, and
// the public Nominatim instance is heavily rate-limited, so repeated checks
// for the same shop should not re-query the provider.
package cached

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"shopdir/internal/platform/config"
	"shopdir/internal/platform/redis"
	"shopdir/internal/verification/ports"
	"shopdir/pkg/geo"
)

// Geocoder decorates forward and reverse geocoders with caching. Cache
// failures degrade to a direct provider call, never to a request failure.
type Geocoder struct {
	forward ports.ForwardGeocoder
	reverse ports.ReverseGeocoder
	cache   *redis.Client
	logger  *slog.Logger
}

// New wraps the given geocoders. A nil cache client disables caching and
// passes every call through.
func New(forward ports.ForwardGeocoder, reverse ports.ReverseGeocoder, cache *redis.Client, logger *slog.Logger) *Geocoder {
	return &Geocoder{
		forward: forward,
		reverse: reverse,
		cache:   cache,
		logger:  logger,
	}
}

// ForwardGeocode serves the query from cache when possible.
func (g *Geocoder) ForwardGeocode(ctx context.Context, query string) (geo.Point, error) {
	key := forwardKey(query)

	var point geo.Point
	if g.cacheGet(ctx, key, &point) {
		return point, nil
	}

	point, err := g.forward.ForwardGeocode(ctx, query)
	if err != nil {
		return geo.Point{}, err
	}
	g.cacheSet(ctx, key, point)
	return point, nil
}

// ReverseGeocode serves the point from cache when possible.
func (g *Geocoder) ReverseGeocode(ctx context.Context, point geo.Point) (ports.Address, error) {
	key := reverseKey(point)

	var addr ports.Address
	if g.cacheGet(ctx, key, &addr) {
		return addr, nil
	}

	addr, err := g.reverse.ReverseGeocode(ctx, point)
	if err != nil {
		return ports.Address{}, err
	}
	g.cacheSet(ctx, key, addr)
	return addr, nil
}

func (g *Geocoder) cacheGet(ctx context.Context, key string, out any) bool {
	if g.cache == nil {
		return false
	}
	raw, err := g.cache.Get(ctx, key).Bytes()
	if err != nil {
		if g.logger != nil && !isCacheMiss(err) {
			g.logger.WarnContext(ctx, "geocode cache read failed", "key", key, "error", err)
		}
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

func (g *Geocoder) cacheSet(ctx context.Context, key string, v any) {
	if g.cache == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := g.cache.Set(ctx, key, raw, config.GeocodeCacheTTL).Err(); err != nil && g.logger != nil {
		g.logger.WarnContext(ctx, "geocode cache write failed", "key", key, "error", err)
	}
}

func isCacheMiss(err error) bool {
	return errors.Is(err, goredis.Nil)
}

func forwardKey(query string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(query))))
	return "geocode:fwd:" + hex.EncodeToString(sum[:8])
}

func reverseKey(point geo.Point) string {
	// Round to ~1m so float jitter does not fragment the cache.
	return fmt.Sprintf("geocode:rev:%.5f,%.5f", point.Lat, point.Lon)
}
