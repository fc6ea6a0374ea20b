package rediscache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/application/lots"
	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/domain/entity"
)

var _ lots.AvailabilityCache = (*AvailabilityCache)(nil)

// NewClient crea y valida la conexión go-redis.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}

// AvailabilityCache cachea el resumen de disponibilidad por producto con TTL
// corto. El cache es best-effort: un fallo de Redis degrada a leer la BD,
// nunca rompe la petición.
type AvailabilityCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewAvailabilityCache construye el cache.
func NewAvailabilityCache(rdb *redis.Client, ttl time.Duration) *AvailabilityCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &AvailabilityCache{rdb: rdb, ttl: ttl}
}

func key(productID string) string {
	return "availability:" + productID
}

// Get devuelve el resumen cacheado si existe.
func (c *AvailabilityCache) Get(ctx context.Context, productID string) (*entity.ProductAvailability, bool) {
	raw, err := c.rdb.Get(ctx, key(productID)).Bytes()
	if err != nil {
		return nil, false
	}
	var v entity.ProductAvailability
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false
	}
	return &v, true
}

// Set guarda el resumen con TTL.
func (c *AvailabilityCache) Set(ctx context.Context, productID string, v *entity.ProductAvailability) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, key(productID), raw, c.ttl).Err()
}

// Invalidate borra la entrada del producto tras cualquier escritura a sus lotes.
func (c *AvailabilityCache) Invalidate(ctx context.Context, productID string) {
	_ = c.rdb.Del(ctx, key(productID)).Err()
}
