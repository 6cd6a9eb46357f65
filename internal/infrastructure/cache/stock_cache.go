// Package cache implementa el caché de disponibilidad sobre Redis.
// Es una capa best-effort: cualquier fallo de Redis se registra y degrada
// a lectura directa de base de datos, nunca a error del caso de uso.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Suministros-api/internal/application/fulfillment"
	"github.com/jhoicas/Suministros-api/pkg/logger"
)

var _ fulfillment.StockLevelCache = (*StockCache)(nil)

// StockCache cachea disponibilidad por (ubicación, artículo) en Redis.
type StockCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

func NewStockCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *StockCache {
	return &StockCache{client: client, ttl: ttl, log: log}
}

func key(locationID, itemID string) string {
	return fmt.Sprintf("stock:available:%s:%s", locationID, itemID)
}

func (c *StockCache) GetAvailable(ctx context.Context, locationID, itemID string) (int64, bool) {
	val, err := c.client.Get(ctx, key(locationID, itemID)).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Msg("caché de stock: fallo de lectura")
		}
		return 0, false
	}
	qty, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return qty, true
}

func (c *StockCache) SetAvailable(ctx context.Context, locationID, itemID string, qty int64) {
	if err := c.client.Set(ctx, key(locationID, itemID), strconv.FormatInt(qty, 10), c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Msg("caché de stock: fallo de escritura")
	}
}

// Invalidate borra las entradas de los artículos tocados tras un movimiento de stock.
func (c *StockCache) Invalidate(ctx context.Context, locationID string, itemIDs ...string) {
	if len(itemIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(itemIDs))
	for _, itemID := range itemIDs {
		keys = append(keys, key(locationID, itemID))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn().Err(err).Msg("caché de stock: fallo de invalidación")
	}
}

// NopStockCache es la variante deshabilitada (REDIS_ADDR vacío): siempre miss.
type NopStockCache struct{}

var _ fulfillment.StockLevelCache = NopStockCache{}

func (NopStockCache) GetAvailable(ctx context.Context, locationID, itemID string) (int64, bool) {
	return 0, false
}
func (NopStockCache) SetAvailable(ctx context.Context, locationID, itemID string, qty int64) {}
func (NopStockCache) Invalidate(ctx context.Context, locationID string, itemIDs ...string)   {}
