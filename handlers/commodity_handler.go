package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kfinlab/ipo-calendar-backend/models"
	"github.com/kfinlab/ipo-calendar-backend/services"
)

type CommodityProvider interface {
	FetchPrices(ctx context.Context) []models.CommodityPrice
}

type CommodityHandler struct {
	provider CommodityProvider
	cache    *services.SnapshotCache
	clock    services.Clock
	ttl      time.Duration
}

// NewCommodityHandler caches commodity quotes under a shorter TTL than the
// default snapshot TTL since prices move intraday.
func NewCommodityHandler(provider CommodityProvider, cache *services.SnapshotCache, clock services.Clock, ttl time.Duration) *CommodityHandler {
	if clock == nil {
		clock = services.SystemClock()
	}
	return &CommodityHandler{provider: provider, cache: cache, clock: clock, ttl: ttl}
}

func (h *CommodityHandler) GetPrices(c *fiber.Ctx) error {
	force := c.Query("force") == "true"

	if !force {
		if cached, storedAt, ok := h.cache.Get(services.SnapshotKeyCommodity); ok {
			if data, valid := cached.([]models.CommodityPrice); valid && len(data) > 0 {
				return c.JSON(fiber.Map{
					"source":     "cache",
					"updated_at": storedAt.UTC().Format(time.RFC3339),
					"data":       data,
				})
			}
		}
	}

	data := h.provider.FetchPrices(c.Context())
	if data == nil {
		data = []models.CommodityPrice{}
	}
	if len(data) > 0 {
		h.cache.SetWithTTL(services.SnapshotKeyCommodity, data, h.ttl)
	}

	return c.JSON(fiber.Map{
		"source":     "live",
		"updated_at": h.clock.Now().UTC().Format(time.RFC3339),
		"data":       data,
	})
}
