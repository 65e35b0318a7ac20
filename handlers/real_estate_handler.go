package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kfinlab/ipo-calendar-backend/models"
	"github.com/kfinlab/ipo-calendar-backend/services"
)

type RealEstateProvider interface {
	FetchSubscriptions(ctx context.Context) []models.RealEstateSubscription
}

type RealEstateHandler struct {
	provider RealEstateProvider
	cache    *services.SnapshotCache
	clock    services.Clock
	ttl      time.Duration
}

func NewRealEstateHandler(provider RealEstateProvider, cache *services.SnapshotCache, clock services.Clock, ttl time.Duration) *RealEstateHandler {
	if clock == nil {
		clock = services.SystemClock()
	}
	return &RealEstateHandler{provider: provider, cache: cache, clock: clock, ttl: ttl}
}

func (h *RealEstateHandler) GetSubscriptions(c *fiber.Ctx) error {
	force := c.Query("force") == "true"

	if !force {
		if cached, storedAt, ok := h.cache.Get(services.SnapshotKeyRealEstate); ok {
			if data, valid := cached.([]models.RealEstateSubscription); valid && len(data) > 0 {
				return c.JSON(fiber.Map{
					"source":     "cache",
					"updated_at": storedAt.UTC().Format(time.RFC3339),
					"data":       data,
				})
			}
		}
	}

	data := h.provider.FetchSubscriptions(c.Context())
	if data == nil {
		data = []models.RealEstateSubscription{}
	}
	if len(data) > 0 {
		h.cache.SetWithTTL(services.SnapshotKeyRealEstate, data, h.ttl)
	}

	return c.JSON(fiber.Map{
		"source":     "live",
		"updated_at": h.clock.Now().UTC().Format(time.RFC3339),
		"data":       data,
	})
}
