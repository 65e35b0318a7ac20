package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kfinlab/ipo-calendar-backend/models"
	"github.com/kfinlab/ipo-calendar-backend/services"
)

// IPOProvider produces one crawl's worth of IPO entities. It never fails;
// total upstream outage yields an empty slice.
type IPOProvider interface {
	Crawl(ctx context.Context) []models.IPO
}

// IPOHandler serves the IPO calendar snapshot with a TTL cache and a
// force-refresh escape hatch. The provider has no awareness of caching.
type IPOHandler struct {
	provider IPOProvider
	cache    *services.SnapshotCache
	clock    services.Clock
}

func NewIPOHandler(provider IPOProvider, cache *services.SnapshotCache, clock services.Clock) *IPOHandler {
	if clock == nil {
		clock = services.SystemClock()
	}
	return &IPOHandler{provider: provider, cache: cache, clock: clock}
}

// GetIPOCalendar returns the cached snapshot when fresh, otherwise crawls
// live. An empty live result is served but never overwrites a previously
// cached snapshot.
func (h *IPOHandler) GetIPOCalendar(c *fiber.Ctx) error {
	force := c.Query("force") == "true"

	if !force {
		if cached, storedAt, ok := h.cache.Get(services.SnapshotKeyIPO); ok {
			if data, valid := cached.([]models.IPOResponse); valid && len(data) > 0 {
				return c.JSON(fiber.Map{
					"source":     "cache",
					"updated_at": storedAt.UTC().Format(time.RFC3339),
					"data":       data,
				})
			}
		}
	}

	data := models.ToResponses(h.provider.Crawl(c.Context()))
	if len(data) > 0 {
		h.cache.Set(services.SnapshotKeyIPO, data)
	}

	return c.JSON(fiber.Map{
		"source":     "live",
		"updated_at": h.clock.Now().UTC().Format(time.RFC3339),
		"data":       data,
	})
}
