package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kfinlab/ipo-calendar-backend/models"
	"github.com/kfinlab/ipo-calendar-backend/services"
)

type stubCommodityProvider struct {
	result []models.CommodityPrice
	calls  int
}

func (p *stubCommodityProvider) FetchPrices(ctx context.Context) []models.CommodityPrice {
	p.calls++
	return p.result
}

func TestGetPricesShortTTL(t *testing.T) {
	clock := &stubClock{now: time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)}
	cache := services.NewSnapshotCache(clock, time.Hour)
	provider := &stubCommodityProvider{result: []models.CommodityPrice{{
		Symbol: "micro_gold",
		Name:   "금 (미니)",
		Price:  2045.3,
	}}}

	app := fiber.New()
	handler := NewCommodityHandler(provider, cache, clock, 10*time.Minute)
	app.Get("/api/v1/commodities", handler.GetPrices)

	response, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/commodities", nil))
	require.NoError(t, err)
	envelope := decodeEnvelope(t, response)
	assert.Equal(t, "live", envelope.Source)

	var entries []models.CommodityPrice
	require.NoError(t, json.Unmarshal(envelope.Data, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "micro_gold", entries[0].Symbol)

	// Quotes expire on the dedicated short TTL, not the default one.
	clock.now = clock.now.Add(11 * time.Minute)
	response, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/commodities", nil))
	require.NoError(t, err)
	envelope = decodeEnvelope(t, response)
	assert.Equal(t, "live", envelope.Source)
	assert.Equal(t, 2, provider.calls)
}

func TestGetPricesForceRefresh(t *testing.T) {
	clock := &stubClock{now: time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)}
	cache := services.NewSnapshotCache(clock, time.Hour)
	provider := &stubCommodityProvider{result: []models.CommodityPrice{{Symbol: "micro_gold"}}}

	app := fiber.New()
	handler := NewCommodityHandler(provider, cache, clock, 10*time.Minute)
	app.Get("/api/v1/commodities", handler.GetPrices)

	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/commodities", nil))
	require.NoError(t, err)

	response, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/commodities?force=true", nil))
	require.NoError(t, err)
	envelope := decodeEnvelope(t, response)
	assert.Equal(t, "live", envelope.Source)
	assert.Equal(t, 2, provider.calls)
}
