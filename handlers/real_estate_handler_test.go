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

type stubRealEstateProvider struct {
	result []models.RealEstateSubscription
	calls  int
}

func (p *stubRealEstateProvider) FetchSubscriptions(ctx context.Context) []models.RealEstateSubscription {
	p.calls++
	return p.result
}

func newRealEstateTestApp(provider *stubRealEstateProvider, cache *services.SnapshotCache, clock services.Clock, ttl time.Duration) *fiber.App {
	app := fiber.New()
	handler := NewRealEstateHandler(provider, cache, clock, ttl)
	app.Get("/api/v1/real-estate", handler.GetSubscriptions)
	return app
}

func TestGetSubscriptionsCachesUnderOwnTTL(t *testing.T) {
	clock := &stubClock{now: time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)}
	cache := services.NewSnapshotCache(clock, time.Hour)
	provider := &stubRealEstateProvider{result: []models.RealEstateSubscription{{
		ID:     "2026000001",
		Name:   "테스트단지",
		Status: models.SubscriptionUpcoming,
	}}}
	app := newRealEstateTestApp(provider, cache, clock, 30*time.Minute)

	response, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/real-estate", nil))
	require.NoError(t, err)
	envelope := decodeEnvelope(t, response)
	assert.Equal(t, "live", envelope.Source)

	// Within the dedicated TTL the cache answers.
	clock.now = clock.now.Add(29 * time.Minute)
	response, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/real-estate", nil))
	require.NoError(t, err)
	envelope = decodeEnvelope(t, response)
	assert.Equal(t, "cache", envelope.Source)
	assert.Equal(t, 1, provider.calls)

	var entries []models.RealEstateSubscription
	require.NoError(t, json.Unmarshal(envelope.Data, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "테스트단지", entries[0].Name)

	// Past the dedicated TTL it refetches.
	clock.now = clock.now.Add(2 * time.Minute)
	response, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/real-estate", nil))
	require.NoError(t, err)
	envelope = decodeEnvelope(t, response)
	assert.Equal(t, "live", envelope.Source)
	assert.Equal(t, 2, provider.calls)
}

func TestGetSubscriptionsEmptyResultStaysEmptyJSONArray(t *testing.T) {
	clock := &stubClock{now: time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)}
	cache := services.NewSnapshotCache(clock, time.Hour)
	provider := &stubRealEstateProvider{}
	app := newRealEstateTestApp(provider, cache, clock, 30*time.Minute)

	response, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/real-estate", nil))
	require.NoError(t, err)

	envelope := decodeEnvelope(t, response)
	assert.Equal(t, "live", envelope.Source)
	assert.JSONEq(t, "[]", string(envelope.Data))

	// Nothing was cached; the next request fetches again.
	_, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/real-estate", nil))
	require.NoError(t, err)
	assert.Equal(t, 2, provider.calls)
}
