package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kfinlab/ipo-calendar-backend/models"
	"github.com/kfinlab/ipo-calendar-backend/shared"
)

func TestCleanCompanyName(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"(주)테스트", "테스트"},
		{"㈜테스트", "테스트"},
		{"교보제17호스팩", "교보17호스팩"},
		{"  테스트  ", "테스트"},
		{"테스트", "테스트"},
	}

	for _, testCase := range testCases {
		assert.Equal(t, testCase.expected, CleanCompanyName(testCase.input), "input %q", testCase.input)
	}
}

// newTestEnricher points the enricher at a stub market API.
func newTestEnricher(serverURL string) *MarketEnricher {
	configuration := &EnricherConfiguration{
		SearchBaseURL:  serverURL + "/api/search",
		QuoteBaseURL:   serverURL + "/api/quotes",
		Referer:        serverURL + "/",
		RequestTimeout: 2 * time.Second,
	}
	return NewMarketEnricher(configuration, shared.NewHTTPClientFactory(2*time.Second))
}

func newMarketStub(t *testing.T, codes map[string]string, prices map[string]float64) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/search", func(w http.ResponseWriter, r *http.Request) {
		code, ok := codes[r.URL.Query().Get("q")]
		if !ok {
			fmt.Fprint(w, `{"suggestItems":[]}`)
			return
		}
		fmt.Fprintf(w, `{"suggestItems":[{"symbolCode":%q,"koreanName":"상장명"}]}`, code)
	})
	mux.HandleFunc("/api/quotes/", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Path[len("/api/quotes/"):]
		price, ok := prices[code]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, `{"tradePrice":%g}`, price)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestFetchStockCodeFirstSuggestionWins(t *testing.T) {
	server := newMarketStub(t, map[string]string{"테스트": "A012345"}, nil)
	enricher := newTestEnricher(server.URL)

	code := enricher.FetchStockCode(context.Background(), "(주)테스트")
	require.NotNil(t, code)
	assert.Equal(t, "A012345", *code)
}

func TestFetchStockCodeNoSuggestion(t *testing.T) {
	server := newMarketStub(t, nil, nil)
	enricher := newTestEnricher(server.URL)

	assert.Nil(t, enricher.FetchStockCode(context.Background(), "없는기업"))
}

func TestFetchTradePrice(t *testing.T) {
	server := newMarketStub(t, nil, map[string]float64{"A012345": 15000})
	enricher := newTestEnricher(server.URL)

	price := enricher.FetchTradePrice(context.Background(), "A012345")
	require.NotNil(t, price)
	assert.Equal(t, float64(15000), *price)
}

func TestEnrichAllPopulatesCompletedEntities(t *testing.T) {
	server := newMarketStub(t,
		map[string]string{"성공기업": "A012345"},
		map[string]float64{"A012345": 15000},
	)
	enricher := newTestEnricher(server.URL)

	confirmed := "12,000"
	success := &models.IPO{Name: "성공기업", Status: models.IPOStatusCompleted, ConfirmedPrice: &confirmed}
	missing := &models.IPO{Name: "실패기업", Status: models.IPOStatusCompleted, ConfirmedPrice: &confirmed}

	enricher.EnrichAll(context.Background(), []*models.IPO{success, missing})

	require.NotNil(t, success.StockCode)
	assert.Equal(t, "A012345", *success.StockCode)
	require.NotNil(t, success.CurrentPrice)
	assert.Equal(t, "15,000", *success.CurrentPrice)
	require.NotNil(t, success.ProfitRate)
	assert.Equal(t, "25.00", *success.ProfitRate)

	// One failed lookup must not disturb the others.
	assert.Nil(t, missing.StockCode)
	assert.Nil(t, missing.CurrentPrice)
	assert.Nil(t, missing.ProfitRate)
}

func TestEnrichOneWithoutConfirmedPriceSkipsProfit(t *testing.T) {
	server := newMarketStub(t,
		map[string]string{"무확정": "B054321"},
		map[string]float64{"B054321": 9000},
	)
	enricher := newTestEnricher(server.URL)

	entity := &models.IPO{Name: "무확정", Status: models.IPOStatusCompleted}
	enricher.EnrichAll(context.Background(), []*models.IPO{entity})

	require.NotNil(t, entity.CurrentPrice)
	assert.Equal(t, "9,000", *entity.CurrentPrice)
	assert.Nil(t, entity.ProfitRate)
}

func TestFormatPriceUsesThousandsSeparators(t *testing.T) {
	server := newMarketStub(t, nil, nil)
	enricher := newTestEnricher(server.URL)

	assert.Equal(t, "15,000", enricher.FormatPrice(15000))
	assert.Equal(t, "1,234,567", enricher.FormatPrice(1234567))
	assert.Equal(t, "999", enricher.FormatPrice(999))
}

func TestFetchStockCodeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	enricher := newTestEnricher(server.URL)
	assert.Nil(t, enricher.FetchStockCode(context.Background(), "테스트"))
}
