package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/kfinlab/ipo-calendar-backend/models"
	"github.com/kfinlab/ipo-calendar-backend/shared"
)

// CommodityConfig describes one tracked commodity: the API symbol plus the
// display metadata the API does not provide.
type CommodityConfig struct {
	Symbol   string
	Name     string
	NameEn   string
	Unit     string
	UnitFull string
	Icon     string
}

// DefaultCommodities is the fixed set of tracked spot prices.
var DefaultCommodities = []CommodityConfig{
	{Symbol: "micro_gold", Name: "금 (미니)", NameEn: "Micro Gold", Unit: "oz", UnitFull: "ounce", Icon: "🥇"},
	{Symbol: "micro_silver", Name: "은 (미니)", NameEn: "Micro Silver", Unit: "oz", UnitFull: "ounce", Icon: "🥈"},
	{Symbol: "natural_gas", Name: "천연가스", NameEn: "Natural Gas", Unit: "MMBtu", UnitFull: "MMBtu", Icon: "🔥"},
	{Symbol: "lumber", Name: "목재", NameEn: "Lumber", Unit: "bd ft", UnitFull: "board feet", Icon: "🪵"},
	{Symbol: "live_cattle", Name: "생우", NameEn: "Live Cattle", Unit: "lb", UnitFull: "pound", Icon: "🐄"},
	{Symbol: "orange_juice", Name: "오렌지주스", NameEn: "Orange Juice", Unit: "lb", UnitFull: "pound", Icon: "🍊"},
}

// CommodityConfiguration holds the price API parameters.
type CommodityConfiguration struct {
	BaseURL        string
	APIKey         string
	RequestTimeout time.Duration
	Commodities    []CommodityConfig
}

// NewDefaultCommodityConfiguration returns the API Ninjas endpoint with the
// default commodity set.
func NewDefaultCommodityConfiguration(apiKey string) *CommodityConfiguration {
	return &CommodityConfiguration{
		BaseURL:        "https://api.api-ninjas.com/v1/commodityprice",
		APIKey:         apiKey,
		RequestTimeout: 5 * time.Second,
		Commodities:    DefaultCommodities,
	}
}

// CommodityService fetches current spot prices for the configured
// commodities. All symbols are queried concurrently; failed symbols are
// dropped from the result rather than failing the batch.
type CommodityService struct {
	configuration *CommodityConfiguration
	httpClient    *http.Client
	clock         Clock
}

// NewCommodityService creates the fetcher. A nil configuration selects
// production defaults with no API key, which yields empty results.
func NewCommodityService(configuration *CommodityConfiguration, clientFactory *shared.HTTPClientFactory, clock Clock) *CommodityService {
	if configuration == nil {
		configuration = NewDefaultCommodityConfiguration("")
	}
	if configuration.RequestTimeout <= 0 {
		configuration.RequestTimeout = 5 * time.Second
	}
	if len(configuration.Commodities) == 0 {
		configuration.Commodities = DefaultCommodities
	}
	if clock == nil {
		clock = SystemClock()
	}

	return &CommodityService{
		configuration: configuration,
		httpClient:    clientFactory.Client(configuration.RequestTimeout),
		clock:         clock,
	}
}

type commodityAPIResponse struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	Unit     string  `json:"unit"`
}

// FetchPrices returns the quotes that could be fetched, in configuration
// order. Worst case is an empty slice.
func (s *CommodityService) FetchPrices(ctx context.Context) []models.CommodityPrice {
	logger := logrus.WithField("component", "CommodityService")

	if s.configuration.APIKey == "" {
		logger.Error("Commodity API key not configured, returning empty result")
		return []models.CommodityPrice{}
	}

	fetched := make([]*models.CommodityPrice, len(s.configuration.Commodities))

	group, groupCtx := errgroup.WithContext(ctx)
	for index, commodity := range s.configuration.Commodities {
		index, commodity := index, commodity
		group.Go(func() error {
			fetched[index] = s.fetchOne(groupCtx, commodity)
			return nil
		})
	}
	_ = group.Wait()

	prices := make([]models.CommodityPrice, 0, len(fetched))
	for _, price := range fetched {
		if price != nil {
			prices = append(prices, *price)
		}
	}

	logger.WithFields(logrus.Fields{
		"fetched":    len(prices),
		"configured": len(s.configuration.Commodities),
	}).Info("Fetched commodity prices")

	return prices
}

func (s *CommodityService) fetchOne(ctx context.Context, commodity CommodityConfig) *models.CommodityPrice {
	requestURL := fmt.Sprintf("%s?name=%s", s.configuration.BaseURL, url.QueryEscape(commodity.Symbol))

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		shared.NewStageError(shared.ErrorCategoryNetwork, "commodity", "build request "+commodity.Symbol, err).LogError()
		return nil
	}
	request.Header.Set("X-Api-Key", s.configuration.APIKey)
	request.Header.Set("Accept", "application/json")

	response, err := s.httpClient.Do(request)
	if err != nil {
		shared.NewStageError(shared.ErrorCategoryNetwork, "commodity", "fetch "+commodity.Symbol, err).LogError()
		return nil
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		shared.NewStageError(shared.ErrorCategoryNetwork, "commodity", fmt.Sprintf("fetch %s: status %d", commodity.Symbol, response.StatusCode), nil).LogError()
		return nil
	}

	var decoded commodityAPIResponse
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		shared.NewStageError(shared.ErrorCategoryDecode, "commodity", "decode "+commodity.Symbol, err).LogError()
		return nil
	}

	currency := decoded.Currency
	if currency == "" {
		currency = "USD"
	}

	return &models.CommodityPrice{
		Symbol:    commodity.Symbol,
		Name:      commodity.Name,
		NameEn:    commodity.NameEn,
		Price:     decoded.Price,
		Currency:  currency,
		Unit:      commodity.Unit,
		UnitFull:  commodity.UnitFull,
		Icon:      commodity.Icon,
		UpdatedAt: s.clock.Now().UTC(),
	}
}
