package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/kfinlab/ipo-calendar-backend/models"
	"github.com/kfinlab/ipo-calendar-backend/shared"
)

// EnricherConfiguration holds the secondary-market source endpoints.
type EnricherConfiguration struct {
	SearchBaseURL  string        // Name-search endpoint, ranked suggestions
	QuoteBaseURL   string        // Quote endpoint, current trade price
	Referer        string        // The quote API rejects requests without it
	RequestTimeout time.Duration // Per-call bound; the only cancellation mechanism
}

// NewDefaultEnricherConfiguration returns the Daum Finance endpoints.
func NewDefaultEnricherConfiguration() *EnricherConfiguration {
	return &EnricherConfiguration{
		SearchBaseURL:  "https://finance.daum.net/api/search",
		QuoteBaseURL:   "https://finance.daum.net/api/quotes",
		Referer:        "https://finance.daum.net/",
		RequestTimeout: 5 * time.Second,
	}
}

// MarketEnricher resolves completed IPO entities to their secondary-market
// listing: company name to trading symbol by fuzzy name search, symbol to
// current trade price. Every lookup is independently fault-tolerant; a
// failed entity is simply left without enrichment fields.
type MarketEnricher struct {
	configuration *EnricherConfiguration
	httpClient    *http.Client
	printer       *message.Printer
}

// NewMarketEnricher creates an enricher. A nil configuration selects the
// production endpoints.
func NewMarketEnricher(configuration *EnricherConfiguration, clientFactory *shared.HTTPClientFactory) *MarketEnricher {
	if configuration == nil {
		configuration = NewDefaultEnricherConfiguration()
	}
	if configuration.RequestTimeout <= 0 {
		configuration.RequestTimeout = 5 * time.Second
	}

	return &MarketEnricher{
		configuration: configuration,
		httpClient:    clientFactory.Client(configuration.RequestTimeout),
		printer:       message.NewPrinter(language.Korean),
	}
}

// corporateSuffixReplacer strips the decorations that differ between a
// company's IPO-stage name and its post-listing name: the "Inc." markers
// (주)/㈜ and the ordinal marker 제 (the source prints "교보제17호스팩", the
// market lists "교보17호스팩").
var corporateSuffixReplacer = strings.NewReplacer(
	"(주)", "",
	"㈜", "",
	"제", "",
)

// CleanCompanyName normalizes an IPO-stage company name into the form the
// secondary-market search understands.
func CleanCompanyName(name string) string {
	return strings.TrimSpace(corporateSuffixReplacer.Replace(name))
}

type searchSuggestion struct {
	SymbolCode string `json:"symbolCode"`
	KoreanName string `json:"koreanName"`
}

type searchResponse struct {
	SuggestItems []searchSuggestion `json:"suggestItems"`
}

type quoteResponse struct {
	TradePrice *float64 `json:"tradePrice"`
}

// FetchStockCode resolves a company name to its trading symbol, taking the
// first ranked suggestion. Returns nil on any failure.
func (e *MarketEnricher) FetchStockCode(ctx context.Context, companyName string) *string {
	logger := logrus.WithFields(logrus.Fields{
		"component": "MarketEnricher",
		"company":   companyName,
	})

	cleaned := CleanCompanyName(companyName)
	searchURL := fmt.Sprintf("%s?q=%s", e.configuration.SearchBaseURL, url.QueryEscape(cleaned))

	var response searchResponse
	if err := e.fetchJSON(ctx, searchURL, &response); err != nil {
		shared.NewStageError(shared.ErrorCategoryEnrichment, "market_enricher", "symbol search for "+companyName, err).LogError()
		return nil
	}

	if len(response.SuggestItems) == 0 {
		logger.Debug("No symbol suggestion found")
		return nil
	}

	code := response.SuggestItems[0].SymbolCode
	logger.WithFields(logrus.Fields{
		"stock_code":  code,
		"listed_name": response.SuggestItems[0].KoreanName,
	}).Debug("Resolved trading symbol")
	return &code
}

// FetchTradePrice fetches the current trade price for a symbol. Returns nil
// on any failure.
func (e *MarketEnricher) FetchTradePrice(ctx context.Context, symbolCode string) *float64 {
	quoteURL := fmt.Sprintf("%s/%s", e.configuration.QuoteBaseURL, symbolCode)

	var response quoteResponse
	if err := e.fetchJSON(ctx, quoteURL, &response); err != nil {
		shared.NewStageError(shared.ErrorCategoryEnrichment, "market_enricher", "quote for "+symbolCode, err).LogError()
		return nil
	}

	return response.TradePrice
}

func (e *MarketEnricher) fetchJSON(ctx context.Context, requestURL string, target interface{}) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return err
	}
	shared.SetBrowserLikeHeaders(request, "application/json, text/plain, */*", e.configuration.Referer)

	response, err := e.httpClient.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", response.StatusCode)
	}

	return json.NewDecoder(response.Body).Decode(target)
}

// EnrichAll enriches every eligible entity concurrently, one task per
// entity. Tasks share no state beyond their own entity, so no locking is
// needed, and no failure aborts the stage: the worst outcome is entities
// without enrichment fields.
func (e *MarketEnricher) EnrichAll(ctx context.Context, entities []*models.IPO) {
	if len(entities) == 0 {
		return
	}

	logrus.WithFields(logrus.Fields{
		"component": "MarketEnricher",
		"entities":  len(entities),
	}).Info("Enriching completed IPOs with secondary-market prices")

	group, groupCtx := errgroup.WithContext(ctx)
	for _, entity := range entities {
		entity := entity
		group.Go(func() error {
			e.enrichOne(groupCtx, entity)
			return nil
		})
	}
	_ = group.Wait()
}

func (e *MarketEnricher) enrichOne(ctx context.Context, entity *models.IPO) {
	code := e.FetchStockCode(ctx, entity.Name)
	if code == nil {
		return
	}

	price := e.FetchTradePrice(ctx, *code)
	if price == nil {
		return
	}

	entity.StockCode = code
	formatted := e.FormatPrice(*price)
	entity.CurrentPrice = &formatted

	if entity.ConfirmedPrice == nil {
		return
	}
	confirmed, ok := parseLooseNumber(*entity.ConfirmedPrice)
	if !ok || confirmed <= 0 {
		return
	}

	profit := fmt.Sprintf("%.2f", (*price-confirmed)/confirmed*100)
	entity.ProfitRate = &profit
}

// FormatPrice renders a trade price with locale thousands separators.
func (e *MarketEnricher) FormatPrice(price float64) string {
	return e.printer.Sprintf("%v", number.Decimal(price))
}
