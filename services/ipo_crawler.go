package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/kfinlab/ipo-calendar-backend/config"
	"github.com/kfinlab/ipo-calendar-backend/models"
	"github.com/kfinlab/ipo-calendar-backend/shared"
)

// IPOCrawler orchestrates the full crawl pipeline: fetch the three listing
// pages, build and reconcile entities in the fixed merge order, enrich the
// completed subset with secondary-market prices, and return the final sorted
// list. Its contract with callers is "never fails": any unexpected failure
// is logged and converted into an empty result.
type IPOCrawler struct {
	fetcher  *ListingPageFetcher
	enricher *MarketEnricher
	window   config.CrawlWindow
	clock    Clock
}

// NewIPOCrawler wires the crawl pipeline.
func NewIPOCrawler(fetcher *ListingPageFetcher, enricher *MarketEnricher, window config.CrawlWindow, clock Clock) *IPOCrawler {
	if clock == nil {
		clock = SystemClock()
	}
	return &IPOCrawler{
		fetcher:  fetcher,
		enricher: enricher,
		window:   window,
		clock:    clock,
	}
}

// Crawl runs one full crawl pass. Worst case is an empty slice; it never
// panics and never returns an error.
func (c *IPOCrawler) Crawl(ctx context.Context) (result []models.IPO) {
	crawlID := uuid.New().String()[:8]
	logger := logrus.WithFields(logrus.Fields{
		"component": "IPOCrawler",
		"crawl_id":  crawlID,
	})

	defer func() {
		if recovered := recover(); recovered != nil {
			logger.WithField("panic", recovered).Error("Crawl pipeline panicked, returning empty result")
			result = []models.IPO{}
		}
	}()

	startTime := c.clock.Now()
	logger.Info("Starting IPO calendar crawl")

	resultRows, scheduleRows, subscriptionRows := c.fetchListings(ctx)

	// Merge is a strict sequential barrier: fetches may interleave, the
	// three build passes may not.
	set := NewEntitySet()
	now := c.clock.Now()
	BuildForecastResults(set, resultRows, c.window, now)
	BuildForecastSchedule(set, scheduleRows, c.window, now)
	BuildSubscriptionSchedule(set, subscriptionRows, c.window, now)

	completed := set.Completed()
	c.enricher.EnrichAll(ctx, completed)

	entities := set.All()
	sortBySchedule(entities)

	result = make([]models.IPO, 0, len(entities))
	for _, entity := range entities {
		result = append(result, *entity)
	}

	logger.WithFields(logrus.Fields{
		"result_rows":       len(resultRows),
		"schedule_rows":     len(scheduleRows),
		"subscription_rows": len(subscriptionRows),
		"entities":          len(result),
		"completed":         len(completed),
		"duration":          time.Since(startTime),
	}).Info("IPO calendar crawl completed")

	return result
}

// fetchListings fetches and extracts the three listing tables concurrently.
// Each fetch failure is absorbed as zero rows for that listing only.
func (c *IPOCrawler) fetchListings(ctx context.Context) ([]ForecastResultRow, []ForecastScheduleRow, []SubscriptionRow) {
	var resultRows []ForecastResultRow
	var scheduleRows []ForecastScheduleRow
	var subscriptionRows []SubscriptionRow

	group, _ := errgroup.WithContext(ctx)

	group.Go(func() error {
		document, err := c.fetcher.FetchForecastResults()
		if err != nil {
			logAbsorbed(err)
			return nil
		}
		resultRows = ExtractForecastResultRows(document)
		return nil
	})

	group.Go(func() error {
		document, err := c.fetcher.FetchForecastSchedule()
		if err != nil {
			logAbsorbed(err)
			return nil
		}
		scheduleRows = ExtractForecastScheduleRows(document)
		return nil
	})

	group.Go(func() error {
		document, err := c.fetcher.FetchSubscriptionSchedule()
		if err != nil {
			logAbsorbed(err)
			return nil
		}
		subscriptionRows = ExtractSubscriptionRows(document)
		return nil
	})

	_ = group.Wait()
	return resultRows, scheduleRows, subscriptionRows
}

func logAbsorbed(err error) {
	if stageErr, ok := err.(*shared.StageError); ok {
		stageErr.LogError()
		return
	}
	logrus.WithError(err).Warn("Listing fetch failure absorbed")
}

// sortBySchedule orders entities ascending by the parsed forecast-schedule
// start date. Entities without a parseable date sort at the Unix epoch.
func sortBySchedule(entities []*models.IPO) {
	sort.SliceStable(entities, func(i, j int) bool {
		return scheduleSortKey(entities[i]).Before(scheduleSortKey(entities[j]))
	})
}

func scheduleSortKey(entity *models.IPO) time.Time {
	if parsed := ParseScheduleStart(entity.ForecastSchedule); parsed != nil {
		return *parsed
	}
	return time.Unix(0, 0)
}
