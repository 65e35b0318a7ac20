package services

import (
	"bytes"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/korean"

	"github.com/kfinlab/ipo-calendar-backend/shared"
)

// Listing page location. One base document, three query variants, each
// holding exactly one table identified by its summary attribute.
const (
	ListingBaseURL = "http://www.38.co.kr/html/fund/index.htm"

	queryForecastResults      = "?o=r1"
	queryForecastSchedule     = "?o=r"
	querySubscriptionSchedule = "?o=k"
)

// ListingPageFetcher retrieves one listing page over HTTP and decodes it
// from the site's legacy EUC-KR encoding into a queryable document. Any
// network, timeout, or decode failure is returned as a categorized error;
// callers treat a failed fetch as zero rows, never as fatal.
type ListingPageFetcher struct {
	baseURL        string
	requestTimeout time.Duration
}

// NewListingPageFetcher creates a fetcher with the fixed 5-second page
// timeout the source tolerates.
func NewListingPageFetcher() *ListingPageFetcher {
	return NewListingPageFetcherWithBase(ListingBaseURL)
}

// NewListingPageFetcherWithBase points the fetcher at an alternate base
// document, keeping the query variants intact.
func NewListingPageFetcherWithBase(baseURL string) *ListingPageFetcher {
	return &ListingPageFetcher{baseURL: baseURL, requestTimeout: 5 * time.Second}
}

// FetchForecastResults fetches the forecast-results listing.
func (f *ListingPageFetcher) FetchForecastResults() (*goquery.Document, error) {
	return f.FetchDocument(f.baseURL + queryForecastResults)
}

// FetchForecastSchedule fetches the forecast-schedule listing.
func (f *ListingPageFetcher) FetchForecastSchedule() (*goquery.Document, error) {
	return f.FetchDocument(f.baseURL + queryForecastSchedule)
}

// FetchSubscriptionSchedule fetches the subscription-schedule listing.
func (f *ListingPageFetcher) FetchSubscriptionSchedule() (*goquery.Document, error) {
	return f.FetchDocument(f.baseURL + querySubscriptionSchedule)
}

// FetchDocument fetches and decodes a single listing page. No retries: a
// failure is accepted once and reported.
func (f *ListingPageFetcher) FetchDocument(pageURL string) (*goquery.Document, error) {
	logger := logrus.WithFields(logrus.Fields{
		"component": "ListingPageFetcher",
		"url":       pageURL,
	})

	collector := colly.NewCollector()
	collector.SetRequestTimeout(f.requestTimeout)

	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", shared.BrowserUserAgent)
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "ko-KR,ko;q=0.9,en-US;q=0.8")
	})

	var document *goquery.Document
	var stageErr *shared.StageError

	collector.OnResponse(func(r *colly.Response) {
		// The site serves EUC-KR regardless of what the response headers
		// claim, so decode the raw bytes with the fixed charset.
		decoded, err := korean.EUCKR.NewDecoder().Bytes(r.Body)
		if err != nil {
			stageErr = shared.NewStageError(shared.ErrorCategoryDecode, "page_fetcher", "decode EUC-KR body", err)
			return
		}

		parsed, err := goquery.NewDocumentFromReader(bytes.NewReader(decoded))
		if err != nil {
			stageErr = shared.NewStageError(shared.ErrorCategoryDecode, "page_fetcher", "parse HTML document", err)
			return
		}

		document = parsed
	})

	collector.OnError(func(r *colly.Response, err error) {
		stageErr = shared.NewStageError(shared.ErrorCategoryNetwork, "page_fetcher", "fetch "+pageURL, err)
	})

	if err := collector.Visit(pageURL); err != nil && stageErr == nil {
		stageErr = shared.NewStageError(shared.ErrorCategoryNetwork, "page_fetcher", "visit "+pageURL, err)
	}
	collector.Wait()

	if stageErr != nil {
		return nil, stageErr
	}
	if document == nil {
		return nil, shared.NewStageError(shared.ErrorCategoryNetwork, "page_fetcher", "no response received for "+pageURL, nil)
	}

	logger.Debug("Fetched and decoded listing page")
	return document, nil
}
