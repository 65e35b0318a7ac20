package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kfinlab/ipo-calendar-backend/models"
	"github.com/kfinlab/ipo-calendar-backend/shared"
)

// RealEstateConfiguration holds the ApplyHome open-data API parameters.
type RealEstateConfiguration struct {
	BaseURL        string
	APIKey         string
	RequestTimeout time.Duration // The open-data API is slower than the rest
	PastDays       int           // Retention window behind today
	FutureDays     int           // Retention window ahead of today
	PerPage        int
}

// NewDefaultRealEstateConfiguration returns production defaults. The window
// is wider than the IPO crawl's: housing subscriptions are announced further
// ahead.
func NewDefaultRealEstateConfiguration(apiKey string) *RealEstateConfiguration {
	return &RealEstateConfiguration{
		BaseURL:        "https://api.odcloud.kr/api/ApplyhomeInfoDetailSvc/v1",
		APIKey:         apiKey,
		RequestTimeout: 10 * time.Second,
		PastDays:       30,
		FutureDays:     60,
		PerPage:        100,
	}
}

// ApplyHome endpoint paths: APT and officetel/urban-living announcements.
const (
	aptEndpoint       = "/getAPTLttotPblancDetail"
	officetelEndpoint = "/getUrbtyOfctlLttotPblancDetail"
)

// RealEstateService fetches new-housing subscription announcements from the
// government open-data API and normalizes them into typed records. A single
// API-to-model transform: no multi-source reconciliation.
type RealEstateService struct {
	configuration *RealEstateConfiguration
	httpClient    *http.Client
	clock         Clock
}

// NewRealEstateService creates the fetcher. A nil configuration selects
// production defaults with no API key, which yields empty results.
func NewRealEstateService(configuration *RealEstateConfiguration, clientFactory *shared.HTTPClientFactory, clock Clock) *RealEstateService {
	if configuration == nil {
		configuration = NewDefaultRealEstateConfiguration("")
	}
	if configuration.RequestTimeout <= 0 {
		configuration.RequestTimeout = 10 * time.Second
	}
	if clock == nil {
		clock = SystemClock()
	}

	return &RealEstateService{
		configuration: configuration,
		httpClient:    clientFactory.Client(configuration.RequestTimeout),
		clock:         clock,
	}
}

// FetchSubscriptions returns the deduplicated, window-filtered, sorted
// subscription list. Worst case is an empty slice; upstream failures are
// absorbed per endpoint.
func (s *RealEstateService) FetchSubscriptions(ctx context.Context) []models.RealEstateSubscription {
	logger := logrus.WithField("component", "RealEstateService")

	if s.configuration.APIKey == "" {
		logger.Error("Real-estate API key not configured, returning empty result")
		return []models.RealEstateSubscription{}
	}

	aptItems := s.fetchEndpoint(ctx, aptEndpoint)
	officetelItems := s.fetchEndpoint(ctx, officetelEndpoint)

	now := s.clock.Now()
	seen := make(map[string]bool)
	subscriptions := make([]models.RealEstateSubscription, 0, len(aptItems)+len(officetelItems))

	for _, item := range append(aptItems, officetelItems...) {
		subscription := s.transformItem(item, now)
		if subscription.ID == "" || seen[subscription.ID] {
			continue
		}
		seen[subscription.ID] = true

		startDate := parseCompactDate(subscription.SubscriptionStartDate)
		if startDate == nil {
			continue
		}
		past := now.AddDate(0, 0, -s.configuration.PastDays)
		future := now.AddDate(0, 0, s.configuration.FutureDays)
		if startDate.Before(past) || startDate.After(future) {
			continue
		}

		subscriptions = append(subscriptions, subscription)
	}

	sort.SliceStable(subscriptions, func(i, j int) bool {
		a := parseCompactDate(subscriptions[i].SubscriptionStartDate)
		b := parseCompactDate(subscriptions[j].SubscriptionStartDate)
		if a == nil || b == nil {
			return false
		}
		return a.Before(*b)
	})

	logger.WithField("subscriptions", len(subscriptions)).Info("Fetched real-estate subscriptions")
	return subscriptions
}

type applyHomeResponse struct {
	Data []models.ApplyHomeItem `json:"data"`
}

func (s *RealEstateService) fetchEndpoint(ctx context.Context, endpoint string) []models.ApplyHomeItem {
	logger := logrus.WithFields(logrus.Fields{
		"component": "RealEstateService",
		"endpoint":  endpoint,
	})

	parameters := url.Values{}
	parameters.Set("page", "1")
	parameters.Set("perPage", fmt.Sprintf("%d", s.configuration.PerPage))
	parameters.Set("returnType", "JSON")
	parameters.Set("serviceKey", s.configuration.APIKey)

	requestURL := fmt.Sprintf("%s%s?%s", s.configuration.BaseURL, endpoint, parameters.Encode())

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		shared.NewStageError(shared.ErrorCategoryNetwork, "real_estate", "build request "+endpoint, err).LogError()
		return nil
	}
	request.Header.Set("Accept", "application/json")

	response, err := s.httpClient.Do(request)
	if err != nil {
		shared.NewStageError(shared.ErrorCategoryNetwork, "real_estate", "fetch "+endpoint, err).LogError()
		return nil
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		shared.NewStageError(shared.ErrorCategoryNetwork, "real_estate", fmt.Sprintf("fetch %s: status %d", endpoint, response.StatusCode), nil).LogError()
		return nil
	}

	var decoded applyHomeResponse
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		shared.NewStageError(shared.ErrorCategoryDecode, "real_estate", "decode "+endpoint, err).LogError()
		return nil
	}

	logger.WithField("items", len(decoded.Data)).Debug("Fetched open-data items")
	return decoded.Data
}

func (s *RealEstateService) transformItem(item models.ApplyHomeItem, now time.Time) models.RealEstateSubscription {
	buildingType := item.HouseTypeName
	if buildingType == "" {
		buildingType = "APT"
	}

	return models.RealEstateSubscription{
		ID:                     item.HouseManageNo,
		AnnouncementNo:         item.AnnouncementNo,
		Name:                   item.HouseName,
		Region:                 item.SupplyRegion,
		Location:               item.SupplyLocation,
		BuildingType:           buildingType,
		AnnouncementDate:       formatCompactDate(item.AnnouncementDate),
		SubscriptionStartDate:  formatCompactDate(item.ReceiptStartDate),
		SubscriptionEndDate:    formatCompactDate(item.ReceiptEndDate),
		WinnerAnnouncementDate: formatCompactDate(item.WinnerDate),
		ContractStartDate:      formatCompactDate(item.ContractStartDate),
		ContractEndDate:        formatCompactDate(item.ContractEndDate),
		MoveInDate:             item.MoveInYearMonth,
		TotalSupply:            item.TotalSupplyHouseheld,
		Status:                 deriveSubscriptionStatus(item, now),
		DetailURL:              item.HomepageAddress,
	}
}

// deriveSubscriptionStatus classifies an announcement by today's position in
// its receipt window. Unparseable windows stay upcoming.
func deriveSubscriptionStatus(item models.ApplyHomeItem, now time.Time) models.SubscriptionStatus {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	start := parseCompactDate(item.ReceiptStartDate)
	end := parseCompactDate(item.ReceiptEndDate)
	if start == nil || end == nil {
		return models.SubscriptionUpcoming
	}

	switch {
	case today.Before(*start):
		return models.SubscriptionUpcoming
	case today.After(*end):
		return models.SubscriptionClosed
	default:
		return models.SubscriptionOpen
	}
}

// parseCompactDate accepts the API's YYYYMMDD and YYYY-MM-DD spellings.
func parseCompactDate(text string) *time.Time {
	cleaned := strings.ReplaceAll(strings.TrimSpace(text), "-", "")
	if len(cleaned) != 8 {
		return nil
	}
	parsed, err := time.Parse("20060102", cleaned)
	if err != nil {
		return nil
	}
	return &parsed
}

// formatCompactDate normalizes either spelling to YYYY-MM-DD, or empty text
// when the field is absent.
func formatCompactDate(text string) string {
	cleaned := strings.ReplaceAll(strings.TrimSpace(text), "-", "")
	if len(cleaned) != 8 {
		return ""
	}
	return fmt.Sprintf("%s-%s-%s", cleaned[0:4], cleaned[4:6], cleaned[6:8])
}
