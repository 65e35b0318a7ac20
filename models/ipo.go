package models

// IPOStatus classifies which stage of the offering an entity is in.
// Completed is terminal within a crawl: once a company is seen in the
// forecast-results listing it never reverts to scheduled.
type IPOStatus string

const (
	IPOStatusCompleted IPOStatus = "completed"
	IPOStatusScheduled IPOStatus = "scheduled"
)

// IPO is the reconciled public-offering entity produced by one crawl pass.
// The company name is the identity key across all three source listings;
// it is trimmed but otherwise used verbatim. Optional fields are nil when
// the source never supplied them; the "-" display sentinel is applied only
// in the response DTO.
type IPO struct {
	// Identity
	Name string

	// Lifecycle
	Status IPOStatus

	// Raw schedule texts as printed by the source (e.g. "2026.01.20~01.25").
	ForecastSchedule     string
	SubscriptionSchedule *string

	// Raw pricing texts
	PriceBand      string
	ConfirmedPrice *string

	// Raw demand texts
	CompetitionRate *string
	LockupRatio     *string

	Underwriter *string

	// Derived quality flags, pure functions of the raw texts above
	IsGoodComp   bool
	IsGoodLockup bool
	IsGoodPrice  bool

	// Secondary-market enrichment, populated only for completed entities
	// where the Daum lookup succeeded
	StockCode    *string
	CurrentPrice *string
	ProfitRate   *string
}

// IPOResponse is the wire representation of an IPO entity. Absent optional
// fields collapse to the "-" sentinel the presentation layer expects.
type IPOResponse struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	Status               string `json:"status"`
	Schedule             string `json:"schedule"`
	SubscriptionSchedule string `json:"subscription_schedule,omitempty"`
	PriceBand            string `json:"price_band"`
	ConfirmedPrice       string `json:"confirmed_price"`
	CompetitionRate      string `json:"competition_rate"`
	LockupRatio          string `json:"lockup_ratio"`
	Underwriter          string `json:"underwriter,omitempty"`
	IsGoodComp           bool   `json:"is_good_comp"`
	IsGoodLockup         bool   `json:"is_good_lockup"`
	IsGoodPrice          bool   `json:"is_good_price"`
	StockCode            string `json:"stock_code,omitempty"`
	CurrentPrice         string `json:"current_price,omitempty"`
	ProfitRate           string `json:"profit_rate,omitempty"`
}

// DisplaySentinel marks a field the source has not published yet.
const DisplaySentinel = "-"

func orSentinel(s *string) string {
	if s == nil || *s == "" {
		return DisplaySentinel
	}
	return *s
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ToResponse converts the entity to its wire shape, applying the display
// sentinel to absent fields.
func (ipo IPO) ToResponse() IPOResponse {
	schedule := ipo.ForecastSchedule
	if schedule == "" {
		schedule = DisplaySentinel
	}

	return IPOResponse{
		ID:                   ipo.Name,
		Name:                 ipo.Name,
		Status:               string(ipo.Status),
		Schedule:             schedule,
		SubscriptionSchedule: orEmpty(ipo.SubscriptionSchedule),
		PriceBand:            ipo.PriceBand,
		ConfirmedPrice:       orSentinel(ipo.ConfirmedPrice),
		CompetitionRate:      orSentinel(ipo.CompetitionRate),
		LockupRatio:          orSentinel(ipo.LockupRatio),
		Underwriter:          orEmpty(ipo.Underwriter),
		IsGoodComp:           ipo.IsGoodComp,
		IsGoodLockup:         ipo.IsGoodLockup,
		IsGoodPrice:          ipo.IsGoodPrice,
		StockCode:            orEmpty(ipo.StockCode),
		CurrentPrice:         orEmpty(ipo.CurrentPrice),
		ProfitRate:           orEmpty(ipo.ProfitRate),
	}
}

// ToResponses maps a crawl result to its wire shape, preserving order.
func ToResponses(ipos []IPO) []IPOResponse {
	responses := make([]IPOResponse, 0, len(ipos))
	for _, ipo := range ipos {
		responses = append(responses, ipo.ToResponse())
	}
	return responses
}
