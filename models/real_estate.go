package models

// SubscriptionStatus is derived from today's date against the receipt window.
type SubscriptionStatus string

const (
	SubscriptionUpcoming SubscriptionStatus = "upcoming"
	SubscriptionOpen     SubscriptionStatus = "open"
	SubscriptionClosed   SubscriptionStatus = "closed"
)

// RealEstateSubscription is one normalized housing-subscription announcement
// from the ApplyHome open-data API.
type RealEstateSubscription struct {
	// House manage number, unique per announcement
	ID             string `json:"id"`
	AnnouncementNo string `json:"announcement_no"`

	Name         string `json:"name"`
	Region       string `json:"region"`
	Location     string `json:"location"`
	BuildingType string `json:"building_type"`

	// All dates formatted YYYY-MM-DD
	AnnouncementDate       string `json:"announcement_date"`
	SubscriptionStartDate  string `json:"subscription_start_date"`
	SubscriptionEndDate    string `json:"subscription_end_date"`
	WinnerAnnouncementDate string `json:"winner_announcement_date"`
	ContractStartDate      string `json:"contract_start_date,omitempty"`
	ContractEndDate        string `json:"contract_end_date,omitempty"`
	MoveInDate             string `json:"move_in_date,omitempty"`

	TotalSupply int `json:"total_supply"`

	Status SubscriptionStatus `json:"status"`

	DetailURL string `json:"detail_url,omitempty"`
}

// ApplyHomeItem mirrors the raw open-data payload field names.
type ApplyHomeItem struct {
	HouseManageNo        string `json:"HOUSE_MANAGE_NO"`
	AnnouncementNo       string `json:"PBLANC_NO"`
	HouseName            string `json:"HOUSE_NM"`
	SupplyLocation       string `json:"HSSPLY_ADRES"`
	SupplyRegion         string `json:"SUBSCRPT_AREA_CODE_NM"`
	AnnouncementDate     string `json:"RCRIT_PBLANC_DE"`
	ReceiptStartDate     string `json:"RCEPT_BGNDE"`
	ReceiptEndDate       string `json:"RCEPT_ENDDE"`
	WinnerDate           string `json:"PRZWNER_PRESNATN_DE"`
	ContractStartDate    string `json:"CNTRCT_CNCLS_BGNDE"`
	ContractEndDate      string `json:"CNTRCT_CNCLS_ENDDE"`
	TotalSupplyHouseheld int    `json:"TOT_SUPLY_HSHLDCO"`
	HouseTypeName        string `json:"HOUSE_SECD_NM"`
	MoveInYearMonth      string `json:"MVN_PREARNGE_YM"`
	HomepageAddress      string `json:"HMPG_ADRES"`
}
