package models

import "time"

// CommodityPrice is one normalized spot-price quote.
type CommodityPrice struct {
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	NameEn    string    `json:"name_en"`
	Price     float64   `json:"price"`
	Currency  string    `json:"currency"`
	Unit      string    `json:"unit"`
	UnitFull  string    `json:"unit_full"`
	Icon      string    `json:"icon"`
	UpdatedAt time.Time `json:"updated_at"`
}
