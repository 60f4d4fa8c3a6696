// Package domain holds DTOs and ranking rules for query-backed signal datasets
package domain

// AnyOptionType disables the option_type filter
const AnyOptionType = "ANY"

// MarketID is the item id used for queries across all tickers
const MarketID = "*"

// QueryInput selects signal rows for one ticker or across the market
type QueryInput struct {
	Dataset        string `json:"dataset" validate:"required,dataset_name" example:"options-signals"`
	Ticker         string `json:"ticker,omitempty" validate:"omitempty,max=32" example:"AAL"`
	AsOf           string `json:"as_of,omitempty" validate:"omitempty,as_of" example:"latest"`
	OptionType     string `json:"option_type,omitempty" validate:"omitempty,oneof=CALL PUT ANY" example:"CALL"`
	ExpirationDate string `json:"expiration_date,omitempty" validate:"omitempty,datetime=2006-01-02" example:"2025-11-21"`
	TopN           int    `json:"top_n,omitempty" validate:"omitempty,min=1" example:"3"`
}

// Market reports whether the query spans all tickers
func (in QueryInput) Market() bool { return in.Ticker == "" || in.Ticker == MarketID }

// Signal is one scored contract row
type Signal struct {
	Ticker           string  `json:"ticker" example:"AAL"`
	RunDate          string  `json:"run_date" example:"2025-10-15"`
	OptionType       string  `json:"option_type" example:"CALL"`
	ContractSymbol   string  `json:"contract_symbol" example:"AAL251121C00014000"`
	ExpirationDate   string  `json:"expiration_date" example:"2025-11-21"`
	Strike           float64 `json:"strike" example:"14"`
	DaysToExpiration int32   `json:"days_to_expiration" example:"37"`
	SetupQuality     string  `json:"setup_quality_signal" example:"High"`
	TrendAligned     bool    `json:"is_trend_aligned" example:"true"`
	IVFavorable      bool    `json:"is_iv_favorable" example:"false"`
	Score            float64 `json:"score" example:"14"`
}

// SignalSet is the ordered result of a query
type SignalSet struct {
	Dataset    string   `json:"dataset" example:"options-signals"`
	ID         string   `json:"id" example:"AAL"`
	AsOf       string   `json:"as_of" example:"2025-10-15"`
	OptionType string   `json:"option_type" example:"ANY"`
	Expiration string   `json:"expiration_date,omitempty" example:"2025-11-21"`
	TopN       int      `json:"top_n" example:"3"`
	Items      []Signal `json:"items"`
}

// TickersInput lists distinct tickers of one run date
type TickersInput struct {
	Dataset    string `json:"dataset" validate:"required,dataset_name" example:"options-signals"`
	AsOf       string `json:"as_of,omitempty" validate:"omitempty,as_of" example:"latest"`
	Prefix     string `json:"prefix,omitempty" validate:"omitempty,max=32" example:"AA"`
	OptionType string `json:"option_type,omitempty" validate:"omitempty,oneof=CALL PUT ANY" example:"PUT"`
	Limit      int    `json:"limit,omitempty" validate:"omitempty,min=1,max=500" example:"100"`
	Cursor     string `json:"cursor,omitempty" example:"eyJvZmZzZXQiOjEwMH0"`
}

// TickerPage is one page of tickers
type TickerPage struct {
	Dataset    string   `json:"dataset" example:"options-signals"`
	AsOf       string   `json:"as_of" example:"2025-10-15"`
	Items      []string `json:"items"`
	NextCursor string   `json:"next_cursor,omitempty" example:"eyJvZmZzZXQiOjIwMH0"`
}
