package models

// Requests for signal HTTP endpoints. Defined in domain for consistency and reuse.

type SignalsRequest struct {
	Symbol    string `query:"symbol" json:"symbol" validate:"required"`
	Timeframe string `query:"timeframe" json:"timeframe" default:"1d" validate:"oneof=1d 1wk 1mo"`
	Lookback  int    `query:"lookback" json:"lookback" default:"100" validate:"gte=1,lte=1000"`
}

type BarsRequest struct {
	Symbol    string `query:"symbol" json:"symbol" validate:"required"`
	Timeframe string `query:"timeframe" json:"timeframe" default:"1d" validate:"oneof=1d 1wk 1mo"`
	From      string `query:"from" json:"from"`
	To        string `query:"to" json:"to"`
	Limit     int    `query:"limit" json:"limit" default:"500" validate:"gte=1,lte=10000"`
}

type HistoryRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	Limit  int    `query:"limit" json:"limit" default:"50" validate:"gte=1,lte=1000"`
}

type RefreshRequest struct {
	Symbol   string `json:"symbol" validate:"required"`
	Lookback int    `json:"lookback" default:"365" validate:"gte=1,lte=5000"`
}
