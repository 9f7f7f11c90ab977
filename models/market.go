package models

// MarketIndex represents a stock market index with current value and change information
type MarketIndex struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Value         float64 `json:"value"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	IsPositive    bool    `json:"is_positive"`
}

// MarketSentiment summarizes IPO market mood on a 1-10 scale
type MarketSentiment struct {
	SentimentScore float64  `json:"sentiment_score"`
	Analysis       string   `json:"analysis"`
	KeyDrivers     []string `json:"key_drivers"`
}

// DashboardStats are the headline counters shown above the IPO list
type DashboardStats struct {
	Total      int `json:"total"`
	Active     int `json:"active"`
	Profitable int `json:"profitable"`
	AvgGMP     int `json:"avg_gmp"`
}

// FilterCriteria selects a subset of the IPO list. The zero value (with
// "all" selectors) passes every record. MinGMP and MaxGMP are raw query
// strings; a bound that is empty or non-numeric applies no constraint.
type FilterCriteria struct {
	Status         string `json:"status"`
	Industry       string `json:"industry"`
	BoardType      string `json:"board_type"`
	ProfitableOnly bool   `json:"profitable_only"`
	MinGMP         string `json:"min_gmp"`
	MaxGMP         string `json:"max_gmp"`
}
