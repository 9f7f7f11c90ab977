package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// IPORecord is the canonical IPO shape served to the dashboard. Raw feed
// records are converted into this shape exactly once, at ingestion, so
// downstream code never deals with alternate field names or missing numerics.
type IPORecord struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	CompanyName        string      `json:"company_name"`
	PriceRangeLow      float64     `json:"price_range_low"`
	PriceRangeHigh     float64     `json:"price_range_high"`
	IssueSize          float64     `json:"issue_size"`
	LotSize            int         `json:"lot_size"`
	CurrentGMP         float64     `json:"current_gmp"`
	GMPPercentage      float64     `json:"gmp_percentage"`
	Status             string      `json:"status"`
	Industry           string      `json:"industry"`
	BoardType          string      `json:"board_type"`
	RiskLevel          string      `json:"risk_level"`
	OpenDate           string      `json:"open_date"`
	CloseDate          string      `json:"close_date"`
	ListingDate        string      `json:"listing_date"`
	IsProfitable       bool        `json:"is_profitable"`
	ConfidenceScore    float64     `json:"confidence_score"`
	SubscriptionStatus string      `json:"subscription_status"`
	Recommendation     string      `json:"recommendation"`
	EstimatedGain      float64     `json:"estimated_gain"`
	Exchange           string      `json:"exchange"`
	Description        string      `json:"description"`
	Prediction         *Prediction `json:"prediction,omitempty"`
}

// Canonical status values.
const (
	StatusUpcoming  = "Upcoming"
	StatusOpen      = "Open"
	StatusClosed    = "Closed"
	StatusListed    = "Listed"
	StatusWithdrawn = "Withdrawn"
	StatusUnknown   = "Unknown"
)

// Risk levels.
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// Board types.
const (
	BoardMain = "Main Board"
	BoardSME  = "SME"
)

// Prediction is an optional forecast block attached to a record.
type Prediction struct {
	GainPercentage float64            `json:"gain_percentage"`
	Confidence     float64            `json:"confidence"`
	Factors        []PredictionFactor `json:"factors"`
}

// PredictionFactor impact is one of Positive, Negative, Neutral.
type PredictionFactor struct {
	Name   string  `json:"name"`
	Impact string  `json:"impact"`
	Weight float64 `json:"weight"`
}

// RawIPORecord accepts one IPO as the upstream feeds emit it. The feeds are
// schema-inconsistent: camelCase and snake_case variants coexist for the same
// concept, numerics arrive as numbers, strings, or "TBA", and most fields are
// optional. Pointer fields distinguish "absent" from zero so the normalizer
// can apply derivations only where the feed was silent.
type RawIPORecord struct {
	ID          FlexString `json:"id"`
	IPOName     string     `json:"ipo_name"`
	DisplayName string     `json:"displayName"`
	Name        string     `json:"name"`

	CompanyNameSnake string `json:"company_name"`
	CompanyNameCamel string `json:"companyName"`

	PriceMinSnake  *FlexFloat `json:"price_min"`
	PriceMinCamel  *FlexFloat `json:"priceRangeLow"`
	PriceMaxSnake  *FlexFloat `json:"price_max"`
	PriceMaxCamel  *FlexFloat `json:"priceRangeHigh"`
	IssueSizeSnake *FlexFloat `json:"issue_size"`
	IssueSizeCamel *FlexFloat `json:"issueSize"`
	LotSizeSnake   *FlexInt   `json:"lot_size"`
	LotSizeCamel   *FlexInt   `json:"lotSize"`

	CurrentGMPSnake *FlexFloat `json:"current_gmp"`
	CurrentGMPCamel *FlexFloat `json:"currentGMP"`
	GMP             *FlexFloat `json:"gmp"`
	GMPPctSnake     *FlexFloat `json:"gmp_percentage"`
	GMPPctCamel     *FlexFloat `json:"gmpPercentage"`

	Status         string `json:"status"`
	Sector         string `json:"sector"`
	Industry       string `json:"industry"`
	BoardTypeSnake string `json:"board_type"`
	BoardTypeCamel string `json:"boardType"`
	RiskSnake      string `json:"risk_level"`
	RiskCamel      string `json:"riskLevel"`

	OpenDateSnake    string `json:"open_date"`
	OpenDateCamel    string `json:"openDate"`
	CloseDateSnake   string `json:"close_date"`
	CloseDateCamel   string `json:"closeDate"`
	ListingDateSnake string `json:"listing_date"`
	ListingDateCamel string `json:"listingDate"`

	ConfidenceSnake *FlexFloat `json:"confidence_score"`
	ConfidenceCamel *FlexFloat `json:"confidenceScore"`

	SubscriptionSnake string `json:"subscription_status"`
	SubscriptionCamel string `json:"subscriptionStatus"`
	Recommendation    string `json:"recommendation"`
	Exchange          string `json:"exchange"`
	Description       string `json:"description"`

	Prediction *RawPrediction `json:"prediction"`
}

// RawPrediction mirrors RawIPORecord's tolerance for the prediction block.
type RawPrediction struct {
	GainPctSnake *FlexFloat            `json:"gain_percentage"`
	GainPctCamel *FlexFloat            `json:"gainPercentage"`
	Confidence   *FlexFloat            `json:"confidence"`
	Factors      []RawPredictionFactor `json:"factors"`
}

type RawPredictionFactor struct {
	Name   string     `json:"name"`
	Impact string     `json:"impact"`
	Weight *FlexFloat `json:"weight"`
}

// FlexFloat is a float64 that unmarshals from a JSON number, a numeric
// string, null, or a non-numeric sentinel such as "TBA" (which becomes 0).
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*f = 0
			return nil
		}
		s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
		s = strings.TrimPrefix(s, "₹")
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = FlexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		*f = 0
		return nil
	}
	*f = FlexFloat(v)
	return nil
}

// FlexInt behaves like FlexFloat but truncates to an int.
type FlexInt int

func (i *FlexInt) UnmarshalJSON(data []byte) error {
	var f FlexFloat
	if err := f.UnmarshalJSON(data); err != nil {
		*i = 0
		return nil
	}
	*i = FlexInt(f)
	return nil
}

// FlexString unmarshals from a JSON string or number, so numeric feed
// identifiers still land as usable keys.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			*s = ""
			return nil
		}
		*s = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		*s = ""
		return nil
	}
	*s = FlexString(n.String())
	return nil
}
