package domain

import (
	"encoding/json"
	"time"
)

// Metric keys as they appear in the published document's sources map.
const (
	MetricGoldSilver = "goldSilver"
	MetricGoldHist   = "goldHist"
	MetricBTC        = "btcRaw"
	MetricCPI        = "cpiRaw"
	MetricM2         = "m2Raw"
	MetricHPI        = "hpiRaw"
	MetricDXY        = "dxyLive"
)

// Metrics lists every tracked metric; the sources map carries one entry per
// metric on every run, absent metrics included.
var Metrics = []string{
	MetricGoldSilver,
	MetricGoldHist,
	MetricBTC,
	MetricCPI,
	MetricM2,
	MetricHPI,
	MetricDXY,
}

// Provider identifiers recorded in the sources map.
const (
	ProviderFRED         = "fred"
	ProviderAlphaVantage = "alphavantage"
	ProviderGoldAPI      = "gold-api"
	ProviderMetalsLive   = "metals.live"
	ProviderCoinGecko    = "coingecko"
	ProviderCoinCap      = "coincap"
	ProviderERAPI        = "open.er-api"

	// ProviderFallback marks a metric no candidate provider supplied.
	ProviderFallback = "fallback"
)

// SpotQuote is a single current price for one asset.
type SpotQuote struct {
	Value float64
	AsOf  time.Time
}

// MetalPair carries gold and silver spot prices from one provider call.
type MetalPair struct {
	Gold   float64
	Silver float64
	Date   time.Time
}

func (m MetalPair) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Gold   float64 `json:"gold"`
		Silver float64 `json:"silver"`
		Date   string  `json:"date"`
	}{m.Gold, m.Silver, m.Date.Format(DateLayout)})
}

// BasketCurrencies is the fixed currency basket behind the synthetic dollar
// index. Every member must be present for the basket to be usable.
var BasketCurrencies = []string{"EUR", "JPY", "GBP", "CAD", "SEK", "CHF"}

// FxBasket maps currency codes to foreign-per-USD exchange rates.
type FxBasket struct {
	Rates map[string]float64
	AsOf  time.Time
}

// IndexValue is a computed index level, rounded to two decimal places.
type IndexValue struct {
	Value float64
	Date  time.Time
}

func (v IndexValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Value float64 `json:"value"`
		Date  string  `json:"date"`
	}{v.Value, v.Date.Format(DateLayout)})
}

// Snapshot is the root document written at the end of each run. Nil metric
// fields serialize as JSON null; Sources always has one entry per metric.
type Snapshot struct {
	FetchedAt  time.Time         `json:"fetchedAt"`
	GoldSilver *MetalPair        `json:"goldSilver"`
	GoldHist   Series            `json:"goldHist"`
	BTCRaw     Series            `json:"btcRaw"`
	CPIRaw     Series            `json:"cpiRaw"`
	M2Raw      Series            `json:"m2Raw"`
	HPIRaw     Series            `json:"hpiRaw"`
	DXYLive    *IndexValue       `json:"dxyLive"`
	Sources    map[string]string `json:"sources"`
}
