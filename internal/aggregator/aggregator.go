package aggregator

import (
	"context"
	"log"
	"time"

	"macro-snapshot/internal/domain"
	"macro-snapshot/internal/dxy"
	"macro-snapshot/internal/provider"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

type EconomicSeriesSource interface {
	FetchSeries(ctx context.Context, seriesID string, limit int) (domain.Series, bool)
}

type MonthlyHistorySource interface {
	FetchMonthly(ctx context.Context, function string, months int) (domain.Series, bool)
}

type MetalSpotSource interface {
	FetchMetals(ctx context.Context) (domain.MetalPair, bool)
}

type BitcoinSpotSource interface {
	FetchBitcoinSpot(ctx context.Context) (domain.SpotQuote, bool)
}

type BitcoinHistorySource interface {
	FetchBitcoinHistory(ctx context.Context, days, months int) (domain.Series, bool)
}

type RatesSource interface {
	FetchRates(ctx context.Context) (domain.FxBasket, bool)
}

// Candidate lists are priority-ordered: the first provider that produces a
// value wins the metric. Reordering or swapping providers is a wiring
// change, not a rewrite.
type EconCandidate struct {
	Provider string
	Source   EconomicSeriesSource
}

type HistoryCandidate struct {
	Provider string
	Function string
	Source   MonthlyHistorySource
}

type MetalCandidate struct {
	Provider string
	Source   MetalSpotSource
}

type SpotCandidate struct {
	Provider string
	Source   BitcoinSpotSource
}

type BTCHistoryCandidate struct {
	Provider string
	Source   BitcoinHistorySource
}

type RatesCandidate struct {
	Provider string
	Source   RatesSource
}

// Sources wires every metric to its candidate providers.
type Sources struct {
	Econ     EconCandidate
	GoldHist []HistoryCandidate
	Metals   []MetalCandidate
	BTCSpot  []SpotCandidate
	BTCHist  BTCHistoryCandidate
	Rates    RatesCandidate
}

type Config struct {
	EconLimit     int
	HistoryMonths int
	HistoryDays   int
}

// Aggregator fans out to every provider concurrently, merges by metric with
// fixed-priority fallback, and assembles the snapshot. It is the only
// constructor of Snapshot values.
type Aggregator struct {
	tracer trace.Tracer
	src    Sources
	cfg    Config
}

func New(tracer trace.Tracer, src Sources, cfg Config) *Aggregator {
	if cfg.EconLimit <= 0 {
		cfg.EconLimit = 300
	}
	if cfg.HistoryMonths <= 0 {
		cfg.HistoryMonths = 60
	}
	if cfg.HistoryDays <= 0 {
		cfg.HistoryDays = 365
	}
	return &Aggregator{tracer: tracer, src: src, cfg: cfg}
}

type seriesSlot struct {
	series domain.Series
	ok     bool
}

type metalSlot struct {
	pair domain.MetalPair
	ok   bool
}

type spotSlot struct {
	spot domain.SpotQuote
	ok   bool
}

// BuildSnapshot runs one full aggregation cycle. All provider calls are
// launched together and joined before any merging happens; no call observes
// another call's result. Given identical provider outputs the snapshot is
// identical regardless of completion order.
func (a *Aggregator) BuildSnapshot(ctx context.Context, now time.Time) domain.Snapshot {
	ctx, span := a.tracer.Start(ctx, "aggregator.build-snapshot")
	defer span.End()

	now = now.UTC()

	var (
		m2, cpi, hpi seriesSlot
		btcHist      seriesSlot
		basket       domain.FxBasket
		basketOK     bool
	)
	goldHist := make([]seriesSlot, len(a.src.GoldHist))
	metals := make([]metalSlot, len(a.src.Metals))
	btcSpots := make([]spotSlot, len(a.src.BTCSpot))

	g, gctx := errgroup.WithContext(ctx)
	if a.src.Econ.Source != nil {
		g.Go(func() error {
			m2.series, m2.ok = a.src.Econ.Source.FetchSeries(gctx, provider.SeriesM2, a.cfg.EconLimit)
			return nil
		})
		g.Go(func() error {
			cpi.series, cpi.ok = a.src.Econ.Source.FetchSeries(gctx, provider.SeriesCPI, a.cfg.EconLimit)
			return nil
		})
		g.Go(func() error {
			hpi.series, hpi.ok = a.src.Econ.Source.FetchSeries(gctx, provider.SeriesHPI, a.cfg.EconLimit)
			return nil
		})
	}
	for i, cand := range a.src.GoldHist {
		if cand.Source == nil {
			continue
		}
		i, cand := i, cand
		g.Go(func() error {
			goldHist[i].series, goldHist[i].ok = cand.Source.FetchMonthly(gctx, cand.Function, a.cfg.HistoryMonths)
			return nil
		})
	}
	for i, cand := range a.src.Metals {
		if cand.Source == nil {
			continue
		}
		i, cand := i, cand
		g.Go(func() error {
			metals[i].pair, metals[i].ok = cand.Source.FetchMetals(gctx)
			return nil
		})
	}
	for i, cand := range a.src.BTCSpot {
		if cand.Source == nil {
			continue
		}
		i, cand := i, cand
		g.Go(func() error {
			btcSpots[i].spot, btcSpots[i].ok = cand.Source.FetchBitcoinSpot(gctx)
			return nil
		})
	}
	if a.src.BTCHist.Source != nil {
		g.Go(func() error {
			btcHist.series, btcHist.ok = a.src.BTCHist.Source.FetchBitcoinHistory(gctx, a.cfg.HistoryDays, a.cfg.HistoryMonths)
			return nil
		})
	}
	if a.src.Rates.Source != nil {
		g.Go(func() error {
			basket, basketOK = a.src.Rates.Source.FetchRates(gctx)
			return nil
		})
	}
	_ = g.Wait()

	snap := domain.Snapshot{
		FetchedAt: now,
		Sources:   make(map[string]string, len(domain.Metrics)),
	}
	for _, metric := range domain.Metrics {
		snap.Sources[metric] = domain.ProviderFallback
	}

	if m2.ok {
		snap.M2Raw = m2.series
		snap.Sources[domain.MetricM2] = a.src.Econ.Provider
	}
	if cpi.ok {
		snap.CPIRaw = cpi.series
		snap.Sources[domain.MetricCPI] = a.src.Econ.Provider
	}
	if hpi.ok {
		snap.HPIRaw = hpi.series
		snap.Sources[domain.MetricHPI] = a.src.Econ.Provider
	}

	for i, slot := range goldHist {
		if slot.ok {
			snap.GoldHist = slot.series
			snap.Sources[domain.MetricGoldHist] = a.src.GoldHist[i].Provider
			break
		}
	}

	for i, slot := range metals {
		if slot.ok {
			pair := slot.pair
			snap.GoldSilver = &pair
			snap.Sources[domain.MetricGoldSilver] = a.src.Metals[i].Provider
			break
		}
	}

	// Bitcoin is a composite: monthly history with the current spot spliced
	// on, replacing any existing same-day point.
	var btcSeries domain.Series
	btcProvider := ""
	if btcHist.ok {
		btcSeries = btcHist.series
		btcProvider = a.src.BTCHist.Provider
	}
	for i, slot := range btcSpots {
		if !slot.ok {
			continue
		}
		btcSeries = domain.Splice(btcSeries, domain.TimePoint{Date: slot.spot.AsOf, Value: slot.spot.Value})
		if btcProvider == "" {
			btcProvider = a.src.BTCSpot[i].Provider
		}
		break
	}
	if len(btcSeries) > 0 {
		snap.BTCRaw = btcSeries
		snap.Sources[domain.MetricBTC] = btcProvider
	}

	if basketOK {
		if index, ok := dxy.Compute(basket); ok {
			snap.DXYLive = &index
			snap.Sources[domain.MetricDXY] = a.src.Rates.Provider
		}
	}

	for _, metric := range domain.Metrics {
		log.Printf("snapshot metric %s <- %s", metric, snap.Sources[metric])
	}

	return snap
}
