package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"macro-snapshot/internal/aggregator"
	"macro-snapshot/internal/config"
	"macro-snapshot/internal/domain"
	"macro-snapshot/internal/fetch"
	"macro-snapshot/internal/provider"
	"macro-snapshot/internal/writer"
	"macro-snapshot/pkg/tracing"

	"github.com/joho/godotenv"
)

var (
	loadEnvFunc    = godotenv.Load
	loadConfigFunc = config.Load
	initTracerFunc = tracing.InitTracer
	newRedisFunc   = writer.NewRedisClient
	buildSnapshot  = func(a *aggregator.Aggregator, ctx context.Context, now time.Time) domain.Snapshot {
		return a.BuildSnapshot(ctx, now)
	}
	writeSnapshotFunc = func(w *writer.FileWriter, snap domain.Snapshot) error { return w.Write(snap) }
	exitFunc          = log.Fatalf
)

func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.RunTimeoutSecs)*time.Second)
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		exitFunc("failed to initialize tracer: %v", err)
		return
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	fc := fetch.New(&http.Client{Timeout: time.Duration(cfg.HTTPTimeoutSecs) * time.Second})

	// One CoinGecko client for both spot and history so they share a call
	// pacer.
	coinGecko := provider.NewCoinGecko(fc, tracer)

	src := aggregator.Sources{
		Econ: aggregator.EconCandidate{
			Provider: domain.ProviderFRED,
			Source:   provider.NewFRED(fc, tracer, cfg.FREDAPIKey),
		},
		GoldHist: []aggregator.HistoryCandidate{
			{
				Provider: domain.ProviderAlphaVantage,
				Function: provider.FunctionGold,
				Source:   provider.NewAlphaVantage(fc, tracer, cfg.AlphaVantageAPIKey),
			},
		},
		Metals: []aggregator.MetalCandidate{
			{Provider: domain.ProviderGoldAPI, Source: provider.NewGoldAPI(fc, tracer)},
			{Provider: domain.ProviderMetalsLive, Source: provider.NewMetalsLive(fc, tracer)},
		},
		BTCSpot: []aggregator.SpotCandidate{
			{Provider: domain.ProviderCoinGecko, Source: coinGecko},
			{Provider: domain.ProviderCoinCap, Source: provider.NewCoinCap(fc, tracer)},
		},
		BTCHist: aggregator.BTCHistoryCandidate{
			Provider: domain.ProviderCoinGecko,
			Source:   coinGecko,
		},
		Rates: aggregator.RatesCandidate{
			Provider: domain.ProviderERAPI,
			Source:   provider.NewERAPI(fc, tracer),
		},
	}

	agg := aggregator.New(tracer, src, aggregator.Config{
		EconLimit:     cfg.EconSeriesLimit,
		HistoryMonths: cfg.HistoryMonths,
		HistoryDays:   cfg.HistoryDays,
	})

	snap := buildSnapshot(agg, ctx, time.Now())

	fw := writer.NewFileWriter(cfg.SnapshotPath)
	if err := writeSnapshotFunc(fw, snap); err != nil {
		exitFunc("failed to write snapshot: %v", err)
		return
	}
	log.Printf("snapshot written to %s", cfg.SnapshotPath)

	// Redis mirroring is best effort: the file on disk is the source of truth.
	if cfg.RedisURL != "" {
		client, err := newRedisFunc(ctx, cfg.RedisURL)
		if err != nil {
			log.Printf("redis unavailable, skipping mirror: %v", err)
			return
		}
		if err := writer.NewRedisWriter(client).Publish(ctx, snap); err != nil {
			log.Printf("failed to mirror snapshot to redis: %v", err)
			return
		}
		log.Println("snapshot mirrored to redis")
	}
}
