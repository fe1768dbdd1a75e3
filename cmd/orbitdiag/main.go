// Command orbitdiag propagates a YAML element file to the current time and
// prints upcoming passes over an observer. It doubles as a smoke test for
// the propagation and transform packages against a live catalog snapshot.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/star/orbitcore/internal/metrics"
	"github.com/star/orbitcore/passes"
	"github.com/star/orbitcore/propagation"
	"github.com/star/orbitcore/transform"
)

func main() {
	var (
		elementFile = flag.String("elements", "elements.yaml", "YAML element file")
		configFile  = flag.String("config", "", "optional batch config YAML")
		lat         = flag.Float64("lat", 39.7392, "observer latitude, degrees")
		lon         = flag.Float64("lon", -104.9903, "observer longitude, degrees")
		alt         = flag.Float64("alt", 1609, "observer altitude, meters")
		horizon     = flag.Float64("horizon", 24, "pass prediction horizon, hours")
		metricsAddr = flag.String("metrics", "", "optional address to serve /metrics on")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	cfg := propagation.ConfigFromEnv()
	if *configFile != "" {
		var err error
		cfg, err = propagation.LoadConfig(*configFile)
		if err != nil {
			logger.Error("load config", "error", err)
			os.Exit(1)
		}
	}

	els, err := propagation.LoadElements(*elementFile)
	if err != nil {
		logger.Error("load elements", "error", err)
		os.Exit(1)
	}
	logger.Info("loaded element sets", "count", len(els))

	records := make([]*propagation.SatelliteRecord, len(els))
	for i, el := range els {
		records[i] = propagation.Initialize(el)
	}

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Error("metrics server", "error", err)
			}
		}()
	}

	now := time.Now().UTC()
	pool := propagation.NewWorkerPool(cfg.Workers, logger)
	positions, ok, failed := pool.PropagateBatch(context.Background(), records, now)
	logger.Info("batch propagated", "at", now, "ok", ok, "failed", failed)

	for _, p := range positions {
		geo := transform.ECEFToGeodetic(p.ECEF.X, p.ECEF.Y, p.ECEF.Z)
		fmt.Printf("%6d  lat=%8.3f lon=%9.3f alt=%8.1f km\n",
			p.Catalog, geo.LatDeg, geo.LonDeg, geo.AltM/1000.0)
	}

	obs := transform.NewObserverPosition(*lat, *lon, *alt)
	req := passes.Request{
		Observer:     obs,
		Records:      records,
		Start:        now,
		HorizonHours: *horizon,
		MinElevation: 1,
		MaxPasses:    10,
	}
	results := passes.Predict(context.Background(), req)

	total := 0
	for _, obj := range results {
		if obj.Error != "" {
			fmt.Printf("%6d  ERROR %s\n", obj.Catalog, obj.Error)
			continue
		}
		fmt.Printf("%6d  %d passes\n", obj.Catalog, len(obj.Passes))
		total += len(obj.Passes)
		for j, p := range obj.Passes {
			fmt.Printf("    pass %d: start=%v maxEl=%.1f° range=%.0fkm dur=%.0fs\n",
				j, p.StartTime.Format(time.RFC3339), p.MaxElevation, p.RangeAtMaxKm, p.DurationSeconds)
		}
	}
	fmt.Printf("\ntotal passes in next %.0fh: %d\n", *horizon, total)
}
