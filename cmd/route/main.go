package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/navurbana/navrouter/pkg/config"
	"github.com/navurbana/navrouter/pkg/graph"
	"github.com/navurbana/navrouter/pkg/route"
	"github.com/navurbana/navrouter/pkg/routing"
	"github.com/navurbana/navrouter/pkg/source"
)

var log = logrus.WithField("module", "main")

type output struct {
	*route.Route
	Algorithm string   `json:"algorithm"`
	Encoded   string   `json:"encoded_polyline,omitempty"`
	Streets   []string `json:"streets"`
	ElapsedMs int64    `json:"elapsed_ms"`
}

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logrus.Error(err)
		os.Exit(2)
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		switch {
		case errors.Is(err, routing.ErrNoPath):
			log.WithField("from", cfg.From).WithField("to", cfg.To).Warn("no route found")
			os.Exit(1)
		default:
			log.WithError(err).Fatal("route failed")
		}
	}
}

func setupLogging(cfg *config.Config) {
	lvl, _ := cfg.Level()
	logrus.SetLevel(lvl)
	if cfg.LogJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	}
	logrus.SetOutput(os.Stderr)
}

func run(ctx context.Context, cfg *config.Config) error {
	start := time.Now()

	in, err := loadInput(ctx, cfg)
	if err != nil {
		return err
	}

	var opts []graph.Option
	if cfg.TolerateDangling {
		opts = append(opts, graph.WithTolerateDanglingEdges())
	}
	store, err := graph.Build(in, opts...)
	if err != nil {
		return err
	}
	stats := store.Stats()
	log.WithFields(logrus.Fields{
		"nodes":      stats.NumNodes,
		"edges":      stats.NumEdges,
		"backfilled": stats.BackfilledEdges,
		"elapsed":    time.Since(start).Round(time.Millisecond),
	}).Info("graph ready")

	algo, err := routing.ParseAlgorithm(cfg.Algorithm)
	if err != nil {
		return err
	}

	queryStart := time.Now()
	engine := routing.NewEngine(store)
	path, err := engine.FindPath(ctx, cfg.From, cfg.To, algo)
	if err != nil {
		return err
	}

	var assembleOpts []route.Option
	if cfg.Relaxed {
		assembleOpts = append(assembleOpts, route.Relaxed())
	}
	r, err := route.Assemble(store, path, assembleOpts...)
	if err != nil {
		return err
	}
	elapsed := time.Since(queryStart)

	log.WithFields(logrus.Fields{
		"algorithm": algo,
		"distance":  r.Distance,
		"duration":  r.Duration,
		"streets":   strings.Join(r.NamedStreets(), " > "),
	}).Info("route found")

	return write(cfg, algo, r, elapsed)
}

func loadInput(ctx context.Context, cfg *config.Config) (graph.Input, error) {
	if !cfg.UsePostgres() {
		return source.LoadJSON(cfg.Nodes(), cfg.Edges())
	}

	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		return graph.Input{}, err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return graph.Input{}, err
	}
	return source.LoadPostgres(ctx, pool)
}

func write(cfg *config.Config, algo routing.Algorithm, r *route.Route, elapsed time.Duration) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	switch cfg.Format {
	case config.FormatGeoJSON:
		return enc.Encode(r.GeoJSON())
	case config.FormatStreets:
		return enc.Encode(r.Streets())
	}

	out := output{
		Route:     r,
		Algorithm: string(algo),
		Streets:   r.Streets(),
		ElapsedMs: elapsed.Milliseconds(),
	}
	if cfg.Polyline {
		out.Encoded = r.EncodedPolyline()
	}
	return enc.Encode(out)
}
