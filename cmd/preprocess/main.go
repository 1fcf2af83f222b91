package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/navurbana/navrouter/pkg/graph"
	osmparser "github.com/navurbana/navrouter/pkg/osm"
	"github.com/navurbana/navrouter/pkg/source"
)

var log = logrus.WithField("module", "preprocess")

func main() {
	input := flag.String("input", "", "Path to .osm.pbf file")
	output := flag.String("output", "data", "Output directory for nodes.json and edges.json")
	bbox := flag.String("bbox", "", "Bounding box filter: minLat,minLng,maxLat,maxLng or a region name (scs, singapore)")
	pgDSN := flag.String("pg", os.Getenv("NAVROUTER_PG_DSN"), "Also copy the graph into PostgreSQL at this DSN")
	keepAll := flag.Bool("keep-all", false, "Keep every component instead of only the largest one")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: preprocess --input <file.osm.pbf> [--output data] [--bbox minLat,minLng,maxLat,maxLng | --bbox scs] [--pg DSN]")
		os.Exit(1)
	}

	var opts osmparser.ParseOptions
	if *bbox != "" {
		b, err := osmparser.ParseBBox(*bbox)
		if err != nil {
			log.Fatal(err)
		}
		opts.BBox = b
		log.Infof("Using bounding box filter: lat [%.4f, %.4f], lng [%.4f, %.4f]", b.MinLat, b.MaxLat, b.MinLng, b.MaxLng)
	}

	start := time.Now()
	ctx := context.Background()

	// Step 1: Parse OSM data.
	f, err := os.Open(*input)
	if err != nil {
		log.Fatalf("Failed to open input file: %v", err)
	}
	defer f.Close()

	in, err := osmparser.Parse(ctx, f, opts)
	if err != nil {
		log.Fatalf("Failed to parse OSM data: %v", err)
	}

	// Step 2: Extract largest connected component.
	if !*keepAll {
		total := len(in.Nodes)
		in = graph.LargestComponent(in)
		if total > 0 {
			log.Infof("Largest component: %d nodes (%.1f%%)", len(in.Nodes), float64(len(in.Nodes))/float64(total)*100)
		}
	}

	// Step 3: Validate the result loads.
	s, err := graph.Build(in)
	if err != nil {
		log.Fatalf("Generated graph does not load: %v", err)
	}
	stats := s.Stats()
	log.WithFields(logrus.Fields{
		"nodes":    stats.NumNodes,
		"edges":    stats.NumEdges,
		"isolated": stats.IsolatedNodes,
	}).Info("graph validated")

	// Step 4: Write outputs.
	if err := source.WriteJSON(*output, in); err != nil {
		log.Fatalf("Failed to write JSON: %v", err)
	}

	if *pgDSN != "" {
		pool, err := pgxpool.New(ctx, *pgDSN)
		if err != nil {
			log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		}
		err = source.SavePostgres(ctx, pool, in)
		pool.Close()
		if err != nil {
			log.Fatalf("Failed to save to PostgreSQL: %v", err)
		}
	}

	log.Infof("Done in %s. Output: %s", time.Since(start).Round(time.Second), *output)
}
