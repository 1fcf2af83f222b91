package source

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/navurbana/navrouter/pkg/graph"
)

// Querier runs read queries. *pgxpool.Pool, *pgx.Conn and pgx.Tx satisfy it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Writer is what SavePostgres needs. *pgxpool.Pool and *pgx.Conn satisfy it.
type Writer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// Schema creates the tables read by LoadPostgres.
const Schema = `
CREATE TABLE IF NOT EXISTS nodes (
	id  TEXT PRIMARY KEY,
	lat DOUBLE PRECISION NOT NULL,
	lng DOUBLE PRECISION NOT NULL
);
CREATE TABLE IF NOT EXISTS edges (
	from_id     TEXT NOT NULL REFERENCES nodes(id),
	to_id       TEXT NOT NULL REFERENCES nodes(id),
	distance    DOUBLE PRECISION NOT NULL,
	duration    DOUBLE PRECISION,
	mode        TEXT NOT NULL DEFAULT 'car',
	street_name TEXT,
	geometry    JSONB
);
CREATE INDEX IF NOT EXISTS edges_from_to_idx ON edges (from_id, to_id);
`

const (
	selectNodes = `SELECT id, lat, lng FROM nodes ORDER BY id`
	selectEdges = `
		SELECT from_id, to_id, distance,
		       COALESCE(duration, 0),
		       mode,
		       COALESCE(street_name, ''),
		       COALESCE(geometry, '[]'::jsonb)
		FROM edges`
)

var (
	nodeColumns = []string{"id", "lat", "lng"}
	edgeColumns = []string{"from_id", "to_id", "distance", "duration", "mode", "street_name", "geometry"}
)

// LoadPostgres reads the nodes and edges tables.
func LoadPostgres(ctx context.Context, db Querier) (graph.Input, error) {
	start := time.Now()
	var in graph.Input

	nodeRows, err := db.Query(ctx, selectNodes)
	if err != nil {
		return graph.Input{}, fmt.Errorf("failed to load nodes: %w", err)
	}
	defer nodeRows.Close()

	for nodeRows.Next() {
		var n graph.Node
		if err := nodeRows.Scan(&n.ID, &n.Lat, &n.Lng); err != nil {
			return graph.Input{}, fmt.Errorf("failed to scan node: %w", err)
		}
		in.Nodes = append(in.Nodes, n)
	}
	if err := nodeRows.Err(); err != nil {
		return graph.Input{}, fmt.Errorf("failed to load nodes: %w", err)
	}

	edgeRows, err := db.Query(ctx, selectEdges)
	if err != nil {
		return graph.Input{}, fmt.Errorf("failed to load edges: %w", err)
	}
	defer edgeRows.Close()

	for edgeRows.Next() {
		var (
			e    graph.Edge
			mode string
			geom []byte
		)
		if err := edgeRows.Scan(&e.From, &e.To, &e.Distance, &e.Duration, &mode, &e.StreetName, &geom); err != nil {
			return graph.Input{}, fmt.Errorf("failed to scan edge: %w", err)
		}
		e.Mode = graph.Mode(mode)
		if len(geom) > 0 {
			if err := json.Unmarshal(geom, &e.Geometry); err != nil {
				return graph.Input{}, fmt.Errorf("edge %s -> %s: bad geometry: %w", e.From, e.To, err)
			}
			if len(e.Geometry) == 0 {
				e.Geometry = nil
			}
		}
		in.Edges = append(in.Edges, e)
	}
	if err := edgeRows.Err(); err != nil {
		return graph.Input{}, fmt.Errorf("failed to load edges: %w", err)
	}

	log.WithFields(logrus.Fields{
		"nodes":   len(in.Nodes),
		"edges":   len(in.Edges),
		"elapsed": time.Since(start),
	}).Info("loaded graph input from postgres")
	return in, nil
}

// SavePostgres creates the schema if missing and bulk-copies in into the
// nodes and edges tables.
func SavePostgres(ctx context.Context, db Writer, in graph.Input) error {
	if _, err := db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	n, err := db.CopyFrom(ctx, pgx.Identifier{"nodes"}, nodeColumns,
		pgx.CopyFromSlice(len(in.Nodes), func(i int) ([]any, error) {
			node := in.Nodes[i]
			return []any{node.ID, node.Lat, node.Lng}, nil
		}))
	if err != nil {
		return fmt.Errorf("failed to copy nodes: %w", err)
	}

	m, err := db.CopyFrom(ctx, pgx.Identifier{"edges"}, edgeColumns,
		pgx.CopyFromSlice(len(in.Edges), func(i int) ([]any, error) {
			e := in.Edges[i]
			geom := "[]"
			if e.HasGeometry() {
				b, err := json.Marshal(e.Geometry)
				if err != nil {
					return nil, err
				}
				geom = string(b)
			}
			mode := e.Mode
			if mode == "" {
				mode = graph.ModeCar
			}
			return []any{e.From, e.To, e.Distance, e.Duration, string(mode), e.StreetName, geom}, nil
		}))
	if err != nil {
		return fmt.Errorf("failed to copy edges: %w", err)
	}

	log.WithFields(logrus.Fields{
		"nodes": n,
		"edges": m,
	}).Info("saved graph input to postgres")
	return nil
}
