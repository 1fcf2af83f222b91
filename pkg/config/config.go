// Package config reads the route command's settings from flags, falling
// back to NAVROUTER_* environment variables and then to defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"
)

// ErrInvalid is returned (wrapped) for unusable settings.
var ErrInvalid = errors.New("invalid configuration")

const envPrefix = "NAVROUTER_"

// Config holds the settings of one route query.
type Config struct {
	DataDir   string // directory holding nodes.json and edges.json
	NodesPath string // overrides DataDir/nodes.json
	EdgesPath string // overrides DataDir/edges.json

	// PostgresDSN selects the PostgreSQL source instead of JSON files.
	PostgresDSN string

	Algorithm string
	From      string
	To        string

	Relaxed          bool // skip unconnected pairs during assembly
	TolerateDangling bool // drop edges referencing unknown nodes at load

	LogLevel string
	LogJSON  bool
	Format   string // json, geojson or streets
	Polyline bool   // include the encoded polyline in json output
}

// Output formats.
const (
	FormatJSON    = "json"
	FormatGeoJSON = "geojson"
	FormatStreets = "streets"
)

// Load parses args (without the program name). Flags win over environment
// variables, which win over defaults.
func Load(args []string) (*Config, error) {
	return load(args, os.Stderr)
}

func load(args []string, output io.Writer) (*Config, error) {
	cfg := &Config{}
	fs := flag.NewFlagSet("route", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&cfg.DataDir, "data", getEnv("DATA_DIR", "data"), "Directory with nodes.json and edges.json")
	fs.StringVar(&cfg.NodesPath, "nodes", getEnv("NODES", ""), "Path to nodes.json (overrides -data)")
	fs.StringVar(&cfg.EdgesPath, "edges", getEnv("EDGES", ""), "Path to edges.json (overrides -data)")
	fs.StringVar(&cfg.PostgresDSN, "pg", getEnv("PG_DSN", ""), "PostgreSQL connection string; loads nodes/edges tables instead of JSON")
	fs.StringVar(&cfg.Algorithm, "algo", getEnv("ALGORITHM", "dijkstra"), "Search algorithm: dijkstra or astar")
	fs.StringVar(&cfg.From, "from", getEnv("FROM", ""), "Start node id")
	fs.StringVar(&cfg.To, "to", getEnv("TO", ""), "Goal node id")
	fs.BoolVar(&cfg.Relaxed, "relaxed", getEnvBool("RELAXED", false), "Skip node pairs with no connecting edge instead of failing")
	fs.BoolVar(&cfg.TolerateDangling, "tolerate-dangling", getEnvBool("TOLERATE_DANGLING", false), "Drop edges that reference unknown nodes")
	fs.StringVar(&cfg.LogLevel, "log-level", getEnv("LOG_LEVEL", "info"), "Log level (trace, debug, info, warn, error)")
	fs.BoolVar(&cfg.LogJSON, "log-json", getEnvBool("LOG_JSON", false), "Emit logs as JSON")
	fs.StringVar(&cfg.Format, "format", getEnv("FORMAT", FormatJSON), "Output format: json, geojson or streets")
	fs.BoolVar(&cfg.Polyline, "polyline", getEnvBool("POLYLINE", true), "Include the encoded polyline in the output")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the query can run.
func (c *Config) Validate() error {
	if c.From == "" || c.To == "" {
		return fmt.Errorf("%w: both -from and -to are required", ErrInvalid)
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	switch c.Format {
	case FormatJSON, FormatGeoJSON, FormatStreets:
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalid, c.Format)
	}
	return nil
}

// Level returns the parsed log level.
func (c *Config) Level() (logrus.Level, error) {
	return logrus.ParseLevel(c.LogLevel)
}

// Nodes returns the nodes file path.
func (c *Config) Nodes() string {
	if c.NodesPath != "" {
		return c.NodesPath
	}
	return filepath.Join(c.DataDir, "nodes.json")
}

// Edges returns the edges file path.
func (c *Config) Edges() string {
	if c.EdgesPath != "" {
		return c.EdgesPath
	}
	return filepath.Join(c.DataDir, "edges.json")
}

// UsePostgres reports whether input comes from PostgreSQL.
func (c *Config) UsePostgres() bool {
	return c.PostgresDSN != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(envPrefix + key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(envPrefix + key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
