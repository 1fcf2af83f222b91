// Package source loads graph input from the places it is kept: the
// nodes.json/edges.json pair written by the preprocessor, or PostgreSQL.
package source

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/navurbana/navrouter/pkg/graph"
)

var log = logrus.WithField("module", "source")

const (
	NodesFile = "nodes.json"
	EdgesFile = "edges.json"
)

// LoadJSON reads a node array and an edge array from two JSON files.
func LoadJSON(nodesPath, edgesPath string) (graph.Input, error) {
	var in graph.Input
	if err := readJSON(nodesPath, &in.Nodes); err != nil {
		return graph.Input{}, fmt.Errorf("reading nodes: %w", err)
	}
	if err := readJSON(edgesPath, &in.Edges); err != nil {
		return graph.Input{}, fmt.Errorf("reading edges: %w", err)
	}
	log.WithFields(logrus.Fields{
		"nodes": len(in.Nodes),
		"edges": len(in.Edges),
	}).Info("loaded graph input from JSON")
	return in, nil
}

// LoadJSONDir reads nodes.json and edges.json from dir.
func LoadJSONDir(dir string) (graph.Input, error) {
	return LoadJSON(filepath.Join(dir, NodesFile), filepath.Join(dir, EdgesFile))
}

// WriteJSON writes in to dir as nodes.json and edges.json, creating dir if
// needed.
func WriteJSON(dir string, in graph.Input) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	nodes := in.Nodes
	if nodes == nil {
		nodes = []graph.Node{}
	}
	edges := in.Edges
	if edges == nil {
		edges = []graph.Edge{}
	}
	if err := writeJSON(filepath.Join(dir, NodesFile), nodes); err != nil {
		return fmt.Errorf("writing nodes: %w", err)
	}
	if err := writeJSON(filepath.Join(dir, EdgesFile), edges); err != nil {
		return fmt.Errorf("writing edges: %w", err)
	}
	return nil
}

func readJSON(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := json.NewDecoder(bufio.NewReader(f)).Decode(v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
