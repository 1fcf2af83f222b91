package graph

import (
	"testing"
)

func TestUnionFind(t *testing.T) {
	uf := NewUnionFind(5)

	// Initially all separate.
	for i := range 5 {
		if uf.Find(i) != i {
			t.Errorf("Find(%d) = %d, want %d", i, uf.Find(i), i)
		}
	}

	uf.Union(0, 1)
	if uf.Find(0) != uf.Find(1) {
		t.Error("0 and 1 should be in same set")
	}

	uf.Union(2, 3)
	if uf.Find(2) != uf.Find(3) {
		t.Error("2 and 3 should be in same set")
	}

	if uf.Find(0) == uf.Find(2) {
		t.Error("0 and 2 should be in different sets")
	}

	if uf.Union(1, 3) != true {
		t.Error("Union(1, 3) should merge two sets")
	}
	if uf.Find(0) != uf.Find(3) {
		t.Error("0 and 3 should now be in same set")
	}
	if uf.Size(2) != 4 {
		t.Errorf("Size(2) = %d, want 4", uf.Size(2))
	}
	if uf.Union(0, 2) {
		t.Error("Union(0, 2) should report already merged")
	}
}

func TestLargestComponent(t *testing.T) {
	// Component 1: a - b - c (3 nodes)
	// Component 2: d - e (2 nodes)
	in := Input{
		Nodes: []Node{
			{ID: "a", Lat: 1.0, Lng: 103.0},
			{ID: "b", Lat: 1.1, Lng: 103.1},
			{ID: "c", Lat: 1.2, Lng: 103.2},
			{ID: "d", Lat: 2.0, Lng: 104.0},
			{ID: "e", Lat: 2.1, Lng: 104.1},
		},
		Edges: []Edge{
			{From: "a", To: "b", Distance: 100},
			{From: "c", To: "b", Distance: 200},
			{From: "d", To: "e", Distance: 300},
		},
	}

	out := LargestComponent(in)

	if len(out.Nodes) != 3 {
		t.Fatalf("LargestComponent has %d nodes, want 3", len(out.Nodes))
	}
	if len(out.Edges) != 2 {
		t.Fatalf("LargestComponent has %d edges, want 2", len(out.Edges))
	}

	var total float64
	for _, e := range out.Edges {
		total += e.Distance
	}
	if total != 300 {
		t.Errorf("total distance = %f, want 300", total)
	}
}

func TestLargestComponentDropsDanglingEdges(t *testing.T) {
	in := Input{
		Nodes: []Node{{ID: "a"}, {ID: "b"}},
		Edges: []Edge{
			{From: "a", To: "b", Distance: 1},
			{From: "a", To: "ghost", Distance: 1},
		},
	}

	out := LargestComponent(in)
	if len(out.Edges) != 1 {
		t.Fatalf("got %d edges, want 1", len(out.Edges))
	}
	if out.Edges[0].To != "b" {
		t.Errorf("kept edge to %q, want b", out.Edges[0].To)
	}
}

func TestLargestComponentEmpty(t *testing.T) {
	out := LargestComponent(Input{})
	if len(out.Nodes) != 0 || len(out.Edges) != 0 {
		t.Errorf("expected empty input, got %d nodes, %d edges", len(out.Nodes), len(out.Edges))
	}
}
