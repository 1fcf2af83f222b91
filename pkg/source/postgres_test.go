package source

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navurbana/navrouter/pkg/graph"
)

// fakeRows replays a fixed result set through the pgx.Rows interface.
type fakeRows struct {
	rows [][]any
	i    int
	err  error
}

var _ pgx.Rows = (*fakeRows)(nil)

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.i >= len(r.rows) {
		return false
	}
	r.i++
	return true
}

func (r *fakeRows) Values() ([]any, error) {
	return r.rows[r.i-1], nil
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.i-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: %d targets for %d columns", len(dest), len(row))
	}
	for k, d := range dest {
		switch d := d.(type) {
		case *string:
			*d = row[k].(string)
		case *float64:
			*d = row[k].(float64)
		case *[]byte:
			*d = row[k].([]byte)
		default:
			return fmt.Errorf("scan: unsupported target %T", d)
		}
	}
	return nil
}

// fakeDB answers queries by table name and records copies and execs.
type fakeDB struct {
	nodes    [][]any
	edges    [][]any
	queryErr error

	execs  []string
	copied map[string][][]any
}

func (db *fakeDB) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	if db.queryErr != nil {
		return nil, db.queryErr
	}
	if strings.Contains(sql, "FROM nodes") {
		return &fakeRows{rows: db.nodes}, nil
	}
	return &fakeRows{rows: db.edges}, nil
}

func (db *fakeDB) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	db.execs = append(db.execs, sql)
	return pgconn.CommandTag{}, nil
}

func (db *fakeDB) CopyFrom(_ context.Context, table pgx.Identifier, _ []string, src pgx.CopyFromSource) (int64, error) {
	if db.copied == nil {
		db.copied = make(map[string][][]any)
	}
	var n int64
	for src.Next() {
		vals, err := src.Values()
		if err != nil {
			return n, err
		}
		db.copied[table[0]] = append(db.copied[table[0]], vals)
		n++
	}
	return n, src.Err()
}

func TestLoadPostgres(t *testing.T) {
	db := &fakeDB{
		nodes: [][]any{
			{"a", -23.6, -46.6},
			{"b", -23.6, -46.59},
		},
		edges: [][]any{
			{"a", "b", 1000.0, 0.0, "walking", "Rua Um", []byte(`[{"lat":-23.6,"lng":-46.6},{"lat":-23.601,"lng":-46.595},{"lat":-23.6,"lng":-46.59}]`)},
			{"b", "a", 1000.0, 60.0, "car", "", []byte(`[]`)},
		},
	}

	in, err := LoadPostgres(context.Background(), db)
	require.NoError(t, err)
	require.Len(t, in.Nodes, 2)
	require.Len(t, in.Edges, 2)

	assert.Equal(t, graph.Node{ID: "a", Lat: -23.6, Lng: -46.6}, in.Nodes[0])

	e := in.Edges[0]
	assert.Equal(t, graph.ModeWalking, e.Mode)
	assert.Equal(t, "Rua Um", e.StreetName)
	require.Len(t, e.Geometry, 3)
	assert.Equal(t, graph.LatLng{Lat: -23.601, Lng: -46.595}, e.Geometry[1])

	assert.Nil(t, in.Edges[1].Geometry)
	assert.Equal(t, 60.0, in.Edges[1].Duration)

	_, err = graph.Build(in)
	assert.NoError(t, err)
}

func TestLoadPostgresErrors(t *testing.T) {
	t.Run("query", func(t *testing.T) {
		boom := errors.New("connection refused")
		_, err := LoadPostgres(context.Background(), &fakeDB{queryErr: boom})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("bad geometry", func(t *testing.T) {
		db := &fakeDB{
			nodes: [][]any{{"a", 0.0, 0.0}, {"b", 0.0, 1.0}},
			edges: [][]any{{"a", "b", 1.0, 0.0, "car", "", []byte(`{"lat":`)}},
		}
		_, err := LoadPostgres(context.Background(), db)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad geometry")
	})
}

func TestSavePostgres(t *testing.T) {
	in := graph.Input{
		Nodes: []graph.Node{{ID: "a", Lat: 1, Lng: 2}, {ID: "b", Lat: 3, Lng: 4}},
		Edges: []graph.Edge{
			{From: "a", To: "b", Distance: 10, StreetName: "Rua Um",
				Geometry: []graph.LatLng{{Lat: 1, Lng: 2}, {Lat: 3, Lng: 4}}},
		},
	}
	db := &fakeDB{}
	require.NoError(t, SavePostgres(context.Background(), db, in))

	require.Len(t, db.execs, 1)
	assert.Contains(t, db.execs[0], "CREATE TABLE IF NOT EXISTS edges")

	assert.Equal(t, [][]any{{"a", 1.0, 2.0}, {"b", 3.0, 4.0}}, db.copied["nodes"])
	require.Len(t, db.copied["edges"], 1)
	row := db.copied["edges"][0]
	assert.Equal(t, "car", row[4], "empty mode is stored as car")
	assert.JSONEq(t, `[{"lat":1,"lng":2},{"lat":3,"lng":4}]`, row[6].(string))
}
