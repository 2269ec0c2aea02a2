package graph

import (
	"context"
	"fmt"
	"os"

	"github.com/rohankatakam/hetgraph/internal/hetero"
	"gopkg.in/yaml.v3"
)

// Fixture is an in-file graph: node property maps keyed by label and
// relationship endpoints keyed by relationship type.
//
//	nodes:
//	  Account:
//	    - {id: a1, balance: 10}
//	edges:
//	  BELONGS_TO:
//	    - {src: a1, dst: u1}
type Fixture struct {
	Nodes map[string][]map[string]any `yaml:"nodes"`
	Edges map[string][]FixtureEdge    `yaml:"edges"`
}

// FixtureEdge is one relationship in a fixture
type FixtureEdge struct {
	Src any `yaml:"src"`
	Dst any `yaml:"dst"`
}

// FixtureSource serves batches from a Fixture with the same row-cap
// semantics as the Neo4j source. Unknown labels yield empty batches.
type FixtureSource struct {
	fixture Fixture
}

// NewFixtureSource wraps an in-memory fixture
func NewFixtureSource(f Fixture) *FixtureSource {
	return &FixtureSource{fixture: f}
}

// LoadFixture reads a YAML fixture file
func LoadFixture(path string) (*FixtureSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return NewFixtureSource(f), nil
}

func (s *FixtureSource) FetchNodes(ctx context.Context, label string, limit int) ([]hetero.NodeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows := s.fixture.Nodes[label]
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	out := make([]hetero.NodeRecord, len(rows))
	for i, row := range rows {
		out[i] = hetero.NodeRecord(row)
	}
	return out, nil
}

func (s *FixtureSource) FetchEdges(ctx context.Context, q hetero.EdgeQuery) ([]hetero.EdgeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows := s.fixture.Edges[q.RelLabel]
	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}
	out := make([]hetero.EdgeRecord, len(rows))
	for i, row := range rows {
		out[i] = hetero.EdgeRecord{SrcID: row.Src, DstID: row.Dst}
	}
	return out, nil
}
