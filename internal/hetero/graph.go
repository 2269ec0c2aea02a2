package hetero

import (
	"sort"
	"time"
)

// HeteroGraph is the assembled heterogeneous graph. It is not modified after
// Assemble returns.
type HeteroGraph struct {
	Nodes map[EntityType]*NodeSet
	Edges map[EdgeType]*EdgeSet
	Meta  Meta
}

// Meta describes one assembly run
type Meta struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Rejected  map[EdgeType]int
}

// TotalRejected sums rejected edges across all relation triples
func (m Meta) TotalRejected() int {
	total := 0
	for _, n := range m.Rejected {
		total += n
	}
	return total
}

// Summary is a serializable overview of a graph
type Summary struct {
	RunID      string        `yaml:"run_id" json:"run_id"`
	DurationMS int64         `yaml:"duration_ms" json:"duration_ms"`
	Nodes      []NodeSummary `yaml:"nodes" json:"nodes"`
	Edges      []EdgeSummary `yaml:"edges" json:"edges"`
}

// NodeSummary describes one entity type's matrix
type NodeSummary struct {
	Type       EntityType `yaml:"type" json:"type"`
	Rows       int        `yaml:"rows" json:"rows"`
	Attributes []string   `yaml:"attributes" json:"attributes"`
}

// EdgeSummary describes one relation triple's edge list
type EdgeSummary struct {
	Type     string `yaml:"type" json:"type"`
	Edges    int    `yaml:"edges" json:"edges"`
	Rejected int    `yaml:"rejected" json:"rejected"`
}

// Summary returns counts per type in a stable order
func (g *HeteroGraph) Summary() Summary {
	s := Summary{
		RunID:      g.Meta.RunID,
		DurationMS: g.Meta.Duration.Milliseconds(),
	}
	for _, ns := range g.Nodes {
		s.Nodes = append(s.Nodes, NodeSummary{Type: ns.Type, Rows: ns.Len(), Attributes: ns.Attributes})
	}
	for _, es := range g.Edges {
		s.Edges = append(s.Edges, EdgeSummary{Type: es.Type.String(), Edges: es.Len(), Rejected: es.Rejected})
	}
	sort.Slice(s.Nodes, func(i, j int) bool { return s.Nodes[i].Type < s.Nodes[j].Type })
	sort.Slice(s.Edges, func(i, j int) bool { return s.Edges[i].Type < s.Edges[j].Type })
	return s
}
