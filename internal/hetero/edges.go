package hetero

import (
	"log/slog"

	"github.com/rohankatakam/hetgraph/internal/errors"
)

// EdgePair is one directed edge as (source index, destination index)
type EdgePair struct {
	Src int
	Dst int
}

// EdgeSet is the ordered edge-index list of one relation triple.
// Input order is preserved and parallel edges are kept.
type EdgeSet struct {
	Type     EdgeType
	Pairs    []EdgePair
	Rejected int
}

// Len returns the number of edges
func (es *EdgeSet) Len() int {
	return len(es.Pairs)
}

// EdgeIndex returns the coordinate form: row 0 sources, row 1 destinations
func (es *EdgeSet) EdgeIndex() [2][]int {
	var out [2][]int
	out[0] = make([]int, len(es.Pairs))
	out[1] = make([]int, len(es.Pairs))
	for i, p := range es.Pairs {
		out[0][i] = p.Src
		out[1][i] = p.Dst
	}
	return out
}

// EdgeSetBuilder resolves relationship records against populated registries.
// Records whose endpoints were never observed as nodes are skipped, logged,
// and counted in EdgeSet.Rejected.
type EdgeSetBuilder struct {
	logger *slog.Logger
}

// NewEdgeSetBuilder creates a builder logging under the edge_builder component
func NewEdgeSetBuilder() *EdgeSetBuilder {
	return &EdgeSetBuilder{
		logger: slog.Default().With("component", "edge_builder"),
	}
}

// Build resolves every record of one relation triple
func (b *EdgeSetBuilder) Build(edgeType EdgeType, src, dst *NodeSet, records []EdgeRecord) *EdgeSet {
	es := &EdgeSet{Type: edgeType, Pairs: make([]EdgePair, 0, len(records))}

	for pos, record := range records {
		pair, err := resolve(edgeType, src, dst, record)
		if err != nil {
			es.Rejected++
			b.logger.Warn("edge rejected",
				"edge_type", edgeType.String(),
				"position", pos,
				"error", err)
			continue
		}
		es.Pairs = append(es.Pairs, pair)
	}

	if es.Rejected > 0 {
		b.logger.Warn("edge set built with rejections",
			"edge_type", edgeType.String(),
			"edges", es.Len(),
			"rejected", es.Rejected)
	} else {
		b.logger.Debug("edge set built",
			"edge_type", edgeType.String(),
			"edges", es.Len())
	}
	return es
}

func resolve(edgeType EdgeType, src, dst *NodeSet, record EdgeRecord) (EdgePair, error) {
	if record.Rel != "" && record.Rel != edgeType.Rel {
		return EdgePair{}, errors.ValidationErrorf("relation %s in %s batch", record.Rel, edgeType.Rel)
	}
	srcID, err := CanonicalID(record.SrcID)
	if err != nil {
		return EdgePair{}, err
	}
	dstID, err := CanonicalID(record.DstID)
	if err != nil {
		return EdgePair{}, err
	}
	s, err := src.Registry.Lookup(srcID)
	if err != nil {
		return EdgePair{}, err
	}
	d, err := dst.Registry.Lookup(dstID)
	if err != nil {
		return EdgePair{}, err
	}
	return EdgePair{Src: s, Dst: d}, nil
}
