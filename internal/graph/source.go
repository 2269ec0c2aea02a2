package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rohankatakam/hetgraph/internal/hetero"
)

// Neo4jSource fetches node and relationship batches for the assembler.
// Each fetch opens its own session, so it is safe for concurrent use.
type Neo4jSource struct {
	client *Client
}

// NewNeo4jSource creates a source over a connected client
func NewNeo4jSource(client *Client) *Neo4jSource {
	return &Neo4jSource{client: client}
}

// FetchNodes returns up to limit property maps for label
func (s *Neo4jSource) FetchNodes(ctx context.Context, label string, limit int) ([]hetero.NodeRecord, error) {
	builder := NewCypherBuilder()
	query, err := builder.BuildNodeFetch(label, limit)
	if err != nil {
		return nil, err
	}
	records, err := s.client.ReadAll(ctx, "node_fetch", query, builder.Params())
	if err != nil {
		return nil, err
	}
	return nodeRecords(records)
}

// FetchEdges returns the endpoint ids of every matching relationship
func (s *Neo4jSource) FetchEdges(ctx context.Context, q hetero.EdgeQuery) ([]hetero.EdgeRecord, error) {
	builder := NewCypherBuilder()
	query, err := builder.BuildEdgeFetch(q)
	if err != nil {
		return nil, err
	}
	records, err := s.client.ReadAll(ctx, "edge_fetch", query, builder.Params())
	if err != nil {
		return nil, err
	}
	return edgeRecords(records)
}

func nodeRecords(records []*neo4j.Record) ([]hetero.NodeRecord, error) {
	out := make([]hetero.NodeRecord, 0, len(records))
	for i, record := range records {
		raw, ok := record.Get("props")
		if !ok {
			return nil, fmt.Errorf("node record %d has no props column", i)
		}
		props, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("unexpected type for props: %T (expected map)", raw)
		}
		out = append(out, hetero.NodeRecord(props))
	}
	return out, nil
}

func edgeRecords(records []*neo4j.Record) ([]hetero.EdgeRecord, error) {
	out := make([]hetero.EdgeRecord, 0, len(records))
	for i, record := range records {
		src, ok := record.Get("src")
		if !ok {
			return nil, fmt.Errorf("edge record %d has no src column", i)
		}
		dst, ok := record.Get("dst")
		if !ok {
			return nil, fmt.Errorf("edge record %d has no dst column", i)
		}
		// the query already filters on relationship type
		out = append(out, hetero.EdgeRecord{SrcID: src, DstID: dst})
	}
	return out, nil
}
