package graph

import (
	"context"
	"testing"
	"time"

	"github.com/rohankatakam/hetgraph/internal/hetero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildNodeFetch(t *testing.T) {
	b := NewCypherBuilder()
	query, err := b.BuildNodeFetch("Transaction", 25)
	require.NoError(t, err)

	assert.Equal(t, "MATCH (n:Transaction) RETURN properties(n) AS props ORDER BY n.id LIMIT $p0", query)
	assert.Equal(t, map[string]any{"p0": int64(25)}, b.Params())
}

func TestBuildNodeFetch_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		label string
		limit int
	}{
		{name: "injection", label: "User) DETACH DELETE n //", limit: 5},
		{name: "empty label", label: "", limit: 5},
		{name: "leading digit", label: "9User", limit: 5},
		{name: "no cap", label: "User", limit: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCypherBuilder().BuildNodeFetch(tt.label, tt.limit)
			assert.Error(t, err)
		})
	}
}

func TestBuildEdgeFetch(t *testing.T) {
	q := hetero.EdgeQuery{SrcLabel: "Account", RelLabel: "BELONGS_TO", DstLabel: "User"}

	b := NewCypherBuilder()
	query, err := b.BuildEdgeFetch(q)
	require.NoError(t, err)
	assert.Equal(t, "MATCH (s:Account)-[:BELONGS_TO]->(d:User) RETURN s.id AS src, d.id AS dst", query)
	assert.Empty(t, b.Params())

	q.Limit = 100
	b = NewCypherBuilder()
	query, err = b.BuildEdgeFetch(q)
	require.NoError(t, err)
	assert.Contains(t, query, "LIMIT $p0")
	assert.Equal(t, int64(100), b.Params()["p0"])

	q.RelLabel = "BELONGS_TO]->() DELETE s //"
	_, err = NewCypherBuilder().BuildEdgeFetch(q)
	assert.Error(t, err)
}

func TestTransactionConfig(t *testing.T) {
	cfg := GetConfigForOperation("node_fetch")
	assert.Len(t, cfg.AsNeo4jConfig(), 2)

	custom := cfg.WithCustomMetadata("run_id", "abc")
	assert.Equal(t, "abc", custom.Metadata["run_id"])
	_, leaked := cfg.Metadata["run_id"]
	assert.False(t, leaked)

	unknown := GetConfigForOperation("mystery")
	assert.Equal(t, "unknown", unknown.Metadata["type"])
	assert.Len(t, TransactionConfig{}.AsNeo4jConfig(), 0)
}

func TestClientTxConfig(t *testing.T) {
	c := &Client{timeout: 15 * time.Second}

	plain := c.txConfig(context.Background(), "edge_fetch")
	assert.Equal(t, 15*time.Second, plain.Timeout)
	assert.NotContains(t, plain.Metadata, "run_id")

	tagged := c.txConfig(hetero.WithRunID(context.Background(), "run-7"), "edge_fetch")
	assert.Equal(t, "run-7", tagged.Metadata["run_id"])
	assert.Equal(t, "edge_fetch", tagged.Metadata["operation"])

	defaults := (&Client{}).txConfig(context.Background(), "node_fetch")
	assert.Equal(t, 60*time.Second, defaults.Timeout)
}
