package hetero

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rohankatakam/hetgraph/internal/errors"
	"golang.org/x/sync/errgroup"
)

// DefaultNodeLimit is the row cap applied per entity type when none is given
const DefaultNodeLimit = 25

// Source fetches raw records from the graph data source. Results must be
// fully materialized before the call returns.
type Source interface {
	FetchNodes(ctx context.Context, label string, limit int) ([]NodeRecord, error)
	FetchEdges(ctx context.Context, q EdgeQuery) ([]EdgeRecord, error)
}

// EdgeQuery names one relationship batch in source vocabulary.
// Limit <= 0 means no cap.
type EdgeQuery struct {
	SrcLabel string
	RelLabel string
	DstLabel string
	Limit    int
}

// NodeSpec declares one entity type to fetch and its feature columns
type NodeSpec struct {
	Type       EntityType
	Attributes []string
	Limit      int
}

// EdgeSpec declares one relation triple to fetch
type EdgeSpec struct {
	Type  EdgeType
	Limit int
}

// Plan lists every batch of one assembly run
type Plan struct {
	Nodes []NodeSpec
	Edges []EdgeSpec
}

// DefaultPlan covers transactions, users and accounts with their three
// wired relations. limit <= 0 falls back to DefaultNodeLimit.
func DefaultPlan(limit int) Plan {
	if limit <= 0 {
		limit = DefaultNodeLimit
	}
	return Plan{
		Nodes: []NodeSpec{
			{Type: EntityTransaction, Limit: limit},
			{Type: EntityUser, Limit: limit},
			{Type: EntityAccount, Limit: limit},
		},
		Edges: []EdgeSpec{
			{Type: AccountBelongsToUser},
			{Type: TransactionReceivedByAccount},
			{Type: TransactionTransferredByAccount},
		},
	}
}

// Validate checks that every edge endpoint is a planned entity type and that
// every node batch carries a positive row cap
func (p Plan) Validate() error {
	if len(p.Nodes) == 0 {
		return errors.ValidationErrorf("plan has no node types")
	}
	seen := make(map[EntityType]bool, len(p.Nodes))
	for _, n := range p.Nodes {
		if seen[n.Type] {
			return errors.ValidationErrorf("entity type %s planned twice", n.Type)
		}
		if n.Limit <= 0 {
			return errors.ValidationErrorf("entity type %s needs a positive row limit, got %d", n.Type, n.Limit)
		}
		seen[n.Type] = true
	}
	planned := make(map[EdgeType]bool, len(p.Edges))
	for _, e := range p.Edges {
		if !seen[e.Type.Src] || !seen[e.Type.Dst] {
			return errors.ValidationErrorf("edge type %s references an unplanned entity type", e.Type)
		}
		if planned[e.Type] {
			return errors.ValidationErrorf("edge type %s planned twice", e.Type)
		}
		planned[e.Type] = true
	}
	return nil
}

type runIDKey struct{}

// WithRunID tags ctx with an assembly run id so sources can attribute queries
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunIDFromContext returns the run id Assemble placed on ctx
func RunIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(runIDKey{}).(string)
	return id, ok && id != ""
}

// Assembler drives one assembly run: every node batch is fetched and built
// before any edge batch is fetched, so edges always resolve against complete
// registries.
type Assembler struct {
	source      Source
	nodes       *NodeSetBuilder
	edges       *EdgeSetBuilder
	concurrency int
	logger      *slog.Logger
}

// NewAssembler creates an assembler over the given source. Batches are
// fetched one at a time until WithFetchConcurrency says otherwise.
func NewAssembler(source Source) *Assembler {
	return &Assembler{
		source:      source,
		nodes:       NewNodeSetBuilder(),
		edges:       NewEdgeSetBuilder(),
		concurrency: 1,
		logger:      slog.Default().With("component", "assembler"),
	}
}

// WithFetchConcurrency bounds how many batches of one phase are in flight.
// The source must be safe for concurrent use when n > 1.
func (a *Assembler) WithFetchConcurrency(n int) *Assembler {
	if n < 1 {
		n = 1
	}
	a.concurrency = n
	return a
}

// Assemble runs the plan. Any fetch or node construction error aborts the
// run and no graph is returned.
func (a *Assembler) Assemble(ctx context.Context, plan Plan) (*HeteroGraph, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	g := &HeteroGraph{
		Nodes: make(map[EntityType]*NodeSet, len(plan.Nodes)),
		Edges: make(map[EdgeType]*EdgeSet, len(plan.Edges)),
		Meta: Meta{
			RunID:     uuid.NewString(),
			StartedAt: start,
			Rejected:  make(map[EdgeType]int),
		},
	}
	logger := a.logger.With("run_id", g.Meta.RunID)
	ctx = WithRunID(ctx, g.Meta.RunID)

	// Phase 1: nodes
	nodeBatches := make([][]NodeRecord, len(plan.Nodes))
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(a.concurrency)
	for i, spec := range plan.Nodes {
		i, spec := i, spec
		eg.Go(func() error {
			label := spec.Type.Label()
			if err := egctx.Err(); err != nil {
				return errors.SourceFetchErrorf(err, "fetch %s nodes", label)
			}
			records, err := a.source.FetchNodes(egctx, label, spec.Limit)
			if err != nil {
				return errors.SourceFetchErrorf(err, "fetch %s nodes", label)
			}
			logger.Debug("node batch fetched", "entity_type", spec.Type, "records", len(records))
			nodeBatches[i] = records
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	for i, spec := range plan.Nodes {
		ns, err := a.nodes.Build(spec.Type, spec.Attributes, nodeBatches[i])
		if err != nil {
			return nil, err
		}
		g.Nodes[spec.Type] = ns
	}

	// Phase 2: edges
	edgeBatches := make([][]EdgeRecord, len(plan.Edges))
	eg, egctx = errgroup.WithContext(ctx)
	eg.SetLimit(a.concurrency)
	for i, spec := range plan.Edges {
		i, spec := i, spec
		eg.Go(func() error {
			q := EdgeQuery{
				SrcLabel: spec.Type.Src.Label(),
				RelLabel: spec.Type.Rel.Label(),
				DstLabel: spec.Type.Dst.Label(),
				Limit:    spec.Limit,
			}
			if err := egctx.Err(); err != nil {
				return errors.SourceFetchErrorf(err, "fetch %s edges", q.RelLabel)
			}
			records, err := a.source.FetchEdges(egctx, q)
			if err != nil {
				return errors.SourceFetchErrorf(err, "fetch %s edges", q.RelLabel)
			}
			logger.Debug("edge batch fetched", "edge_type", spec.Type.String(), "records", len(records))
			edgeBatches[i] = records
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	for i, spec := range plan.Edges {
		es := a.edges.Build(spec.Type, g.Nodes[spec.Type.Src], g.Nodes[spec.Type.Dst], edgeBatches[i])
		g.Edges[spec.Type] = es
		g.Meta.Rejected[spec.Type] = es.Rejected
	}

	g.Meta.Duration = time.Since(start)
	logger.Info("heterogeneous graph assembled",
		"node_types", len(g.Nodes),
		"edge_types", len(g.Edges),
		"rejected_edges", g.Meta.TotalRejected(),
		"duration", g.Meta.Duration)
	return g, nil
}
