package graph

import (
	"fmt"
	"regexp"

	"github.com/rohankatakam/hetgraph/internal/hetero"
)

var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// CypherBuilder builds parameterized fetch queries.
// Labels and relationship types cannot be parameters in Cypher, so they are
// validated as identifiers; every value goes through a parameter.
type CypherBuilder struct {
	params  map[string]any
	counter int
}

// NewCypherBuilder creates a query builder
func NewCypherBuilder() *CypherBuilder {
	return &CypherBuilder{
		params: make(map[string]any),
	}
}

// AddParam adds a parameter and returns its placeholder
func (b *CypherBuilder) AddParam(value any) string {
	paramName := fmt.Sprintf("p%d", b.counter)
	b.counter++
	b.params[paramName] = value
	return "$" + paramName
}

// Params returns all parameters for the query
func (b *CypherBuilder) Params() map[string]any {
	return b.params
}

// BuildNodeFetch returns up to limit property maps of label, ordered by id
// so repeated runs assign the same dense indices
func (b *CypherBuilder) BuildNodeFetch(label string, limit int) (string, error) {
	if !isValidIdentifier(label) {
		return "", fmt.Errorf("invalid node label: %s (must be alphanumeric + underscore)", label)
	}
	if limit <= 0 {
		return "", fmt.Errorf("node fetch for %s needs a positive limit, got %d", label, limit)
	}
	limitParam := b.AddParam(int64(limit))
	return fmt.Sprintf(
		"MATCH (n:%s) RETURN properties(n) AS props ORDER BY n.%s LIMIT %s",
		label, hetero.IDKey, limitParam,
	), nil
}

// BuildEdgeFetch returns endpoint ids of every relationship matching q.
// A non-positive limit fetches all relationships.
func (b *CypherBuilder) BuildEdgeFetch(q hetero.EdgeQuery) (string, error) {
	for _, ident := range []string{q.SrcLabel, q.RelLabel, q.DstLabel} {
		if !isValidIdentifier(ident) {
			return "", fmt.Errorf("invalid identifier in edge query: %q", ident)
		}
	}
	query := fmt.Sprintf(
		"MATCH (s:%s)-[:%s]->(d:%s) RETURN s.%s AS src, d.%s AS dst",
		q.SrcLabel, q.RelLabel, q.DstLabel, hetero.IDKey, hetero.IDKey,
	)
	if q.Limit > 0 {
		query += " LIMIT " + b.AddParam(int64(q.Limit))
	}
	return query, nil
}

// isValidIdentifier validates that a string can be safely used as a Cypher identifier
func isValidIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}
