package hetero

import (
	"log/slog"
	"sort"

	"github.com/rohankatakam/hetgraph/internal/errors"
	"gonum.org/v1/gonum/mat"
)

// NodeSet holds one entity type's feature matrix and index registry.
// Row i of Features belongs to the id registered at index i.
type NodeSet struct {
	Type       EntityType
	Attributes []string
	Features   [][]float64
	Registry   *IndexRegistry[string]

	inferred bool
}

// NewNodeSet creates an empty node set. A nil attribute list means the
// column order is inferred from the first record (sorted, id excluded).
func NewNodeSet(entity EntityType, attributes []string) *NodeSet {
	ns := &NodeSet{
		Type:     entity,
		Registry: NewIndexRegistry[string](string(entity)),
		inferred: len(attributes) == 0,
	}
	if !ns.inferred {
		ns.Attributes = append([]string(nil), attributes...)
	}
	return ns
}

// Add extracts the record's row and registers its id. On error nothing changes.
func (ns *NodeSet) Add(record NodeRecord) (int, error) {
	id, err := CanonicalID(record[IDKey])
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrorTypeValidation, errors.SeverityHigh,
			"invalid "+string(ns.Type)+" record")
	}

	attributes := ns.Attributes
	if ns.inferred {
		if attributes == nil {
			attributes = recordAttributes(record)
		} else if err := sameAttributeSet(attributes, record); err != nil {
			return 0, err.WithContext("id", id)
		}
	}

	row := make([]float64, len(attributes))
	for i, attr := range attributes {
		v, ok := record[attr]
		if !ok {
			return 0, errors.ValidationErrorf("%s %s: missing attribute %s", ns.Type, id, attr).
				WithContext("id", id)
		}
		f, err := featureValue(attr, v)
		if err != nil {
			return 0, errors.Wrap(err, errors.ErrorTypeValidation, errors.SeverityHigh,
				string(ns.Type)+" "+id)
		}
		row[i] = f
	}

	index, err := ns.Registry.Register(id)
	if err != nil {
		return 0, err
	}
	ns.Attributes = attributes
	ns.Features = append(ns.Features, row)
	return index, nil
}

// Len returns the number of rows
func (ns *NodeSet) Len() int {
	return len(ns.Features)
}

// Matrix returns the feature matrix as a dense gonum matrix.
// Returns nil when there are no rows or no columns.
func (ns *NodeSet) Matrix() *mat.Dense {
	rows, cols := len(ns.Features), len(ns.Attributes)
	if rows == 0 || cols == 0 {
		return nil
	}
	data := make([]float64, 0, rows*cols)
	for _, row := range ns.Features {
		data = append(data, row...)
	}
	return mat.NewDense(rows, cols, data)
}

func recordAttributes(record NodeRecord) []string {
	attrs := make([]string, 0, len(record))
	for k := range record {
		if k != IDKey {
			attrs = append(attrs, k)
		}
	}
	sort.Strings(attrs)
	return attrs
}

func sameAttributeSet(attributes []string, record NodeRecord) *errors.Error {
	n := len(record)
	if _, ok := record[IDKey]; ok {
		n--
	}
	for _, attr := range attributes {
		if _, ok := record[attr]; !ok {
			return errors.ValidationErrorf("record is missing attribute %s seen on first record", attr)
		}
	}
	if n != len(attributes) {
		return errors.ValidationErrorf("record has %d attributes, first record had %d", n, len(attributes))
	}
	return nil
}

// NodeSetBuilder turns raw entity batches into node sets
type NodeSetBuilder struct {
	logger *slog.Logger
}

// NewNodeSetBuilder creates a builder logging under the node_builder component
func NewNodeSetBuilder() *NodeSetBuilder {
	return &NodeSetBuilder{
		logger: slog.Default().With("component", "node_builder"),
	}
}

// Build consumes records for one entity type in order. The first faulty
// record aborts construction of the type.
func (b *NodeSetBuilder) Build(entity EntityType, attributes []string, records []NodeRecord) (*NodeSet, error) {
	ns := NewNodeSet(entity, attributes)
	for pos, record := range records {
		if _, err := ns.Add(record); err != nil {
			b.logger.Error("node record rejected",
				"entity_type", entity,
				"position", pos,
				"error", err)
			return nil, err
		}
	}

	b.logger.Debug("node set built",
		"entity_type", entity,
		"rows", ns.Len(),
		"columns", len(ns.Attributes))
	return ns, nil
}
