package hetero

import (
	stderrors "errors"
	"testing"

	"github.com/rohankatakam/hetgraph/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeSetBuilder_InferredSchema(t *testing.T) {
	records := []NodeRecord{
		{"id": 1, "a": 10, "b": 20},
		{"id": 2, "a": 30, "b": 40},
	}

	ns, err := NewNodeSetBuilder().Build("t", nil, records)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, ns.Attributes)
	assert.Equal(t, [][]float64{{10, 20}, {30, 40}}, ns.Features)
	assert.Equal(t, map[string]int{"1": 0, "2": 1}, ns.Registry.Mapping())
	assert.Equal(t, ns.Len(), ns.Registry.Size())
}

func TestNodeSetBuilder_DeclaredSchemaOrder(t *testing.T) {
	records := []NodeRecord{
		{"id": "acc-1", "balance": 250.5, "age_days": int64(12), "frozen": false, "currency": "GBP"},
		{"id": "acc-2", "balance": 10.0, "age_days": int64(400), "frozen": true, "currency": "EUR"},
	}

	ns, err := NewNodeSetBuilder().Build(EntityAccount, []string{"frozen", "balance", "age_days"}, records)
	require.NoError(t, err)

	assert.Equal(t, []string{"frozen", "balance", "age_days"}, ns.Attributes)
	assert.Equal(t, [][]float64{{0, 250.5, 12}, {1, 10, 400}}, ns.Features)

	for pos, id := range ns.Registry.IDs() {
		got, err := ns.Registry.Lookup(id)
		require.NoError(t, err)
		assert.Equal(t, pos, got)
	}
}

func TestNodeSetBuilder_DuplicateIDAborts(t *testing.T) {
	records := []NodeRecord{
		{"id": 1, "a": 1},
		{"id": 1, "a": 2},
	}

	ns, err := NewNodeSetBuilder().Build("t", nil, records)
	require.Error(t, err)
	assert.Nil(t, ns)
	assert.True(t, stderrors.Is(err, errors.ErrDuplicateIdentifier))
}

func TestNodeSet_AddIsAtomic(t *testing.T) {
	ns := NewNodeSet("t", []string{"a", "b"})
	_, err := ns.Add(NodeRecord{"id": 1, "a": 1, "b": 2})
	require.NoError(t, err)

	tests := []struct {
		name   string
		record NodeRecord
	}{
		{name: "duplicate id", record: NodeRecord{"id": 1, "a": 3, "b": 4}},
		{name: "missing declared attribute", record: NodeRecord{"id": 2, "a": 3}},
		{name: "non-numeric value", record: NodeRecord{"id": 3, "a": "x", "b": 4}},
		{name: "missing id", record: NodeRecord{"a": 3, "b": 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ns.Add(tt.record)
			require.Error(t, err)
			assert.Equal(t, 1, ns.Len())
			assert.Equal(t, 1, ns.Registry.Size())
		})
	}
}

func TestNodeSet_InferredSchemaRejectsDifferentAttributeSet(t *testing.T) {
	ns := NewNodeSet("t", nil)
	_, err := ns.Add(NodeRecord{"id": 1, "a": 1, "b": 2})
	require.NoError(t, err)

	_, err = ns.Add(NodeRecord{"id": 2, "a": 1, "b": 2, "c": 3})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrValidation))

	_, err = ns.Add(NodeRecord{"id": 3, "a": 1, "c": 3})
	require.Error(t, err)

	assert.Equal(t, 1, ns.Len())
}

func TestNodeSet_FailedFirstRecordKeepsSchemaOpen(t *testing.T) {
	ns := NewNodeSet("t", nil)
	_, err := ns.Add(NodeRecord{"id": 1, "a": "not a number"})
	require.Error(t, err)
	assert.Nil(t, ns.Attributes)

	_, err = ns.Add(NodeRecord{"id": 1, "x": 5})
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, ns.Attributes)
}

func TestNodeSet_Matrix(t *testing.T) {
	ns := NewNodeSet("t", nil)
	assert.Nil(t, ns.Matrix())

	_, err := ns.Add(NodeRecord{"id": 1, "a": 10, "b": 20})
	require.NoError(t, err)
	_, err = ns.Add(NodeRecord{"id": 2, "a": 30, "b": 40})
	require.NoError(t, err)

	m := ns.Matrix()
	require.NotNil(t, m)
	rows, cols := m.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, 30.0, m.At(1, 0))
}
