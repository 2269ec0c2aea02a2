package featurestore

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backings returns every backing that can run in a test environment.
// Redis and Postgres join only when REDIS_ADDR / DATABASE_URL are set.
func backings(t *testing.T) map[string]Backing {
	t.Helper()
	ctx := context.Background()
	out := map[string]Backing{"memory": NewMemoryBacking()}

	bolt, err := NewBoltBacking(filepath.Join(t.TempDir(), "features.db"))
	require.NoError(t, err)
	out["bolt"] = bolt

	lite, err := NewSQLiteBacking(filepath.Join(t.TempDir(), "features.sqlite"))
	require.NoError(t, err)
	out["sqlite"] = lite

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		r, err := NewRedisBacking(ctx, addr, os.Getenv("REDIS_PASSWORD"), 0, "hetgraph-test:"+t.Name()+":")
		require.NoError(t, err)
		out["redis"] = r
	}
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		pg, err := NewPostgresBacking(dsn)
		require.NoError(t, err)
		_, err = pg.db.Exec(`DELETE FROM feature_cache WHERE key LIKE 'hetgraph-test-%'`)
		require.NoError(t, err)
		out["postgres"] = pg
	}

	t.Cleanup(func() {
		for _, b := range out {
			b.Close()
		}
	})
	return out
}

func TestStore_PutThenGet(t *testing.T) {
	ctx := context.Background()
	for name, b := range backings(t) {
		t.Run(name, func(t *testing.T) {
			s := New(b)
			require.NoError(t, s.Put(ctx, "hetgraph-test-x", []int{1, 2, 3}))

			got, err := s.Get(ctx, "hetgraph-test-x", []int{0, 0, 0})
			require.NoError(t, err)
			assert.Equal(t, []int{3}, got.Shape)
			assert.Equal(t, []float64{1, 2, 3}, got.Data)
		})
	}
}

func TestStore_MissReturnsDefaultWithoutInserting(t *testing.T) {
	ctx := context.Background()
	for name, b := range backings(t) {
		t.Run(name, func(t *testing.T) {
			s := New(b)

			for i := 0; i < 2; i++ {
				got, err := s.Get(ctx, "hetgraph-test-y", []int{0, 0, 0})
				require.NoError(t, err)
				assert.Equal(t, []float64{0, 0, 0}, got.Data)

				found, err := s.Has(ctx, "hetgraph-test-y")
				require.NoError(t, err)
				assert.False(t, found)
			}
		})
	}
}

func TestStore_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	for name, b := range backings(t) {
		t.Run(name, func(t *testing.T) {
			s := New(b)
			require.NoError(t, s.Put(ctx, "hetgraph-test-k", [][]float64{{1, 2}, {3, 4}}))
			require.NoError(t, s.Put(ctx, "hetgraph-test-k", 2.5))

			got, err := s.Get(ctx, "hetgraph-test-k", 0)
			require.NoError(t, err)
			assert.Empty(t, got.Shape)
			assert.Equal(t, []float64{2.5}, got.Data)
		})
	}
}

func TestStore_RaggedDefaultFails(t *testing.T) {
	s := New(NewMemoryBacking())

	_, err := s.Get(context.Background(), "missing", []any{[]any{1, 2}, []any{3}})
	assert.Error(t, err)
}

func TestStore_RaggedStoredValueFailsOnRead(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryBacking())

	// no coercion on write
	require.NoError(t, s.Put(ctx, "bad", []any{[]any{1}, []any{2, 3}}))
	_, err := s.Get(ctx, "bad", 0)
	assert.Error(t, err)
}

func TestStore_StoredArrayRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, b := range backings(t) {
		t.Run(name, func(t *testing.T) {
			s := New(b)
			want, err := Coerce([][][]int{{{1, 2}}, {{3, 4}}})
			require.NoError(t, err)

			require.NoError(t, s.Put(ctx, "hetgraph-test-arr", want))
			got, err := s.Get(ctx, "hetgraph-test-arr", nil)
			require.NoError(t, err)
			assert.True(t, want.Equal(got))
		})
	}
}

func TestStore_NonFiniteRoundTrip(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		value any
		want  []float64
	}{
		{name: "nan", value: []float64{1, math.NaN(), 3}, want: []float64{1, math.NaN(), 3}},
		{name: "inf", value: [][]float64{{math.Inf(1)}, {math.Inf(-1)}}, want: []float64{math.Inf(1), math.Inf(-1)}},
	}

	for name, b := range backings(t) {
		for _, tt := range tests {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				s := New(b)
				key := "hetgraph-test-nonfinite-" + tt.name
				require.NoError(t, s.Put(ctx, key, tt.value))

				got, err := s.Get(ctx, key, []float64{0, 0, 0})
				require.NoError(t, err)
				require.Len(t, got.Data, len(tt.want))
				for i, w := range tt.want {
					if math.IsNaN(w) {
						assert.True(t, math.IsNaN(got.Data[i]), "element %d", i)
					} else {
						assert.Equal(t, w, got.Data[i], "element %d", i)
					}
				}
			})
		}
	}
}

func TestStore_KeyFunc(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBacking()
	s := NewWithKeyFunc(b, func(id int) string { return "user:" + strconv.Itoa(id) })

	require.NoError(t, s.Put(ctx, 42, []float64{0.1, 0.2}))

	found, err := b.Has(ctx, "user:42")
	require.NoError(t, err)
	assert.True(t, found)

	got, err := s.Get(ctx, 42, []float64{0, 0})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2}, got.Data)
	assert.Equal(t, 1, b.Len())
}

func TestBoltBacking_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "features.db")

	b, err := NewBoltBacking(path)
	require.NoError(t, err)
	require.NoError(t, New(b).Put(ctx, "acct:1", []int{5, 6}))
	require.NoError(t, b.Close())

	b, err = NewBoltBacking(path)
	require.NoError(t, err)
	defer b.Close()

	got, err := New(b).Get(ctx, "acct:1", []int{0, 0})
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 6}, got.Data)
}

func TestBackingGetMissing(t *testing.T) {
	ctx := context.Background()
	for name, b := range backings(t) {
		t.Run(name, func(t *testing.T) {
			_, err := b.Get(ctx, "hetgraph-test-absent")
			assert.ErrorIs(t, err, ErrKeyNotFound)
		})
	}
}

func TestEncodeValue_Unserializable(t *testing.T) {
	_, err := encodeValue("k", make(chan int))
	assert.Error(t, err)
}

func TestEncodeValue_NonFiniteUncoercible(t *testing.T) {
	_, err := encodeValue("k", map[string]float64{"a": math.NaN()})
	assert.Error(t, err)
}
