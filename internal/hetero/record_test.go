package hetero

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalID(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    string
		wantErr bool
	}{
		{name: "string", input: "acc-1", want: "acc-1"},
		{name: "int", input: 1, want: "1"},
		{name: "int64 from driver", input: int64(9007199254740993), want: "9007199254740993"},
		{name: "uint32", input: uint32(12), want: "12"},
		{name: "integral float from json", input: float64(42), want: "42"},
		{name: "fractional float", input: 1.5, wantErr: true},
		{name: "empty string", input: "", wantErr: true},
		{name: "nil", input: nil, wantErr: true},
		{name: "slice", input: []int{1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanonicalID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFeatureValue(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    float64
		wantErr bool
	}{
		{name: "int64", input: int64(10), want: 10},
		{name: "float", input: 2.5, want: 2.5},
		{name: "bool true", input: true, want: 1},
		{name: "bool false", input: false, want: 0},
		{name: "numeric string", input: " 3.25 ", want: 3.25},
		{name: "text", input: "GBP", wantErr: true},
		{name: "null", input: nil, wantErr: true},
		{name: "map", input: map[string]any{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := featureValue("amount", tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
