// internal/engine/extract/prices_test.go
package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrices(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []PriceMention
	}{
		{
			name:  "dt unit",
			query: "lavage à 15 DT",
			want:  []PriceMention{{Value: 15, Original: "15 DT"}},
		},
		{
			name:  "dinars unit without space",
			query: "40dinars pour le premium",
			want:  []PriceMention{{Value: 40, Original: "40dinars"}},
		},
		{
			name:  "decimal comma normalized",
			query: "12,5 dt",
			want:  []PriceMention{{Value: 12.5, Original: "12,5 dt"}},
		},
		{
			name:  "euro symbol",
			query: "environ 20€",
			want:  []PriceMention{{Value: 20, Original: "20€"}},
		},
		{
			name:  "multiple mentions",
			query: "entre 15 dt et 25 dt",
			want: []PriceMention{
				{Value: 15, Original: "15 dt"},
				{Value: 25, Original: "25 dt"},
			},
		},
		{
			name:  "bare number is not a price",
			query: "il y a 15 voitures",
			want:  []PriceMention{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Prices(tt.query)
			require.Len(t, got, len(tt.want))
			assert.Equal(t, tt.want, got)
		})
	}
}
