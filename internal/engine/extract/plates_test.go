// internal/engine/extract/plates_test.go
package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLicensePlates(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "tunisian style with spaces",
			query: "cherche 142 TUN 789",
			want:  []string{"142 TUN 789"},
		},
		{
			name:  "compact form",
			query: "la voiture 142TUN789 est là",
			want:  []string{"142TUN789"},
		},
		{
			name:  "dash separated",
			query: "plaque 142-TUN-789",
			want:  []string{"142-TUN-789"},
		},
		{
			name:  "letters first",
			query: "TU 1234 56 ce matin",
			want:  []string{"TU 1234 56"},
		},
		{
			name:  "no plate",
			query: "revenus aujourd'hui",
			want:  []string{},
		},
		{
			name:  "duplicate mention collapsed",
			query: "142TUN789 et encore 142TUN789",
			want:  []string{"142TUN789"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LicensePlates(tt.query))
		})
	}
}
