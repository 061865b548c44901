// internal/engine/tokenize/tokenize_test.go
package tokenize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Helper Functions
// ==========================

func testSynonyms() map[string]string {
	return map[string]string{
		"revenus":  "revenu",
		"voitures": "voiture",
		"lavages":  "lavage",
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestTokenize(t *testing.T) {
	tok := New(testSynonyms())

	tests := []struct {
		name       string
		query      string
		wantTokens []string
		wantLemmas []string
	}{
		{
			name:       "lower-casing and whitespace splitting",
			query:      "  Revenus   AUJOURD'HUI ",
			wantTokens: []string{"revenus", "aujourd'hui"},
			wantLemmas: []string{"revenu", "aujourd'hui"},
		},
		{
			name:       "elision split on qu prefix",
			query:      "qu'est-ce",
			wantTokens: []string{"qu", "est-ce"},
			wantLemmas: []string{"qu", "est-ce"},
		},
		{
			name:       "elision split on single-letter prefix",
			query:      "l'équipe d'hier",
			wantTokens: []string{"l", "équipe", "d", "hier"},
			wantLemmas: []string{"l", "équipe", "d", "hier"},
		},
		{
			name:       "typographic apostrophe normalized",
			query:      "l’équipe",
			wantTokens: []string{"l", "équipe"},
			wantLemmas: []string{"l", "équipe"},
		},
		{
			name:       "deep apostrophe left intact",
			query:      "aujourd'hui",
			wantTokens: []string{"aujourd'hui"},
			wantLemmas: []string{"aujourd'hui"},
		},
		{
			name:       "non-clitic prefix left intact",
			query:      "ab'cd",
			wantTokens: []string{"ab'cd"},
			wantLemmas: []string{"ab'cd"},
		},
		{
			name:       "synonym canonicalization",
			query:      "voitures lavages inconnu",
			wantTokens: []string{"voitures", "lavages", "inconnu"},
			wantLemmas: []string{"voiture", "lavage", "inconnu"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, lemmas := tok.Tokenize(tt.query)
			assert.Equal(t, tt.wantTokens, tokens)
			assert.Equal(t, tt.wantLemmas, lemmas)
		})
	}
}

// ==========================
// Edge Case Tests
// ==========================

func TestTokenize_EmptyInput(t *testing.T) {
	tok := New(nil)

	for _, query := range []string{"", "   ", "\t\n"} {
		tokens, lemmas := tok.Tokenize(query)
		assert.NotNil(t, tokens)
		assert.NotNil(t, lemmas)
		assert.Empty(t, tokens)
		assert.Empty(t, lemmas)
	}
}

func TestTokenize_NilSynonymTable(t *testing.T) {
	tok := New(nil)

	tokens, lemmas := tok.Tokenize("revenus")
	assert.Equal(t, []string{"revenus"}, tokens)
	assert.Equal(t, []string{"revenus"}, lemmas)
}
