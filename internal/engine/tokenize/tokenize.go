// internal/engine/tokenize/tokenize.go
package tokenize

import "strings"

// elisionPrefixes are the French clitics split off the front of a
// token. Order matters: "qu" must be tried before the single letters so
// "qu'est" does not split as "q" + "u'est".
var elisionPrefixes = []string{"qu", "c", "d", "j", "l", "m", "n", "s", "t"}

// Tokenizer lower-cases, splits elisions, and canonicalizes tokens
// through a static synonym table. It is not morphological analysis:
// unmapped tokens pass through unchanged.
type Tokenizer struct {
	synonyms map[string]string
}

func New(synonyms map[string]string) *Tokenizer {
	if synonyms == nil {
		synonyms = map[string]string{}
	}
	return &Tokenizer{synonyms: synonyms}
}

// Tokenize returns the token and lemma sequences for a raw query.
// Empty or whitespace-only input yields empty slices, never nil panics.
func (t *Tokenizer) Tokenize(raw string) (tokens, lemmas []string) {
	tokens = []string{}
	lemmas = []string{}

	lowered := strings.ToLower(strings.TrimSpace(raw))
	if lowered == "" {
		return tokens, lemmas
	}
	// Typographic apostrophes count as elisions too.
	lowered = strings.ReplaceAll(lowered, "’", "'")

	for _, field := range strings.Fields(lowered) {
		for _, part := range splitElision(field) {
			if part == "" {
				continue
			}
			tokens = append(tokens, part)
			if lemma, ok := t.synonyms[part]; ok {
				lemmas = append(lemmas, lemma)
			} else {
				lemmas = append(lemmas, part)
			}
		}
	}
	return tokens, lemmas
}

// splitElision splits a leading clitic ("qu'est" -> "qu", "est").
// Apostrophes deeper in the word ("aujourd'hui") are left alone.
func splitElision(word string) []string {
	idx := strings.IndexByte(word, '\'')
	if idx <= 0 || idx > 2 {
		return []string{word}
	}
	prefix := word[:idx]
	for _, p := range elisionPrefixes {
		if prefix == p {
			return []string{prefix, word[idx+1:]}
		}
	}
	return []string{word}
}
