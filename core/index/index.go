// Package index defines the abstract inverted-index contract that the
// matching engine blocks candidates through. Any engine satisfying
// Index is acceptable; internal/store/elasticsearch provides the
// concrete implementation this repository ships.
package index

import (
	"context"
	"strings"

	"github.com/shahrukhsaba/duke/core/record"
)

// Hit is one ranked result from a lookup, in descending relevance order.
type Hit struct {
	ID       string
	Score    float64
	Record   record.Record
}

// Index is the abstract inverted-index contract.
type Index interface {
	// Index tokenizes and persists one record. Identity properties are
	// stored as a single unanalyzed token so exact lookup succeeds;
	// every other property is analyzed with a standard word
	// tokenizer/lowercaser.
	Index(ctx context.Context, id string, cfg record.Config, rec record.Record) error

	// Commit makes all prior Index calls visible to searches, atomically
	// with respect to concurrent lookups: no partial visibility.
	Commit(ctx context.Context) error

	// LookupField returns candidates for a single property, ordered by
	// descending relevance, up to limit hits. values holds every value
	// the probe record has for that property; they are joined
	// disjunctively — any one matching value is enough for a hit to
	// surface.
	LookupField(ctx context.Context, property string, values []string, limit int) ([]Hit, error)

	// LookupRecord builds one compound query over all lookup properties
	// of rec: tokens from required properties are joined conjunctively,
	// tokens from optional properties disjunctively.
	LookupRecord(ctx context.Context, cfg record.Config, rec record.Record, limit int) ([]Hit, error)

	// FindByID performs exact-match retrieval by any identity property
	// value.
	FindByID(ctx context.Context, idValue string) (Hit, bool, error)
}

// reservedChars are the characters that must be escaped with a leading
// backslash before embedding a token into a query string.
const reservedChars = `*?!&()-+:"[]~{}^|`

// EscapeToken backslash-escapes every reserved query-syntax character in
// a token before it is embedded into a compound query string.
func EscapeToken(token string) string {
	var b strings.Builder
	b.Grow(len(token))
	for _, r := range token {
		if strings.ContainsRune(reservedChars, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
