package match

import (
	"context"

	"github.com/shahrukhsaba/duke/core/record"
)

// Candidate pairs an external record identifier with its Record, the
// shape the match sink callbacks and the candidate-generation pipeline
// pass around.
type Candidate struct {
	ID     string
	Record record.Record
}

// Sink is the three-callback match output contract. Probabilities
// passed to OnMatch/OnMaybe are in (0.5, 1].
type Sink interface {
	OnMatch(ctx context.Context, r1, r2 Candidate, probability float64)
	OnMaybe(ctx context.Context, r1, r2 Candidate, probability float64)
	OnNoMatch(ctx context.Context, r Candidate)
}

// Stats accumulates the per-run counters a matching run reports on
// completion.
type Stats struct {
	RecordsProcessed     int
	ComparisonsPerformed int
	Matches              int
	Maybes               int
	NoMatches            int
}
