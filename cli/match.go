package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/shahrukhsaba/duke/core/comparator"
	"github.com/shahrukhsaba/duke/core/equivalence"
	"github.com/shahrukhsaba/duke/core/match"
	"github.com/shahrukhsaba/duke/core/record"
	esStore "github.com/shahrukhsaba/duke/internal/store/elasticsearch"
	"github.com/shahrukhsaba/duke/internal/store/postgres"
	"github.com/shahrukhsaba/duke/pkg/metrics"
)

// ndjsonRecord is one line of the NDJSON record source/sink format: an
// external identifier plus the field values of core/record.Record.
type ndjsonRecord struct {
	ID     string              `json:"id"`
	Fields map[string][]string `json:"fields"`
}

func cmdMatch() *cobra.Command {
	var linkEquivalence bool

	cmd := &cobra.Command{
		Use:   "match <records.ndjson>",
		Short: "Deduplicate a batch of records and print match verdicts",
		Long: heredoc.Doc(`
			Reads newline-delimited JSON records, runs deduplication mode
			(blocking, weighted comparison, naive-Bayes scoring), and writes one
			NDJSON verdict per pair or singleton record to stdout.
		`),
		Example: heredoc.Doc(`
			$ duke match --config duke.yaml records.ndjson
			$ duke match --link records.ndjson
		`),
		Args: cobra.ExactArgs(1),
		Annotations: map[string]string{
			"group:core": "true",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runMatch(cmd.Context(), cfg, args[0], linkEquivalence)
		},
	}

	cmd.Flags().BoolVar(&linkEquivalence, "link", false, "record matches in the durable equivalence-class store")
	return cmd
}

func runMatch(ctx context.Context, config Config, path string, linkEquivalence bool) error {
	logger := initLogger(config.LogLevel)

	records, err := readNDJSON(path)
	if err != nil {
		return fmt.Errorf("reading records: %w", err)
	}
	logger.Info("loaded records", "count", len(records))

	esClient, err := initElasticsearch(logger, config.Elasticsearch)
	if err != nil {
		return err
	}
	idx := esStore.NewStore(esClient, "duke")

	var reporter match.Reporter
	if config.StatsD.Enabled {
		r, err := metrics.New(logger, config.StatsD)
		if err != nil {
			return fmt.Errorf("init statsd: %w", err)
		}
		reporter = r
	}

	engine, err := match.NewEngine(config.Record, config.Match, comparator.NewRegistry(), idx, reporter)
	if err != nil {
		return fmt.Errorf("building matching engine: %w", err)
	}

	var eqStore equivalence.Store
	if linkEquivalence {
		pgClient, err := initPostgres(logger, config.DB)
		if err != nil {
			return err
		}
		defer pgClient.Close()
		eqStore = postgres.NewEquivalenceStore(pgClient)
	}

	sink := newCLISink(os.Stdout, ctx, eqStore)

	stats, err := engine.Run(ctx, records, sink)
	if err != nil {
		return fmt.Errorf("matching run failed: %w", err)
	}

	if eqStore != nil {
		if err := eqStore.Commit(ctx); err != nil {
			return fmt.Errorf("committing equivalence links: %w", err)
		}
	}

	logger.Info("matching run complete",
		"records", stats.RecordsProcessed,
		"comparisons", stats.ComparisonsPerformed,
		"matches", stats.Matches,
		"maybes", stats.Maybes,
		"no_matches", stats.NoMatches,
	)
	return nil
}

func readNDJSON(path string) ([]match.Candidate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []match.Candidate
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var r ndjsonRecord
		if err := json.Unmarshal(line, &r); err != nil {
			return nil, fmt.Errorf("invalid record line: %w", err)
		}
		out = append(out, match.Candidate{ID: r.ID, Record: record.New(r.Fields)})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// cliSink writes one NDJSON verdict line per callback to w, and
// optionally buffers AddLink calls against an equivalence store for
// confirmed matches.
type cliSink struct {
	enc     *json.Encoder
	ctx     context.Context
	eqStore equivalence.Store
}

func newCLISink(w io.Writer, ctx context.Context, eqStore equivalence.Store) *cliSink {
	return &cliSink{enc: json.NewEncoder(w), ctx: ctx, eqStore: eqStore}
}

type verdictLine struct {
	Verdict     string  `json:"verdict"`
	ID1         string  `json:"id1"`
	ID2         string  `json:"id2,omitempty"`
	Probability float64 `json:"probability,omitempty"`
}

func (s *cliSink) OnMatch(ctx context.Context, r1, r2 match.Candidate, probability float64) {
	_ = s.enc.Encode(verdictLine{Verdict: "match", ID1: r1.ID, ID2: r2.ID, Probability: probability})
	if s.eqStore != nil {
		if err := s.eqStore.AddLink(ctx, r1.ID, r2.ID); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to record equivalence link: %v\n", err)
		}
	}
}

func (s *cliSink) OnMaybe(ctx context.Context, r1, r2 match.Candidate, probability float64) {
	_ = s.enc.Encode(verdictLine{Verdict: "maybe", ID1: r1.ID, ID2: r2.ID, Probability: probability})
}

func (s *cliSink) OnNoMatch(ctx context.Context, r match.Candidate) {
	_ = s.enc.Encode(verdictLine{Verdict: "no_match", ID1: r.ID})
}
