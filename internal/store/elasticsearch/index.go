package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/olivere/elastic/v7"

	"github.com/shahrukhsaba/duke/core/index"
	"github.com/shahrukhsaba/duke/core/record"
)

// Store is the core/index.Index implementation backed by one
// Elasticsearch index. One Store is built per matching run; its
// record.Config is fixed the first time Index sees it,
// since the index mapping (identity fields as keyword, the rest
// analyzed) is derived from it once.
type Store struct {
	cli       *Client
	indexName string

	mu      sync.Mutex
	cfg     record.Config
	ensured bool

	pendingBulk bytes.Buffer
}

func NewStore(cli *Client, indexName string) *Store {
	return &Store{cli: cli, indexName: indexName}
}

var _ index.Index = (*Store)(nil)

func (s *Store) ensureIndex(ctx context.Context, cfg record.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ensured {
		return nil
	}
	s.cfg = cfg

	exists, err := s.cli.indexExists(ctx, s.indexName)
	if err != nil {
		return err
	}
	if !exists {
		mapping, err := buildMapping(cfg)
		if err != nil {
			return err
		}
		if err := s.cli.createIdx(ctx, s.indexName, mapping); err != nil {
			return err
		}
	}
	s.ensured = true
	return nil
}

// Index appends one upsert action to the pending bulk buffer; it is not
// sent until Commit, matching the index/commit visibility barrier
// core/index.Index documents.
func (s *Store) Index(ctx context.Context, id string, cfg record.Config, rec record.Record) error {
	if err := s.ensureIndex(ctx, cfg); err != nil {
		return err
	}

	doc := make(map[string]interface{}, len(rec))
	for field, values := range rec {
		doc[field] = values
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	action := map[string]interface{}{
		"index": map[string]interface{}{
			"_index": s.indexName,
			"_id":    id,
		},
	}
	if err := json.NewEncoder(&s.pendingBulk).Encode(action); err != nil {
		return fmt.Errorf("encode bulk action: %w", err)
	}
	if err := json.NewEncoder(&s.pendingBulk).Encode(doc); err != nil {
		return fmt.Errorf("encode bulk document: %w", err)
	}
	return nil
}

// Commit flushes the pending bulk buffer and refreshes the index so
// every prior Index call is visible to the next lookup.
func (s *Store) Commit(ctx context.Context) error {
	s.mu.Lock()
	body := s.pendingBulk.Bytes()
	s.pendingBulk.Reset()
	s.mu.Unlock()

	if len(body) > 0 {
		res, err := s.cli.client.Bulk(
			bytes.NewReader(body),
			s.cli.client.Bulk.WithContext(ctx),
		)
		if err != nil {
			return elasticSearchError(err)
		}
		defer res.Body.Close()
		if res.IsError() {
			return fmt.Errorf("bulk commit failed: %s", errorReasonFromResponse(res))
		}
	}

	res, err := s.cli.client.Indices.Refresh(
		s.cli.client.Indices.Refresh.WithIndex(s.indexName),
		s.cli.client.Indices.Refresh.WithContext(ctx),
	)
	if err != nil {
		return elasticSearchError(err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("refresh failed: %s", errorReasonFromResponse(res))
	}
	return nil
}

// LookupField runs a disjunctive match query over a single field: a hit
// on any of values is enough to surface a candidate.
func (s *Store) LookupField(ctx context.Context, property string, values []string, limit int) ([]index.Hit, error) {
	should := make([]elastic.Query, 0, len(values))
	for _, v := range values {
		should = append(should, elastic.NewMatchQuery(property, v))
	}
	query := elastic.NewBoolQuery().Should(should...).MinimumShouldMatch("1")
	return s.search(ctx, query, limit)
}

// LookupRecord builds one compound query over every lookup property of
// rec: required properties are joined conjunctively, optional
// properties disjunctively.
func (s *Store) LookupRecord(ctx context.Context, cfg record.Config, rec record.Record, limit int) ([]index.Hit, error) {
	bq := elastic.NewBoolQuery()
	for _, p := range cfg.LookupProperties() {
		values := rec.Values(p.Name)
		if len(values) == 0 {
			continue
		}

		should := make([]elastic.Query, 0, len(values))
		for _, v := range values {
			should = append(should, elastic.NewMatchQuery(p.Name, v))
		}
		clause := elastic.NewBoolQuery().Should(should...).MinimumShouldMatch("1")

		if p.LookupBehaviour == record.LookupRequired {
			bq = bq.Must(clause)
		} else {
			bq = bq.Should(clause)
		}
	}
	return s.search(ctx, bq, limit)
}

// FindByID performs exact-match retrieval against every identity
// property of the record.Config fixed by the first Index call.
func (s *Store) FindByID(ctx context.Context, idValue string) (index.Hit, bool, error) {
	s.mu.Lock()
	cfg := s.cfg
	s.mu.Unlock()

	should := make([]elastic.Query, 0)
	for _, p := range cfg.IdentityProperties() {
		should = append(should, elastic.NewTermQuery(p.Name, idValue))
	}
	if len(should) == 0 {
		return index.Hit{}, false, nil
	}
	query := elastic.NewBoolQuery().Should(should...).MinimumShouldMatch("1")

	hits, err := s.search(ctx, query, 1)
	if err != nil {
		return index.Hit{}, false, err
	}
	if len(hits) == 0 {
		return index.Hit{}, false, nil
	}
	return hits[0], true, nil
}

func (s *Store) search(ctx context.Context, query elastic.Query, limit int) ([]index.Hit, error) {
	src, err := query.Source()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	body, err := json.Marshal(map[string]interface{}{"query": src})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	res, err := s.cli.client.Search(
		s.cli.client.Search.WithContext(ctx),
		s.cli.client.Search.WithIndex(s.indexName),
		s.cli.client.Search.WithBody(strings.NewReader(string(body))),
		s.cli.client.Search.WithSize(limit),
		s.cli.client.Search.WithIgnoreUnavailable(true),
	)
	if err != nil {
		return nil, elasticSearchError(err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search failed: %s", errorReasonFromResponse(res))
	}

	var response struct {
		Hits struct {
			Hits []struct {
				ID     string                 `json:"_id"`
				Score  float64                `json:"_score"`
				Source map[string]interface{} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	hits := make([]index.Hit, 0, len(response.Hits.Hits))
	for _, h := range response.Hits.Hits {
		hits = append(hits, index.Hit{
			ID:     h.ID,
			Score:  h.Score,
			Record: sourceToRecord(h.Source),
		})
	}
	return hits, nil
}

func sourceToRecord(source map[string]interface{}) record.Record {
	fields := make(map[string][]string, len(source))
	for field, raw := range source {
		switch v := raw.(type) {
		case []interface{}:
			values := make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok {
					values = append(values, s)
				}
			}
			fields[field] = values
		case string:
			fields[field] = []string{v}
		}
	}
	return record.New(fields)
}
