package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
)

// link is one pending AddLink call, buffered until Commit applies the
// whole batch inside a single transaction.
type link struct {
	id1, id2 string
}

// EquivalenceStore is the durable core/equivalence.Store implementation,
// backed by one equivalence_links(id, class_id) table. AddLink only
// buffers; Commit replays the buffer against the table using the
// allocate/assign/merge state machine of the original equivalence-class
// database.
type EquivalenceStore struct {
	client *Client

	mu      sync.Mutex
	pending []link
}

func NewEquivalenceStore(client *Client) *EquivalenceStore {
	return &EquivalenceStore{client: client}
}

func (s *EquivalenceStore) AddLink(ctx context.Context, id1, id2 string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, link{id1: id1, id2: id2})
	return nil
}

// ClassOf reads live table state; it is not affected by the pending
// buffer, matching the contract that a class is only guaranteed
// up-to-date after Commit.
func (s *EquivalenceStore) ClassOf(ctx context.Context, id string) ([]string, error) {
	classID, err := s.classIDOf(ctx, s.client.db, id)
	if err != nil {
		return nil, err
	}
	if classID == nil {
		return []string{id}, nil
	}

	var ids []string
	if err := s.client.db.SelectContext(ctx, &ids,
		`SELECT id FROM equivalence_links WHERE class_id = $1`, *classID); err != nil {
		return nil, fmt.Errorf("fetching equivalence class: %w", err)
	}
	return ids, nil
}

// Commit applies every buffered AddLink inside one transaction, then
// clears the buffer.
func (s *EquivalenceStore) Commit(ctx context.Context) error {
	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	return s.client.RunWithinTx(ctx, func(tx *sqlx.Tx) error {
		for _, l := range batch {
			if err := s.applyLink(ctx, tx, l.id1, l.id2); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *EquivalenceStore) applyLink(ctx context.Context, tx *sqlx.Tx, id1, id2 string) error {
	clid1, err := s.classIDOf(ctx, tx, id1)
	if err != nil {
		return err
	}
	clid2, err := s.classIDOf(ctx, tx, id2)
	if err != nil {
		return err
	}

	switch {
	case clid1 != nil && clid2 != nil && *clid1 == *clid2:
		return nil // already linked

	case clid1 == nil && clid2 == nil:
		newClassID, err := s.nextClassID(ctx, tx)
		if err != nil {
			return err
		}
		if err := s.addToClass(ctx, tx, id1, newClassID); err != nil {
			return err
		}
		return s.addToClass(ctx, tx, id2, newClassID)

	case clid1 == nil:
		return s.addToClass(ctx, tx, id1, *clid2)

	case clid2 == nil:
		return s.addToClass(ctx, tx, id2, *clid1)

	default:
		return s.merge(ctx, tx, *clid1, *clid2)
	}
}

type queryer interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

func (s *EquivalenceStore) classIDOf(ctx context.Context, q queryer, id string) (*int64, error) {
	var classID int64
	err := q.GetContext(ctx, &classID, `SELECT class_id FROM equivalence_links WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up equivalence class: %w", err)
	}
	return &classID, nil
}

func (s *EquivalenceStore) nextClassID(ctx context.Context, tx *sqlx.Tx) (int64, error) {
	var classID int64
	if err := tx.GetContext(ctx, &classID, `SELECT nextval('equivalence_class_seq')`); err != nil {
		return 0, fmt.Errorf("allocating equivalence class id: %w", err)
	}
	return classID, nil
}

func (s *EquivalenceStore) addToClass(ctx context.Context, tx *sqlx.Tx, id string, classID int64) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO equivalence_links (id, class_id) VALUES ($1, $2)`, id, classID); err != nil {
		return fmt.Errorf("assigning %q to class %d: %w", id, classID, checkPostgresError(err))
	}
	return nil
}

func (s *EquivalenceStore) merge(ctx context.Context, tx *sqlx.Tx, survivor, loser int64) error {
	if _, err := tx.ExecContext(ctx,
		`UPDATE equivalence_links SET class_id = $1 WHERE class_id = $2`, survivor, loser); err != nil {
		return fmt.Errorf("merging class %d into %d: %w", loser, survivor, checkPostgresError(err))
	}
	return nil
}
