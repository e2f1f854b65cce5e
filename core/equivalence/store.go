// Package equivalence implements the equivalence-class store: a
// union-find over external string identifiers that tracks which
// records have been linked together across matching runs.
package equivalence

import "context"

// Store is the equivalence-class contract. Implementations must
// satisfy the connected-components invariant: two IDs are in the same
// class if and only if they are connected by some chain of AddLink
// calls.
type Store interface {
	// AddLink records that id1 and id2 refer to the same real-world
	// entity, merging their classes if they are not already joined.
	AddLink(ctx context.Context, id1, id2 string) error

	// ClassOf returns every ID in the equivalence class containing id,
	// including id itself. An id that has never been linked forms a
	// singleton class of itself.
	ClassOf(ctx context.Context, id string) ([]string, error)

	// Commit makes prior AddLink calls durable and visible to ClassOf
	// calls from other Store handles.
	Commit(ctx context.Context) error
}
