// Package stores implements the persistence operations of the application on
// top of pgx. Every method takes a Querier, so callers decide whether an
// operation runs inside a transaction. The tag-deletion cascade is documented
// as weakly consistent; the pgx implementation wraps it in the caller's
// transaction, which is the stronger substitute the contract allows.
package stores

import "errors"

// ErrNotFound is returned when a record is missing or not owned by the caller.
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned on duplicate unique keys.
var ErrConflict = errors.New("duplicate record")
