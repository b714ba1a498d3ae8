package repository

import (
	"context"
	"errors"
)

// ErrDuplicate is returned by Create methods when a unique constraint is hit.
var ErrDuplicate = errors.New("duplicate record")

// Transactor runs fn inside one database transaction. Repository calls made
// with the ctx passed to fn join that transaction. The transaction commits
// when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
