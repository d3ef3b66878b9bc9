package source

import "context"

// RawBatch is the rows of one file or table. Origin names where they came from.
type RawBatch struct {
	Kind   Kind
	Origin string
	Rows   []Row
}

// Loader reads raw rows of one kind. A loader with nothing configured for a
// kind returns no batches and no error.
type Loader interface {
	Load(ctx context.Context, kind Kind) ([]RawBatch, error)
}
