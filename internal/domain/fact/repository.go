package fact

import "context"

// Repository persists complete datasets. Save replaces whatever was stored
// before.
type Repository interface {
	Save(ctx context.Context, ds *Dataset) error
	Latest(ctx context.Context) (*Dataset, bool, error)
}
