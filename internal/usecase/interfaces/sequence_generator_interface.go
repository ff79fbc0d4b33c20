package interfaces

import "context"

// ISequenceGenerator hands out monotonically increasing numbers per name.
// The n-th successful call for a name returns n.
type ISequenceGenerator interface {
	Next(ctx context.Context, name string) (int64, error)
}
