package repository

import (
	"context"

	"github.com/google/uuid"
)

// ReplayCache remembers which internal record an idempotency key resolved to.
// It is advisory: a miss never implies the key is unused.
type ReplayCache interface {
	Lookup(ctx context.Context, orderID string) (uuid.UUID, bool, error)
	Remember(ctx context.Context, orderID string, id uuid.UUID) error
}

// ProductCatalog resolves product references to display names.
type ProductCatalog interface {
	ProductName(ctx context.Context, productID string) (string, error)
}
