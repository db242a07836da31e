package repository

import (
	"context"
	"errors"

	"bazaar/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for tenant persistence.
var (
	// ErrStoreNotFound is returned when a store is not found.
	ErrStoreNotFound = errors.New("store not found")
)

// StoreRepository defines the standard operations for tenant persistence.
// Slug uniqueness is enforced by the storage layer's unique index; Create
// surfaces a concurrent slug collision as a domain conflict error.
type StoreRepository interface {
	// FindByID retrieves a single store by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Store, error)

	// FindByOwnerID retrieves the store owned by the given principal.
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID) (*entity.Store, error)

	// FindBySlug retrieves a store by slug regardless of its active flag.
	FindBySlug(ctx context.Context, slug string) (*entity.Store, error)

	// FindActiveBySlug retrieves a store by slug, restricted to active stores.
	FindActiveBySlug(ctx context.Context, slug string) (*entity.Store, error)

	// Create persists a new store.
	Create(ctx context.Context, store *entity.Store) error

	// Update modifies an existing store in place. The slug is never rewritten.
	Update(ctx context.Context, store *entity.Store) error
}
