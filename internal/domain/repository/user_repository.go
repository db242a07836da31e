// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"
	"time"

	"bazaar/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrUserNotFound is a domain-specific error returned when a principal is not found.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the standard operations for principal persistence.
// No business rules live here: uniqueness of the normalized email is enforced
// by the storage layer's unique constraint, which Create surfaces as a domain
// conflict error. A prior existence check is only ever advisory.
type UserRepository interface {
	// FindByID retrieves a single principal by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single principal by normalized email.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// Create persists a new principal.
	Create(ctx context.Context, user *entity.User) error

	// Update modifies an existing principal in place.
	Update(ctx context.Context, user *entity.User) error

	// TouchLastLogin records a successful login without rewriting the rest of
	// the row.
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}
