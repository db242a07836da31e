package usecase

import (
	"context"

	"bazaar/internal/domain/entity"

	"github.com/google/uuid"
)

// ProfileOutput returns the principal and, when one is owned, its store.
type ProfileOutput struct {
	User  *entity.User
	Store *entity.Store
}

// ProfileUsecase defines the interface for authenticated self-lookup.
type ProfileUsecase interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileOutput, error)
}
