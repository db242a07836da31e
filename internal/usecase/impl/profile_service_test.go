package impl

import (
	"context"
	"testing"

	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfileService(fx *fixtures) usecase.ProfileUsecase {
	return NewProfileService(ProfileServiceParams{
		UserRepo:  fx.users,
		StoreRepo: fx.stores,
		Logger:    newDiscardLogger(),
	})
}

func TestProfileService_GetProfile_CustomerWithoutStore(t *testing.T) {
	fx := newFixtures()
	user := seedLocalUser(t, fx, "customer@example.com", "password1", true)
	service := newProfileService(fx)

	out, err := service.GetProfile(context.Background(), user.ID)

	require.NoError(t, err)
	assert.Equal(t, user.ID, out.User.ID)
	assert.Nil(t, out.Store)
}

func TestProfileService_GetProfile_OwnerWithStore(t *testing.T) {
	fx := newFixtures()
	ctx := context.Background()
	owner := seedLocalUser(t, fx, "owner@example.com", "password1", true)
	store := &entity.Store{
		OwnerID:        owner.ID,
		Name:           "Owned Store",
		Slug:           "owned-store",
		IsActive:       true,
		DocumentChecks: entity.NewDocumentChecks(),
	}
	require.NoError(t, fx.stores.Create(ctx, store))
	service := newProfileService(fx)

	out, err := service.GetProfile(ctx, owner.ID)

	require.NoError(t, err)
	require.NotNil(t, out.Store)
	assert.Equal(t, "owned-store", out.Store.Slug)
	assert.Equal(t, owner.ID, out.Store.OwnerID)
}

func TestProfileService_GetProfile_UnknownPrincipal(t *testing.T) {
	service := newProfileService(newFixtures())

	_, err := service.GetProfile(context.Background(), uuid.New())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}
