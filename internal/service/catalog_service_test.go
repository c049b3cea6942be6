package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/domain"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

type fakeCatalogUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.CatalogUser
}

func (r *fakeCatalogUserRepo) Create(_ context.Context, user *domain.CatalogUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return uniqueViolation()
		}
	}
	user.ID = uuid.NewString()
	r.users[user.ID] = *user
	return nil
}

func (r *fakeCatalogUserRepo) GetByID(_ context.Context, id string) (*domain.CatalogUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *fakeCatalogUserRepo) GetByEmail(_ context.Context, email string) (*domain.CatalogUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeClothingRepo struct {
	mu    sync.Mutex
	items []domain.ClothingItem
}

func (r *fakeClothingRepo) Create(_ context.Context, item *domain.ClothingItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.Name == item.Name {
			return uniqueViolation()
		}
	}
	item.ID = uuid.NewString()
	r.items = append(r.items, *item)
	return nil
}

func (r *fakeClothingRepo) List(_ context.Context) ([]domain.ClothingItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.ClothingItem{}, r.items...), nil
}

func newCatalogService() *CatalogService {
	return NewCatalogService(
		config.CatalogConfig{JWTSecret: "catalog-secret", AccessTokenTTLMinutes: 5},
		bcrypt.MinCost,
		&fakeCatalogUserRepo{users: map[string]domain.CatalogUser{}},
		&fakeClothingRepo{},
	)
}

func TestCatalogRegisterDefaultsToUserRole(t *testing.T) {
	svc := newCatalogService()

	user, token, _, err := svc.Register(context.Background(), CatalogRegisterInput{
		Email:    "shopper@example.com",
		Password: "s3cret",
		FullName: "Jamie Doe",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CatalogRoleUser, user.Role)
	assert.NotEmpty(t, token)
}

func TestCatalogRegisterRequiresTwoNames(t *testing.T) {
	svc := newCatalogService()

	_, _, _, err := svc.Register(context.Background(), CatalogRegisterInput{
		Email:    "shopper@example.com",
		Password: "s3cret",
		FullName: "Jamie",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestCatalogLogin(t *testing.T) {
	svc := newCatalogService()
	_, _, _, err := svc.Register(context.Background(), CatalogRegisterInput{
		Email:    "shopper@example.com",
		Password: "s3cret",
		FullName: "Jamie Doe",
	})
	require.NoError(t, err)

	user, token, _, err := svc.Login(context.Background(), "shopper@example.com", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	subject, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject)

	_, _, _, err = svc.Login(context.Background(), "shopper@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))
}

func TestCreateItemValidatesEnums(t *testing.T) {
	svc := newCatalogService()

	_, err := svc.CreateItem(context.Background(), ClothingCreateInput{
		Name:  "Summer dress",
		Color: domain.ClothingColor("green"),
		Size:  domain.SizeM,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	_, err = svc.CreateItem(context.Background(), ClothingCreateInput{
		Name:  "Summer dress",
		Color: domain.ColorPink,
		Size:  domain.ClothingSize("xxxl"),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestCreateItemDuplicateNameConflicts(t *testing.T) {
	svc := newCatalogService()

	item, err := svc.CreateItem(context.Background(), ClothingCreateInput{
		Name:  "Summer dress",
		Color: domain.ColorPink,
		Size:  domain.SizeM,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)

	_, err = svc.CreateItem(context.Background(), ClothingCreateInput{
		Name:  "Summer dress",
		Color: domain.ColorBlack,
		Size:  domain.SizeL,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))
}

func TestListItems(t *testing.T) {
	svc := newCatalogService()
	_, err := svc.CreateItem(context.Background(), ClothingCreateInput{
		Name:  "Summer dress",
		Color: domain.ColorPink,
		Size:  domain.SizeM,
	})
	require.NoError(t, err)

	items, err := svc.ListItems(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
