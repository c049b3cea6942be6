package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/persistence"
)

// CatalogUserRepository defines persistence access for catalog accounts.
type CatalogUserRepository interface {
	Create(ctx context.Context, user *domain.CatalogUser) error
	GetByID(ctx context.Context, id string) (*domain.CatalogUser, error)
	GetByEmail(ctx context.Context, email string) (*domain.CatalogUser, error)
}

type catalogUserRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogUserRepository returns a Postgres-backed implementation.
func NewCatalogUserRepository(pool *pgxpool.Pool) CatalogUserRepository {
	return &catalogUserRepository{pool: pool}
}

func (r *catalogUserRepository) db(ctx context.Context) persistence.Querier {
	return persistence.QuerierFromContext(ctx, r.pool)
}

func (r *catalogUserRepository) Create(ctx context.Context, user *domain.CatalogUser) error {
	const query = `
        INSERT INTO catalog_users (email, password_hash, full_name, phone, role)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	return r.db(ctx).QueryRow(ctx, query,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.Phone,
		user.Role,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *catalogUserRepository) GetByID(ctx context.Context, id string) (*domain.CatalogUser, error) {
	const query = `
        SELECT id, email, password_hash, full_name, phone, role, created_at, updated_at
        FROM catalog_users WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *catalogUserRepository) GetByEmail(ctx context.Context, email string) (*domain.CatalogUser, error) {
	const query = `
        SELECT id, email, password_hash, full_name, phone, role, created_at, updated_at
        FROM catalog_users WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *catalogUserRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.CatalogUser, error) {
	var user domain.CatalogUser
	if err := r.db(ctx).QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.Phone,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
