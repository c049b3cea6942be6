package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/persistence"
)

// ClothingRepository encapsulates catalog item persistence.
type ClothingRepository interface {
	Create(ctx context.Context, item *domain.ClothingItem) error
	List(ctx context.Context) ([]domain.ClothingItem, error)
}

type clothingRepository struct {
	pool *pgxpool.Pool
}

// NewClothingRepository instantiates the repository.
func NewClothingRepository(pool *pgxpool.Pool) ClothingRepository {
	return &clothingRepository{pool: pool}
}

func (r *clothingRepository) db(ctx context.Context) persistence.Querier {
	return persistence.QuerierFromContext(ctx, r.pool)
}

func (r *clothingRepository) Create(ctx context.Context, item *domain.ClothingItem) error {
	const query = `
        INSERT INTO clothing_items (name, color, size, photo_url)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	return r.db(ctx).QueryRow(ctx, query,
		item.Name,
		item.Color,
		item.Size,
		item.PhotoURL,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

func (r *clothingRepository) List(ctx context.Context) ([]domain.ClothingItem, error) {
	const query = `
        SELECT id, name, color, size, photo_url, created_at, updated_at
        FROM clothing_items ORDER BY created_at DESC`

	rows, err := r.db(ctx).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ClothingItem
	for rows.Next() {
		var item domain.ClothingItem
		if err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Color,
			&item.Size,
			&item.PhotoURL,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
