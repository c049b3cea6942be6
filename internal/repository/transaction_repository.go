package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/persistence"
)

// TransactionRepository stores gateway transaction records. Rows are
// insert-only; fund/cancel mutate gateway-side state, never this table.
type TransactionRepository interface {
	Create(ctx context.Context, txn *domain.Transaction) error
	GetByComplaint(ctx context.Context, complaintID string) (*domain.Transaction, error)
}

type transactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository instantiates the repository.
func NewTransactionRepository(pool *pgxpool.Pool) TransactionRepository {
	return &transactionRepository{pool: pool}
}

func (r *transactionRepository) db(ctx context.Context) persistence.Querier {
	return persistence.QuerierFromContext(ctx, r.pool)
}

func (r *transactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	const query = `
        INSERT INTO transactions (complaint_id, quote_id, transfer_id, target_account_id, amount)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`

	return r.db(ctx).QueryRow(ctx, query,
		txn.ComplaintID,
		txn.QuoteID,
		txn.TransferID,
		txn.TargetAccountID,
		txn.Amount,
	).Scan(&txn.ID, &txn.CreatedAt)
}

func (r *transactionRepository) GetByComplaint(ctx context.Context, complaintID string) (*domain.Transaction, error) {
	const query = `
        SELECT id, complaint_id, quote_id, transfer_id, target_account_id, amount, created_at
        FROM transactions WHERE complaint_id=$1`

	var txn domain.Transaction
	if err := r.db(ctx).QueryRow(ctx, query, complaintID).Scan(
		&txn.ID,
		&txn.ComplaintID,
		&txn.QuoteID,
		&txn.TransferID,
		&txn.TargetAccountID,
		&txn.Amount,
		&txn.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &txn, nil
}
