package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/receipt-ledger/internal/entity"
)

// TransactionRepository is the ledger boundary the materializer writes
// through. Rows created here are never mutated by this subsystem.
type TransactionRepository interface {
	CreateTransaction(ctx context.Context, txn *entity.Transaction) error
	CreateTransactionItem(ctx context.Context, item *entity.TransactionItem) error
	ListTransactions(ctx context.Context, ownerID uuid.UUID, walletID *uuid.UUID, fromDate, toDate *time.Time) ([]*entity.Transaction, error)
}

type transactionRepo struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewTransactionRepository(pool *pgxpool.Pool, log *slog.Logger) TransactionRepository {
	return &transactionRepo{pool: pool, log: log}
}

func (r *transactionRepo) CreateTransaction(ctx context.Context, txn *entity.Transaction) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO transactions
			(id, wallet_id, owner_id, job_id, amount, description, type, category, tx_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		txn.ID, txn.WalletID, txn.OwnerID, txn.JobID, txn.Amount,
		txn.Description, txn.Type, txn.Category, txn.TxDate,
	)
	if err != nil {
		r.log.Error("transaction create failed", "transaction_id", txn.ID, "err", err)
		return err
	}
	r.log.Info("transaction created", "transaction_id", txn.ID, "wallet_id", txn.WalletID, "amount", txn.Amount)
	return nil
}

func (r *transactionRepo) CreateTransactionItem(ctx context.Context, item *entity.TransactionItem) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO transaction_items
			(id, transaction_id, name, quantity, unit_price, total)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		item.ID, item.TransactionID, item.Name, item.Quantity, item.UnitPrice, item.Total,
	)
	if err != nil {
		r.log.Error("transaction_item create failed", "transaction_id", item.TransactionID, "name", item.Name, "err", err)
		return err
	}
	return nil
}

func (r *transactionRepo) ListTransactions(ctx context.Context, ownerID uuid.UUID, walletID *uuid.UUID, fromDate, toDate *time.Time) ([]*entity.Transaction, error) {
	q := `
		SELECT id, wallet_id, owner_id, job_id, amount, description, type, category, tx_date, created_at, updated_at
		FROM transactions
		WHERE owner_id = $1
		  AND ($2::uuid IS NULL OR wallet_id = $2)
		  AND ($3::timestamptz IS NULL OR tx_date >= $3)
		  AND ($4::timestamptz IS NULL OR tx_date <= $4)
		ORDER BY tx_date DESC, created_at DESC`

	rows, err := r.pool.Query(ctx, q, ownerID, walletID, fromDate, toDate)
	if err != nil {
		r.log.Error("failed to list transactions", "owner_id", ownerID, "err", err)
		return nil, err
	}
	defer rows.Close()

	var result []*entity.Transaction
	for rows.Next() {
		var t entity.Transaction
		if err := rows.Scan(
			&t.ID, &t.WalletID, &t.OwnerID, &t.JobID, &t.Amount,
			&t.Description, &t.Type, &t.Category, &t.TxDate, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &t)
	}
	return result, rows.Err()
}
