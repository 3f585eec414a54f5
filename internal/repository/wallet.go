package repository

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/receipt-ledger/internal/common"
)

// WalletRepository covers the single ledger question the pipeline asks:
// may this owner write into this wallet.
type WalletRepository interface {
	// CheckAccess returns common.AccessDeniedError when the wallet does not
	// resolve to one the owner may use. A nonexistent wallet is reported the
	// same way as a foreign one.
	CheckAccess(ctx context.Context, walletID, ownerID uuid.UUID) error
}

type walletRepo struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewWalletRepository(pool *pgxpool.Pool, log *slog.Logger) WalletRepository {
	return &walletRepo{pool: pool, log: log}
}

func (r *walletRepo) CheckAccess(ctx context.Context, walletID, ownerID uuid.UUID) error {
	var ok bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM wallets WHERE id = $1 AND owner_id = $2)`,
		walletID, ownerID,
	).Scan(&ok)
	if err != nil {
		r.log.Error("wallet access check failed", "wallet_id", walletID, "owner_id", ownerID, "err", err)
		return err
	}
	if !ok {
		return common.AccessDeniedError("wallet is not accessible")
	}
	return nil
}
