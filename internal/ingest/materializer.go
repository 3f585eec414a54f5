package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/receipt-ledger/constants"
	"github.com/joseph-ayodele/receipt-ledger/internal/entity"
	"github.com/joseph-ayodele/receipt-ledger/internal/llm"
	"github.com/joseph-ayodele/receipt-ledger/internal/repository"
)

// Materializer converts a validated extraction into ledger entities: one
// transaction plus best-effort line items.
type Materializer struct {
	ledger repository.TransactionRepository
	logger *slog.Logger
}

func NewMaterializer(ledger repository.TransactionRepository, logger *slog.Logger) *Materializer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Materializer{ledger: ledger, logger: logger}
}

// Materialize creates the transaction and its items. An individual item's
// failure is logged and skipped; a zero-item transaction is a valid outcome.
func (m *Materializer) Materialize(ctx context.Context, fields llm.ReceiptFields, walletID, ownerID, jobID uuid.UUID) (*entity.Transaction, error) {
	txn := &entity.Transaction{
		ID:          uuid.New(),
		WalletID:    walletID,
		OwnerID:     ownerID,
		JobID:       &jobID,
		Amount:      fields.Total,
		Description: fields.Merchant + " - Receipt Transaction",
		Type:        constants.ParseTransactionType(fields.TxType),
		Category:    fields.Category,
		TxDate:      fields.TxTime(time.Now()),
	}
	if err := m.ledger.CreateTransaction(ctx, txn); err != nil {
		return nil, err
	}

	created := 0
	for i, it := range fields.Items {
		item := &entity.TransactionItem{
			ID:            uuid.New(),
			TransactionID: txn.ID,
			Name:          it.Name,
			Quantity:      it.Quantity,
			UnitPrice:     it.Price,
			Total:         it.Quantity * it.Price,
		}
		if err := m.ledger.CreateTransactionItem(ctx, item); err != nil {
			m.logger.Warn("materialize.item_skipped", "transaction_id", txn.ID, "index", i, "err", err)
			continue
		}
		created++
	}

	m.logger.Info("materialize.ok",
		"transaction_id", txn.ID,
		"job_id", jobID,
		"amount", txn.Amount,
		"items_created", created,
		"items_total", len(fields.Items),
	)
	return txn, nil
}
