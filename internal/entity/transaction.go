package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/receipt-ledger/constants"
)

// Transaction is a ledger entry materialized from a receipt extraction.
// The JobID back-reference links it to the originating receipt job.
type Transaction struct {
	ID          uuid.UUID                 `json:"id"`
	WalletID    uuid.UUID                 `json:"wallet_id"`
	OwnerID     uuid.UUID                 `json:"owner_id"`
	JobID       *uuid.UUID                `json:"job_id,omitempty"`
	Amount      float64                   `json:"amount"`
	Description string                    `json:"description"`
	Type        constants.TransactionType `json:"type"`
	Category    string                    `json:"category,omitempty"`
	TxDate      time.Time                 `json:"tx_date"`
	CreatedAt   time.Time                 `json:"created_at"`
	UpdatedAt   time.Time                 `json:"updated_at"`
}

// TransactionItem is one line item belonging to a Transaction.
type TransactionItem struct {
	ID            uuid.UUID `json:"id"`
	TransactionID uuid.UUID `json:"transaction_id"`
	Name          string    `json:"name"`
	Quantity      float64   `json:"quantity"`
	UnitPrice     float64   `json:"unit_price"`
	Total         float64   `json:"total"`
	CreatedAt     time.Time `json:"created_at"`
}

// Wallet is the slice of the ledger's wallet row this subsystem reads.
type Wallet struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
