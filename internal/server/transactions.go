package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/receipt-ledger/internal/repository"
)

// Exporter produces XLSX exports of the transaction list.
type Exporter interface {
	ExportTransactionsXLSX(ctx context.Context, ownerID uuid.UUID, walletID *uuid.UUID, from, to *time.Time) ([]byte, error)
}

type TransactionHandler struct {
	ledger   repository.TransactionRepository
	exporter Exporter
	logger   *slog.Logger
}

func NewTransactionHandler(ledger repository.TransactionRepository, exporter Exporter, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{ledger: ledger, exporter: exporter, logger: logger}
}

// List handles GET /api/v1/transactions?wallet_id=&from=&to=.
func (h *TransactionHandler) List(c *gin.Context) {
	ownerID := UserID(c)

	walletID, from, to, err := parseTransactionFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	txns, err := h.ledger.ListTransactions(c.Request.Context(), ownerID, walletID, from, to)
	if err != nil {
		h.logger.Error("list transactions failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": txns})
}

// Export handles GET /api/v1/transactions/export with the same filters.
func (h *TransactionHandler) Export(c *gin.Context) {
	ownerID := UserID(c)

	walletID, from, to, err := parseTransactionFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	data, err := h.exporter.ExportTransactionsXLSX(c.Request.Context(), ownerID, walletID, from, to)
	if err != nil {
		h.logger.Error("export transactions failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	filename := "transactions_" + time.Now().UTC().Format("20060102") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func parseTransactionFilter(c *gin.Context) (*uuid.UUID, *time.Time, *time.Time, error) {
	var walletID *uuid.UUID
	if raw := c.Query("wallet_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("wallet_id must be a UUID")
		}
		walletID = &id
	}

	parseDate := func(key string) (*time.Time, error) {
		raw := c.Query(key)
		if raw == "" {
			return nil, nil
		}
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s date %q", key, raw)
		}
		return &t, nil
	}

	from, err := parseDate("from")
	if err != nil {
		return nil, nil, nil, err
	}
	to, err := parseDate("to")
	if err != nil {
		return nil, nil, nil, err
	}
	return walletID, from, to, nil
}
