package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/receipt-ledger/internal/repository"
)

// Service is a tiny façade over the ledger repository that produces XLSX
// bytes for transaction exports.
type Service struct {
	ledger repository.TransactionRepository
	logger *slog.Logger
}

func NewService(ledger repository.TransactionRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{ledger: ledger, logger: logger}
}

// ExportTransactionsXLSX returns an XLSX workbook (as bytes) for the owner's
// transactions, optionally narrowed to a wallet and a date window.
// If only from is provided -> from..today (inclusive).
func (s *Service) ExportTransactionsXLSX(ctx context.Context, ownerID uuid.UUID, walletID *uuid.UUID, from, to *time.Time) ([]byte, error) {
	start := time.Now()

	// Normalize dates (date-only, UTC)
	var fromDate, toDate *time.Time
	if from != nil {
		f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
		fromDate = &f
	}
	if to != nil {
		t := time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 0, time.UTC)
		toDate = &t
	}
	if fromDate != nil && toDate == nil {
		today := time.Now().UTC()
		t := time.Date(today.Year(), today.Month(), today.Day(), 23, 59, 59, 0, time.UTC)
		toDate = &t
	}

	txns, err := s.ledger.ListTransactions(ctx, ownerID, walletID, fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Transactions"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Date",
		"Description",
		"Type",
		"Category",
		"Amount",
		"Receipt Job",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, t := range txns {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, t.TxDate.Format("2006-01-02"))
		write(2, t.Description)
		write(3, string(t.Type))
		write(4, t.Category)
		write(5, t.Amount)
		if t.JobID != nil {
			write(6, t.JobID.String())
		} else {
			write(6, "")
		}
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("export.transactions.ok",
		"owner_id", ownerID,
		"rows", len(txns),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
