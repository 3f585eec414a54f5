package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/receipt-ledger/internal/common"
	"github.com/joseph-ayodele/receipt-ledger/internal/entity"
	"github.com/joseph-ayodele/receipt-ledger/internal/ingest"
)

// Submitter is the gateway surface the handler depends on.
type Submitter interface {
	Submit(ctx context.Context, req ingest.SubmitRequest) (uuid.UUID, error)
}

// StatusGetter is the poll surface the handler depends on.
type StatusGetter interface {
	Get(ctx context.Context, jobID, ownerID uuid.UUID) (*entity.Job, error)
}

type ReceiptHandler struct {
	gateway Submitter
	status  StatusGetter
	logger  *slog.Logger
}

func NewReceiptHandler(gateway Submitter, status StatusGetter, logger *slog.Logger) *ReceiptHandler {
	return &ReceiptHandler{gateway: gateway, status: status, logger: logger}
}

// Upload handles POST /api/v1/receipts (multipart: file, wallet_id).
func (h *ReceiptHandler) Upload(c *gin.Context) {
	ownerID := UserID(c)

	walletID, err := uuid.Parse(c.PostForm("wallet_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "wallet_id must be a UUID"})
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			h.logger.Warn("upload file close error", "error", cerr)
		}
	}()
	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return
	}

	jobID, err := h.gateway.Submit(c.Request.Context(), ingest.SubmitRequest{
		OwnerID:     ownerID,
		WalletID:    walletID,
		FileBytes:   data,
		ContentType: fh.Header.Get("Content-Type"),
		Filename:    fh.Filename,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"job_id": jobID})
}

// Status handles GET /api/v1/receipts/jobs/:job_id.
func (h *ReceiptHandler) Status(c *gin.Context) {
	ownerID := UserID(c)

	jobID, err := uuid.Parse(c.Param("job_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "job_id must be a UUID"})
		return
	}

	job, err := h.status.Get(c.Request.Context(), jobID, ownerID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job_id":          job.ID,
		"status":          job.Status,
		"analysis_result": job.AnalysisResult,
		"error_message":   job.ErrorMessage,
		"transaction_id":  job.TransactionID,
		"created_at":      job.CreatedAt,
		"updated_at":      job.UpdatedAt,
	})
}

func (h *ReceiptHandler) writeError(c *gin.Context, err error) {
	switch {
	case common.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case common.IsAccessDenied(err):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case common.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case common.IsStorage(err):
		h.logger.Error("receipt request failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "storage unavailable"})
	default:
		h.logger.Error("receipt request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
