package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/receipt-ledger/constants"
	"github.com/joseph-ayodele/receipt-ledger/internal/common"
	"github.com/joseph-ayodele/receipt-ledger/internal/entity"
	"github.com/joseph-ayodele/receipt-ledger/internal/repository"
	"github.com/joseph-ayodele/receipt-ledger/internal/storage"
)

// Runner is the detached extraction task. Gateway spawns it per submit and
// never awaits it; its failures surface only on the job record.
type Runner interface {
	Run(jobID uuid.UUID)
}

// Gateway is the synchronous entry point of the pipeline: validate, store
// the blob, create the job, detach the worker.
type Gateway struct {
	blobs   storage.BlobStore
	jobs    repository.JobRepository
	wallets repository.WalletRepository
	runner  Runner
	logger  *slog.Logger
}

func NewGateway(blobs storage.BlobStore, jobs repository.JobRepository, wallets repository.WalletRepository, runner Runner, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{blobs: blobs, jobs: jobs, wallets: wallets, runner: runner, logger: logger}
}

// SubmitRequest carries one receipt upload.
type SubmitRequest struct {
	OwnerID     uuid.UUID
	WalletID    uuid.UUID
	FileBytes   []byte
	ContentType string
	Filename    string
}

// Submit validates the upload, persists the image and the job row, spawns
// the extraction worker and returns the job id. Everything past the spawn is
// observable solely through the job record.
func (g *Gateway) Submit(ctx context.Context, req SubmitRequest) (uuid.UUID, error) {
	if len(req.FileBytes) == 0 {
		return uuid.Nil, common.ValidationError("file is empty")
	}
	if !constants.IsImageContentType(req.ContentType) {
		return uuid.Nil, common.ValidationError("content type must be image/*")
	}
	if int64(len(req.FileBytes)) > constants.MaxUploadBytes {
		return uuid.Nil, common.ValidationError("file exceeds the 5 MiB limit")
	}
	if err := g.wallets.CheckAccess(ctx, req.WalletID, req.OwnerID); err != nil {
		return uuid.Nil, err
	}

	key := storage.ObjectKey(req.OwnerID, req.Filename, time.Now())
	if err := g.blobs.Put(ctx, key, req.FileBytes, req.ContentType); err != nil {
		return uuid.Nil, common.StorageError("storing receipt image", err)
	}

	job := &entity.Job{
		ID:               uuid.New(),
		OwnerID:          req.OwnerID,
		WalletID:         req.WalletID,
		BlobKey:          key,
		OriginalFilename: req.Filename,
		ContentType:      req.ContentType,
		SizeBytes:        int64(len(req.FileBytes)),
		Status:           constants.JobStatusProcessing,
	}
	if err := g.jobs.Create(ctx, job); err != nil {
		// No orphaned blobs survive a failed submit.
		if derr := g.blobs.Delete(ctx, key); derr != nil {
			g.logger.Error("ingest.compensating_delete_failed", "blob_key", key, "err", derr)
		}
		return uuid.Nil, common.InternalError("creating receipt job", err)
	}

	g.logger.Info("ingest.submit.accepted",
		"job_id", job.ID,
		"owner_id", req.OwnerID,
		"wallet_id", req.WalletID,
		"size_bytes", job.SizeBytes,
	)
	go g.runner.Run(job.ID)
	return job.ID, nil
}

// StatusQuery is the read-only, ownership-checked lookup clients poll.
type StatusQuery struct {
	jobs   repository.JobRepository
	logger *slog.Logger
}

func NewStatusQuery(jobs repository.JobRepository, logger *slog.Logger) *StatusQuery {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusQuery{jobs: jobs, logger: logger}
}

// Get returns the job snapshot for its owner. A missing job and a foreign
// job both come back as not found.
func (q *StatusQuery) Get(ctx context.Context, jobID, ownerID uuid.UUID) (*entity.Job, error) {
	return q.jobs.GetForOwner(ctx, jobID, ownerID)
}
