package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/receipt-ledger/constants"
	"github.com/joseph-ayodele/receipt-ledger/internal/common"
	"github.com/joseph-ayodele/receipt-ledger/internal/entity"
)

// JobRepository is the single source of truth for receipt job state.
// A job is written exactly twice: Create, then one of the Mark calls.
type JobRepository interface {
	Create(ctx context.Context, job *entity.Job) error
	GetByID(ctx context.Context, jobID uuid.UUID) (*entity.Job, error)
	// GetForOwner returns common.NotFoundError for a missing job and for a
	// job owned by someone else; the two causes are indistinguishable.
	GetForOwner(ctx context.Context, jobID, ownerID uuid.UUID) (*entity.Job, error)
	// MarkProcessed finalizes the job. The update is guarded on status so a
	// re-run against a terminal job is a no-op.
	MarkProcessed(ctx context.Context, jobID uuid.UUID, result json.RawMessage, transactionID uuid.UUID) error
	MarkFailed(ctx context.Context, jobID uuid.UUID, message string) error
}

type jobRepo struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewJobRepository(pool *pgxpool.Pool, log *slog.Logger) JobRepository {
	return &jobRepo{pool: pool, log: log}
}

const jobColumns = `id, owner_id, wallet_id, blob_key, original_filename, content_type,
	size_bytes, status, analysis_result, error_message, transaction_id, created_at, updated_at`

func (r *jobRepo) Create(ctx context.Context, job *entity.Job) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO receipt_jobs
			(id, owner_id, wallet_id, blob_key, original_filename, content_type, size_bytes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		job.ID, job.OwnerID, job.WalletID, job.BlobKey,
		job.OriginalFilename, job.ContentType, job.SizeBytes, job.Status,
	)
	if err != nil {
		r.log.Error("receipt_job create failed", "job_id", job.ID, "err", err)
		return err
	}
	r.log.Info("receipt_job created", "job_id", job.ID, "owner_id", job.OwnerID, "blob_key", job.BlobKey)
	return nil
}

func (r *jobRepo) GetByID(ctx context.Context, jobID uuid.UUID) (*entity.Job, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM receipt_jobs WHERE id = $1`, jobID)
	return scanJob(row)
}

func (r *jobRepo) GetForOwner(ctx context.Context, jobID, ownerID uuid.UUID) (*entity.Job, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM receipt_jobs WHERE id = $1 AND owner_id = $2`, jobID, ownerID)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NotFoundError("job not found")
		}
		return nil, err
	}
	return job, nil
}

func (r *jobRepo) MarkProcessed(ctx context.Context, jobID uuid.UUID, result json.RawMessage, transactionID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE receipt_jobs
		SET status = $2, analysis_result = $3, transaction_id = $4, updated_at = now()
		WHERE id = $1 AND status = $5`,
		jobID, constants.JobStatusProcessed, result, transactionID, constants.JobStatusProcessing,
	)
	if err != nil {
		r.log.Error("receipt_job finish(processed) failed", "job_id", jobID, "err", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		r.log.Warn("receipt_job already terminal, processed update skipped", "job_id", jobID)
		return nil
	}
	r.log.Info("receipt_job finished (processed)", "job_id", jobID, "transaction_id", transactionID)
	return nil
}

func (r *jobRepo) MarkFailed(ctx context.Context, jobID uuid.UUID, message string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE receipt_jobs
		SET status = $2, error_message = $3, updated_at = now()
		WHERE id = $1 AND status = $4`,
		jobID, constants.JobStatusFailed, message, constants.JobStatusProcessing,
	)
	if err != nil {
		r.log.Error("receipt_job finish(failed) failed", "job_id", jobID, "err", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		r.log.Warn("receipt_job already terminal, failed update skipped", "job_id", jobID)
		return nil
	}
	r.log.Warn("receipt_job finished (failed)", "job_id", jobID, "error", message)
	return nil
}

func scanJob(row pgx.Row) (*entity.Job, error) {
	var job entity.Job
	err := row.Scan(
		&job.ID, &job.OwnerID, &job.WalletID, &job.BlobKey, &job.OriginalFilename,
		&job.ContentType, &job.SizeBytes, &job.Status, &job.AnalysisResult,
		&job.ErrorMessage, &job.TransactionID, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &job, nil
}
