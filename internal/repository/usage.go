package repository

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/receipt-ledger/internal/entity"
)

// UsageRepository appends one row per analysis-service invocation.
// Fire-and-forget from the pipeline's perspective.
type UsageRepository interface {
	Record(ctx context.Context, rec *entity.UsageRecord) error
}

type usageRepo struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewUsageRepository(pool *pgxpool.Pool, log *slog.Logger) UsageRepository {
	return &usageRepo{pool: pool, log: log}
}

func (r *usageRepo) Record(ctx context.Context, rec *entity.UsageRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO analysis_usage
			(id, job_id, prompt_excerpt, response_excerpt, prompt_tokens, completion_tokens, total_tokens, latency_ms, success)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.ID, rec.JobID, rec.PromptExcerpt, rec.ResponseExcerpt,
		rec.PromptTokens, rec.CompletionTokens, rec.TotalTokens, rec.LatencyMs, rec.Success,
	)
	if err != nil {
		r.log.Error("analysis_usage record failed", "job_id", rec.JobID, "err", err)
		return err
	}
	return nil
}
