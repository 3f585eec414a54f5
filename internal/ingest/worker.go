package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/receipt-ledger/constants"
	"github.com/joseph-ayodele/receipt-ledger/internal/entity"
	"github.com/joseph-ayodele/receipt-ledger/internal/llm"
	"github.com/joseph-ayodele/receipt-ledger/internal/repository"
	"github.com/joseph-ayodele/receipt-ledger/internal/storage"
)

const (
	usageExcerptLen = 500
	errorExcerptLen = 200
)

// Worker runs one extraction end to end: signed URL, analysis call, decode,
// materialize, finalize. Exactly one terminal transition per job.
type Worker struct {
	jobs         repository.JobRepository
	blobs        storage.BlobStore
	analyzer     llm.Analyzer
	materializer *Materializer
	usage        repository.UsageRepository
	signedURLTTL time.Duration
	logger       *slog.Logger
}

func NewWorker(
	jobs repository.JobRepository,
	blobs storage.BlobStore,
	analyzer llm.Analyzer,
	materializer *Materializer,
	usage repository.UsageRepository,
	signedURLTTL time.Duration,
	logger *slog.Logger,
) *Worker {
	if signedURLTTL <= 0 {
		signedURLTTL = time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		jobs:         jobs,
		blobs:        blobs,
		analyzer:     analyzer,
		materializer: materializer,
		usage:        usage,
		signedURLTTL: signedURLTTL,
		logger:       logger,
	}
}

// Run is the detached task body. No caller awaits it, so nothing escapes:
// failures land on the job record, and a panic stops at this boundary.
func (w *Worker) Run(jobID uuid.UUID) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("extract.panic", "job_id", jobID, "panic", r)
		}
	}()

	// Detached from the request context on purpose; there is no watchdog on
	// the worker itself, only the transport timeouts of the clients it calls.
	ctx := context.Background()

	job, err := w.jobs.GetByID(ctx, jobID)
	if err != nil {
		w.logger.Error("extract.load_failed", "job_id", jobID, "err", err)
		return
	}
	if job.Status != constants.JobStatusProcessing {
		// Re-invocation on a terminal job is a no-op.
		w.logger.Debug("extract.already_terminal", "job_id", jobID, "status", job.Status)
		return
	}

	url, err := w.blobs.SignedURL(ctx, job.BlobKey, w.signedURLTTL)
	if err != nil {
		w.fail(ctx, jobID, "signing blob url: "+err.Error())
		return
	}

	prompt := llm.BuildExtractionPrompt()
	start := time.Now()
	resp, analyzeErr := w.analyzer.Analyze(ctx, prompt, url, job.ContentType)
	latencyMs := time.Since(start).Milliseconds()

	// One accounting row per invocation, emitted after the terminal state is
	// decided. Its failure never alters that state.
	success := false
	defer func() {
		w.recordUsage(ctx, jobID, prompt, resp, latencyMs, success)
	}()

	if analyzeErr != nil {
		w.fail(ctx, jobID, "analysis request failed: "+analyzeErr.Error())
		return
	}

	fields, _, err := llm.DecodeFields(resp.Text, w.logger)
	if err != nil {
		w.logger.Warn("extract.parse_failed", "job_id", jobID, "err", err)
		w.fail(ctx, jobID, fmt.Sprintf("unparseable analysis reply: %v; raw: %q",
			err, llm.Excerpt(resp.Text, errorExcerptLen)))
		return
	}
	fields.ApplyDefaults(time.Now())

	txn, err := w.materializer.Materialize(ctx, fields, job.WalletID, job.OwnerID, job.ID)
	if err != nil {
		w.fail(ctx, jobID, "materializing transaction: "+err.Error())
		return
	}

	result, err := json.Marshal(fields)
	if err != nil {
		w.fail(ctx, jobID, "encoding extraction result: "+err.Error())
		return
	}
	if err := w.jobs.MarkProcessed(ctx, jobID, result, txn.ID); err != nil {
		w.logger.Error("extract.finalize_failed", "job_id", jobID, "err", err)
		return
	}

	success = true
	w.logger.Info("extract.ok",
		"job_id", jobID,
		"transaction_id", txn.ID,
		"merchant", fields.Merchant,
		"total", fields.Total,
		"latency_ms", latencyMs,
	)
}

func (w *Worker) fail(ctx context.Context, jobID uuid.UUID, message string) {
	if err := w.jobs.MarkFailed(ctx, jobID, message); err != nil {
		w.logger.Error("extract.fail_update_failed", "job_id", jobID, "err", err)
	}
}

func (w *Worker) recordUsage(ctx context.Context, jobID uuid.UUID, prompt string, resp *llm.AnalyzeResponse, latencyMs int64, success bool) {
	rec := &entity.UsageRecord{
		ID:            uuid.New(),
		JobID:         jobID,
		PromptExcerpt: llm.Excerpt(prompt, usageExcerptLen),
		LatencyMs:     latencyMs,
		Success:       success,
	}
	if resp != nil {
		rec.ResponseExcerpt = llm.Excerpt(resp.Text, usageExcerptLen)
		rec.PromptTokens = resp.PromptTokens
		rec.CompletionTokens = resp.CompletionTokens
		rec.TotalTokens = resp.TotalTokens
	}
	if err := w.usage.Record(ctx, rec); err != nil {
		// Swallowed: accounting must not disturb a decided job.
		w.logger.Warn("extract.usage_record_failed", "job_id", jobID, "err", err)
	}
}
