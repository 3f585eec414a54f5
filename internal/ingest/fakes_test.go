package ingest

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/receipt-ledger/constants"
	"github.com/joseph-ayodele/receipt-ledger/internal/common"
	"github.com/joseph-ayodele/receipt-ledger/internal/entity"
	"github.com/joseph-ayodele/receipt-ledger/internal/llm"
)

// In-memory doubles for the pipeline's collaborators. Each fake mirrors the
// real component's contract, including the status guard on job finalization.

type fakeBlobStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	putErr    error
	signErr   error
	deleteErr error
	deleted   []string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: map[string][]byte{}}
}

func (f *fakeBlobStore) Put(_ context.Context, key string, data []byte, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[key] = data
	return nil
}

func (f *fakeBlobStore) SignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	if f.signErr != nil {
		return "", f.signErr
	}
	return "https://blobs.test/" + key, nil
}

func (f *fakeBlobStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

type fakeJobRepo struct {
	mu        sync.Mutex
	jobs      map[uuid.UUID]*entity.Job
	createErr error
	markErr   error
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: map[uuid.UUID]*entity.Job{}}
}

func (f *fakeJobRepo) Create(_ context.Context, job *entity.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	cp := *job
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.jobs[job.ID] = &cp
	return nil
}

func (f *fakeJobRepo) GetByID(_ context.Context, jobID uuid.UUID) (*entity.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[jobID]
	if !ok {
		return nil, common.NotFoundError("job not found")
	}
	cp := *job
	return &cp, nil
}

func (f *fakeJobRepo) GetForOwner(_ context.Context, jobID, ownerID uuid.UUID) (*entity.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[jobID]
	if !ok || job.OwnerID != ownerID {
		return nil, common.NotFoundError("job not found")
	}
	cp := *job
	return &cp, nil
}

func (f *fakeJobRepo) MarkProcessed(_ context.Context, jobID uuid.UUID, result json.RawMessage, transactionID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return f.markErr
	}
	job, ok := f.jobs[jobID]
	if !ok || job.Status != constants.JobStatusProcessing {
		return nil
	}
	job.Status = constants.JobStatusProcessed
	job.AnalysisResult = result
	job.TransactionID = &transactionID
	job.UpdatedAt = time.Now()
	return nil
}

func (f *fakeJobRepo) MarkFailed(_ context.Context, jobID uuid.UUID, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return f.markErr
	}
	job, ok := f.jobs[jobID]
	if !ok || job.Status != constants.JobStatusProcessing {
		return nil
	}
	job.Status = constants.JobStatusFailed
	job.ErrorMessage = &message
	job.UpdatedAt = time.Now()
	return nil
}

func (f *fakeJobRepo) get(jobID uuid.UUID) *entity.Job {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.jobs[jobID]
}

type fakeWalletRepo struct {
	allowed map[uuid.UUID]uuid.UUID // wallet -> owner
}

func (f *fakeWalletRepo) CheckAccess(_ context.Context, walletID, ownerID uuid.UUID) error {
	if owner, ok := f.allowed[walletID]; ok && owner == ownerID {
		return nil
	}
	return common.AccessDeniedError("wallet is not accessible")
}

type fakeLedger struct {
	mu           sync.Mutex
	transactions []*entity.Transaction
	items        []*entity.TransactionItem
	txnErr       error
	itemErrFor   map[string]error // item name -> error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{itemErrFor: map[string]error{}}
}

func (f *fakeLedger) CreateTransaction(_ context.Context, txn *entity.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.txnErr != nil {
		return f.txnErr
	}
	cp := *txn
	f.transactions = append(f.transactions, &cp)
	return nil
}

func (f *fakeLedger) CreateTransactionItem(_ context.Context, item *entity.TransactionItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.itemErrFor[item.Name]; ok {
		return err
	}
	cp := *item
	f.items = append(f.items, &cp)
	return nil
}

func (f *fakeLedger) ListTransactions(_ context.Context, ownerID uuid.UUID, walletID *uuid.UUID, _, _ *time.Time) ([]*entity.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Transaction
	for _, t := range f.transactions {
		if t.OwnerID != ownerID {
			continue
		}
		if walletID != nil && t.WalletID != *walletID {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

type fakeUsageRepo struct {
	mu      sync.Mutex
	records []*entity.UsageRecord
	err     error
}

func (f *fakeUsageRepo) Record(_ context.Context, rec *entity.UsageRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	cp := *rec
	f.records = append(f.records, &cp)
	return nil
}

type fakeAnalyzer struct {
	resp *llm.AnalyzeResponse
	err  error
}

func (f *fakeAnalyzer) Analyze(_ context.Context, _, _, _ string) (*llm.AnalyzeResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type fakeRunner struct {
	ran chan uuid.UUID
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{ran: make(chan uuid.UUID, 4)}
}

func (f *fakeRunner) Run(jobID uuid.UUID) {
	f.ran <- jobID
}

// blockingRunner parks until released, so tests can assert the submit path
// never waits on the worker.
type blockingRunner struct {
	started chan uuid.UUID
	release chan struct{}
}

func newBlockingRunner() *blockingRunner {
	return &blockingRunner{started: make(chan uuid.UUID, 1), release: make(chan struct{})}
}

func (b *blockingRunner) Run(jobID uuid.UUID) {
	b.started <- jobID
	<-b.release
}
