package constants

// JobStatus is the canonical status for rows in receipt_jobs.
type JobStatus string

// Stable values (store these exact strings in DB).
const (
	JobStatusProcessing JobStatus = "processing" // extraction in flight
	JobStatusProcessed  JobStatus = "processed"  // terminal success
	JobStatusFailed     JobStatus = "failed"     // terminal failure
)

// Terminal reports whether no further transitions are permitted from s.
func (s JobStatus) Terminal() bool {
	return s == JobStatusProcessed || s == JobStatusFailed
}

// TransactionType is the direction of a ledger transaction.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// ParseTransactionType maps free-form model output to a known type,
// falling back to expense.
func ParseTransactionType(s string) TransactionType {
	if TransactionType(s) == TransactionTypeIncome {
		return TransactionTypeIncome
	}
	return TransactionTypeExpense
}
