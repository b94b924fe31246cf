package error

import "errors"

// Ledger entry sentinel errors.
var (
	// ErrEntryNotFound is returned when a ledger entry is not found.
	ErrEntryNotFound = errors.New("ledger entry not found")

	// ErrInvalidAmount is returned when an entry amount is not positive.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrEmptyDescription is returned when an entry description is empty.
	ErrEmptyDescription = errors.New("description cannot be empty")

	// ErrInvalidDate is returned when an entry date is missing or malformed.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidDateRange is returned when a date range has end before start.
	ErrInvalidDateRange = errors.New("end date must not precede start date")

	// ErrInvalidPage is returned when pagination parameters are below one.
	ErrInvalidPage = errors.New("page number and page size must be at least 1")

	// ErrTransactionClosed is returned when a terminal transaction is reused.
	ErrTransactionClosed = errors.New("transaction already completed")

	// ErrSavepointReleased is returned when a released savepoint is reused.
	ErrSavepointReleased = errors.New("savepoint no longer active")
)

// Ledger error codes.
// Format: LGR-XXYYYY where XX is the class (01 validation, 02 not-found,
// 09 system) and YYYY the specific error.
const (
	ErrCodeInvalidAmount      = "LGR-010001"
	ErrCodeEmptyDescription   = "LGR-010002"
	ErrCodeInvalidDate        = "LGR-010003"
	ErrCodeInvalidDateRange   = "LGR-010004"
	ErrCodeInvalidPage        = "LGR-010005"
	ErrCodeInvalidKind        = "LGR-010006"
	ErrCodeInvalidGranularity = "LGR-010007"
	ErrCodeEmptyImport        = "LGR-010008"

	ErrCodeEntryNotFound = "LGR-020001"

	ErrCodeStoreFailure      = "LGR-090001"
	ErrCodeTransactionClosed = "LGR-090002"
	ErrCodeSavepointFailure  = "LGR-090003"
	ErrCodeCacheFailure      = "LGR-090004"
)
