package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the request conflicts with the current state of the resource.
var ErrConflict = errors.New("resource state conflict")

// ErrForbidden indicates that the caller is not allowed to perform the action.
var ErrForbidden = errors.New("action not allowed")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// Ledger posting errors.
var (
	// ErrUnbalanced indicates that an entry's debits and credits do not match.
	ErrUnbalanced = errors.New("entry debits and credits do not balance")

	// ErrEmptyLines indicates an entry with fewer than two lines, or lines
	// carrying no amounts at all.
	ErrEmptyLines = errors.New("entry must have at least two lines with a debit and a credit")

	// ErrUnknownAccount indicates a line referencing an account that does not exist.
	ErrUnknownAccount = errors.New("unknown account")

	// ErrInactiveAccount indicates a line referencing a deactivated account.
	ErrInactiveAccount = errors.New("account is inactive")

	// ErrAlreadyVoid indicates a void of an entry that is already void.
	ErrAlreadyVoid = errors.New("entry is already void")

	// ErrPeriodLocked indicates a mutation touching a line that belongs to a
	// locked reconciliation period.
	ErrPeriodLocked = errors.New("entry belongs to a locked reconciliation period")
)

// Chart-of-accounts errors.
var (
	// ErrDuplicateCode indicates an account code collision within a business.
	ErrDuplicateCode = errors.New("account code already exists")

	// ErrInvalidParent indicates a parent account that does not exist or is not usable.
	ErrInvalidParent = errors.New("invalid parent account")

	// ErrCycleDetected indicates the account hierarchy would contain a cycle.
	ErrCycleDetected = errors.New("account hierarchy cycle detected")

	// ErrAccountInUse indicates a deactivation of an account that still has
	// posted lines or active children.
	ErrAccountInUse = errors.New("account is in use")
)

// Reconciliation errors.
var (
	// ErrAlreadyLocked indicates a lock of a reconciliation that is already locked.
	ErrAlreadyLocked = errors.New("reconciliation is already locked")

	// ErrUnbalancedClosingBalance indicates that the computed ledger balance at
	// the statement date does not match the supplied closing balance.
	ErrUnbalancedClosingBalance = errors.New("closing balance does not match computed balance")
)
