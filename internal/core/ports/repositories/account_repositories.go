package repositories

import (
	"context"
	"time"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
)

// AccountReader defines read operations for chart-of-accounts data.
type AccountReader interface {
	// FindAccountByID retrieves an account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its business-unique code.
	FindAccountByCode(ctx context.Context, businessID string, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts keyed by ID. Missing IDs are
	// simply absent from the returned map.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts for a business using
	// token-based pagination.
	ListAccounts(ctx context.Context, businessID string, limit int, nextToken *string) ([]domain.Account, *string, error)

	// HasActiveChildren reports whether any active account names this one as parent.
	HasActiveChildren(ctx context.Context, accountID string) (bool, error)

	// HasPostedLines reports whether any posted entry line references this account.
	HasPostedLines(ctx context.Context, accountID string) (bool, error)
}

// AccountWriter defines write operations for chart-of-accounts data.
type AccountWriter interface {
	// SaveAccount persists a new account. Code collisions surface as
	// apperrors.ErrDuplicateCode.
	SaveAccount(ctx context.Context, account domain.Account) error

	// SaveAccounts persists a batch of new accounts atomically (chart bootstrap).
	SaveAccounts(ctx context.Context, accounts []domain.Account) error

	// DeactivateAccount soft-deactivates an account. Rows are never deleted.
	DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
