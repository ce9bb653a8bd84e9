package services

import (
	"context"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	"github.com/smallbooks/bookkeeping_app/internal/dto"
)

// AccountSvcFacade is the chart-of-accounts registry contract. It owns the
// account hierarchy and category metadata; every other service resolves
// accounts through it.
type AccountSvcFacade interface {
	// CreateAccount validates and persists a new account. Fails with
	// apperrors.ErrDuplicateCode, apperrors.ErrInvalidParent or
	// apperrors.ErrCycleDetected.
	CreateAccount(ctx context.Context, businessID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)

	// GetAccountByID resolves a single account within the business scope.
	GetAccountByID(ctx context.Context, businessID string, accountID string) (*domain.Account, error)

	// GetAccountByIDs resolves multiple accounts, keyed by ID.
	GetAccountByIDs(ctx context.Context, businessID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves a paginated account list.
	ListAccounts(ctx context.Context, businessID string, params dto.ListAccountsParams) (*dto.ListAccountsResponse, error)

	// DeactivateAccount soft-deactivates an account. Fails with
	// apperrors.ErrAccountInUse when the account has posted lines or active children.
	DeactivateAccount(ctx context.Context, businessID string, accountID string, userID string) error

	// BootstrapStandardChart seeds a conventional minimal chart of accounts
	// for a new business. Codes that already exist are skipped.
	BootstrapStandardChart(ctx context.Context, businessID string, userID string) ([]domain.Account, error)
}
