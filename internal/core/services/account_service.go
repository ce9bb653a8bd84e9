package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/smallbooks/bookkeeping_app/internal/apperrors"
	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/smallbooks/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/smallbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/smallbooks/bookkeeping_app/internal/dto"
)

// maxParentDepth bounds the parent chain walk during cycle checks.
const maxParentDepth = 32

// accountService implements the chart-of-accounts registry.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount validates and persists a new account node.
func (s *accountService) CreateAccount(ctx context.Context, businessID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	if !req.Category.IsValid() {
		return nil, fmt.Errorf("%w: unknown account category %q", apperrors.ErrValidation, req.Category)
	}

	// Code must be unique within the business. The DB constraint is the
	// authority; this check just gives a cleaner early failure.
	existing, err := s.accountRepo.FindAccountByCode(ctx, businessID, req.Code)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check account code %s: %w", req.Code, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: code %s", apperrors.ErrDuplicateCode, req.Code)
	}

	parentID := ""
	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		parentID = *req.ParentAccountID
		if err := s.validateParentChain(ctx, businessID, parentID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		BusinessID:      businessID,
		Code:            req.Code,
		Name:            req.Name,
		Category:        req.Category,
		ParentAccountID: parentID,
		Description:     req.Description,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("business_id", businessID), slog.String("code", req.Code))
		return nil, err
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

// validateParentChain resolves the proposed parent and walks its ancestry,
// failing when the parent is unusable or the chain exceeds maxParentDepth.
// A new node cannot introduce a cycle by itself, but a corrupted chain (or one
// deeper than the bound) is rejected the same way.
func (s *accountService) validateParentChain(ctx context.Context, businessID string, parentID string) error {
	seen := make(map[string]struct{}, 8)
	currentID := parentID
	for depth := 0; currentID != ""; depth++ {
		if depth >= maxParentDepth {
			return fmt.Errorf("%w: parent chain exceeds depth %d", apperrors.ErrCycleDetected, maxParentDepth)
		}
		if _, ok := seen[currentID]; ok {
			return fmt.Errorf("%w: account %s is its own ancestor", apperrors.ErrCycleDetected, currentID)
		}
		seen[currentID] = struct{}{}

		node, err := s.accountRepo.FindAccountByID(ctx, currentID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: account %s not found", apperrors.ErrInvalidParent, currentID)
			}
			return fmt.Errorf("failed to resolve parent %s: %w", currentID, err)
		}
		if node.BusinessID != businessID {
			// Obscure existence of accounts outside the scope.
			return fmt.Errorf("%w: account %s not found", apperrors.ErrInvalidParent, currentID)
		}
		if currentID == parentID && !node.IsActive {
			return fmt.Errorf("%w: account %s is inactive", apperrors.ErrInvalidParent, currentID)
		}
		currentID = node.ParentAccountID
	}
	return nil
}

// GetAccountByID resolves a single account within the business scope.
func (s *accountService) GetAccountByID(ctx context.Context, businessID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.BusinessID != businessID {
		return nil, apperrors.ErrNotFound // Obscure existence
	}
	return account, nil
}

// GetAccountByIDs resolves multiple accounts, keyed by ID. Accounts outside
// the business scope are omitted, matching the repository's missing-ID behavior.
func (s *accountService) GetAccountByIDs(ctx context.Context, businessID string, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, uniqueStrings(accountIDs))
	if err != nil {
		return nil, err
	}
	for id, acc := range accounts {
		if acc.BusinessID != businessID {
			delete(accounts, id)
		}
	}
	return accounts, nil
}

// ListAccounts retrieves a paginated account list for the business.
func (s *accountService) ListAccounts(ctx context.Context, businessID string, params dto.ListAccountsParams) (*dto.ListAccountsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	accounts, nextToken, err := s.accountRepo.ListAccounts(ctx, businessID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("business_id", businessID))
		return nil, fmt.Errorf("failed to retrieve accounts: %w", err)
	}

	return &dto.ListAccountsResponse{
		Accounts:  dto.ToAccountResponses(accounts),
		NextToken: nextToken,
	}, nil
}

// DeactivateAccount soft-deactivates an account once nothing depends on it.
func (s *accountService) DeactivateAccount(ctx context.Context, businessID string, accountID string, userID string) error {
	account, err := s.GetAccountByID(ctx, businessID, accountID)
	if err != nil {
		return err
	}
	if !account.IsActive {
		return nil // Already inactive; idempotent
	}

	hasChildren, err := s.accountRepo.HasActiveChildren(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to check children of account %s: %w", accountID, err)
	}
	if hasChildren {
		return fmt.Errorf("%w: account %s has active child accounts", apperrors.ErrAccountInUse, accountID)
	}

	hasLines, err := s.accountRepo.HasPostedLines(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to check posted lines of account %s: %w", accountID, err)
	}
	if hasLines {
		return fmt.Errorf("%w: account %s has posted entry lines", apperrors.ErrAccountInUse, accountID)
	}

	if err := s.accountRepo.DeactivateAccount(ctx, accountID, userID, time.Now().UTC()); err != nil {
		s.LogError(ctx, err, "Failed to deactivate account", slog.String("account_id", accountID))
		return err
	}

	s.LogInfo(ctx, "Account deactivated", slog.String("account_id", accountID))
	return nil
}

// standardChartEntry seeds one node of the conventional minimal chart.
type standardChartEntry struct {
	code     string
	name     string
	category domain.AccountCategory
}

var standardChart = []standardChartEntry{
	{"1000", "Cash", domain.Asset},
	{"1100", "Accounts Receivable", domain.Asset},
	{"1500", "Equipment", domain.Asset},
	{"2000", "Accounts Payable", domain.Liability},
	{"2500", "Loans Payable", domain.Liability},
	{"3000", "Owner's Equity", domain.Equity},
	{"3900", "Retained Earnings", domain.Equity},
	{"4000", "Sales Revenue", domain.Revenue},
	{"4100", "Other Income", domain.Revenue},
	{"5000", "Cost of Goods Sold", domain.Expense},
	{"6000", "Operating Expenses", domain.Expense},
	{"6100", "Payroll Expenses", domain.Expense},
}

// BootstrapStandardChart seeds the conventional minimal chart for a business.
// Codes already present are skipped so the call is safe to repeat.
func (s *accountService) BootstrapStandardChart(ctx context.Context, businessID string, userID string) ([]domain.Account, error) {
	now := time.Now().UTC()
	created := make([]domain.Account, 0, len(standardChart))

	for _, entry := range standardChart {
		existing, err := s.accountRepo.FindAccountByCode(ctx, businessID, entry.code)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to check account code %s: %w", entry.code, err)
		}
		if existing != nil {
			continue
		}
		created = append(created, domain.Account{
			AccountID:  uuid.NewString(),
			BusinessID: businessID,
			Code:       entry.code,
			Name:       entry.name,
			Category:   entry.category,
			IsActive:   true,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		})
	}

	if len(created) == 0 {
		return []domain.Account{}, nil
	}

	if err := s.accountRepo.SaveAccounts(ctx, created); err != nil {
		s.LogError(ctx, err, "Failed to bootstrap standard chart", slog.String("business_id", businessID))
		return nil, fmt.Errorf("failed to bootstrap standard chart: %w", err)
	}

	s.LogInfo(ctx, "Standard chart bootstrapped", slog.String("business_id", businessID), slog.Int("accounts", len(created)))
	return created, nil
}
