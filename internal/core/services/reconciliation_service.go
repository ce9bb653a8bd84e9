package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/smallbooks/bookkeeping_app/internal/apperrors"
	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/smallbooks/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/smallbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/smallbooks/bookkeeping_app/internal/dto"
	"github.com/smallbooks/bookkeeping_app/internal/utils/accounting"
)

// defaultMatchWindowDays is the symmetric date window within which a ledger
// line is considered a candidate for a statement line.
const defaultMatchWindowDays = 3

// reconciliationService implements the reconciliation matcher.
type reconciliationService struct {
	BaseService
	reconRepo       portsrepo.ReconciliationRepositoryFacade
	accountSvc      portssvc.AccountSvcFacade
	matchWindowDays int
}

// ReconciliationServiceOption is a functional option for configuring the
// reconciliation service.
type ReconciliationServiceOption func(*reconciliationService)

// WithMatchWindowDays overrides the candidate date window.
func WithMatchWindowDays(days int) ReconciliationServiceOption {
	return func(s *reconciliationService) {
		if days > 0 {
			s.matchWindowDays = days
		}
	}
}

// NewReconciliationService creates a new reconciliation service.
func NewReconciliationService(reconRepo portsrepo.ReconciliationRepositoryFacade, accountSvc portssvc.AccountSvcFacade, options ...ReconciliationServiceOption) portssvc.ReconciliationSvcFacade {
	svc := &reconciliationService{
		reconRepo:       reconRepo,
		accountSvc:      accountSvc,
		matchWindowDays: defaultMatchWindowDays,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// CreateReconciliation opens a statement period for an account.
func (s *reconciliationService) CreateReconciliation(ctx context.Context, businessID string, req dto.CreateReconciliationRequest, creatorUserID string) (*domain.Reconciliation, error) {
	// The account must exist and belong to the business.
	if _, err := s.accountSvc.GetAccountByID(ctx, businessID, req.AccountID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rec := domain.Reconciliation{
		ReconciliationID: uuid.NewString(),
		BusinessID:       businessID,
		AccountID:        req.AccountID,
		StatementDate:    req.StatementDate,
		ClosingBalance:   req.ClosingBalance,
		Status:           domain.ReconciliationOpen,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.reconRepo.SaveReconciliation(ctx, rec); err != nil {
		s.LogError(ctx, err, "Failed to save reconciliation", slog.String("account_id", req.AccountID))
		return nil, fmt.Errorf("failed to save reconciliation: %w", err)
	}

	s.LogInfo(ctx, "Reconciliation created",
		slog.String("reconciliation_id", rec.ReconciliationID),
		slog.String("account_id", rec.AccountID))
	return &rec, nil
}

// GetReconciliation retrieves a reconciliation record within the business scope.
func (s *reconciliationService) GetReconciliation(ctx context.Context, businessID string, reconciliationID string) (*domain.Reconciliation, error) {
	rec, err := s.reconRepo.FindReconciliationByID(ctx, reconciliationID)
	if err != nil {
		return nil, err
	}
	if rec.BusinessID != businessID {
		return nil, apperrors.ErrNotFound // Obscure existence
	}
	return rec, nil
}

// ListReconciliations retrieves the account's reconciliation records.
func (s *reconciliationService) ListReconciliations(ctx context.Context, businessID string, accountID string) ([]domain.Reconciliation, error) {
	if _, err := s.accountSvc.GetAccountByID(ctx, businessID, accountID); err != nil {
		return nil, err
	}
	return s.reconRepo.ListReconciliations(ctx, businessID, accountID)
}

// ListMatches retrieves all matches recorded against a reconciliation.
func (s *reconciliationService) ListMatches(ctx context.Context, businessID string, reconciliationID string) ([]domain.Match, error) {
	if _, err := s.GetReconciliation(ctx, businessID, reconciliationID); err != nil {
		return nil, err
	}
	return s.reconRepo.ListMatches(ctx, reconciliationID)
}

// AutoMatch matches statement lines against unmatched posted ledger lines on
// the reconciliation's account. Candidates must agree on amount within epsilon
// and fall inside the date window; ties are resolved by closest date, then
// lowest line id, and flagged for review. Matched results are persisted as a
// side table; posted entries are never touched.
func (s *reconciliationService) AutoMatch(ctx context.Context, businessID string, reconciliationID string, lines []domain.StatementLine, userID string) (*domain.MatchResult, error) {
	rec, err := s.GetReconciliation(ctx, businessID, reconciliationID)
	if err != nil {
		return nil, err
	}
	if rec.Status == domain.ReconciliationLocked {
		return nil, fmt.Errorf("%w: reconciliation %s", apperrors.ErrAlreadyLocked, reconciliationID)
	}
	if len(lines) == 0 {
		return &domain.MatchResult{Matched: []domain.Match{}, Unmatched: []domain.StatementLine{}}, nil
	}

	window := time.Duration(s.matchWindowDays) * 24 * time.Hour
	from, to := statementSpan(lines, window)

	candidates, err := s.reconRepo.FindUnmatchedPostedLines(ctx, businessID, rec.AccountID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch unmatched ledger lines", slog.String("account_id", rec.AccountID))
		return nil, fmt.Errorf("failed to retrieve unmatched ledger lines: %w", err)
	}

	now := time.Now().UTC()
	taken := make(map[string]struct{}, len(candidates))
	result := &domain.MatchResult{
		Matched:   []domain.Match{},
		Unmatched: []domain.StatementLine{},
	}

	for _, stmt := range lines {
		var eligible []domain.LedgerLine
		for _, cand := range candidates {
			if _, used := taken[cand.LineID]; used {
				continue
			}
			if !accounting.EqualWithinEpsilon(cand.Debit.Sub(cand.Credit), stmt.Amount) {
				continue
			}
			if dateDistance(cand.Date, stmt.Date) > window {
				continue
			}
			eligible = append(eligible, cand)
		}

		if len(eligible) == 0 {
			result.Unmatched = append(result.Unmatched, stmt)
			continue
		}

		tieBroken := len(eligible) > 1
		if tieBroken {
			// Deterministic tie-break: closest date first, then lowest line id.
			stmtDate := stmt.Date
			sort.Slice(eligible, func(i, j int) bool {
				di := dateDistance(eligible[i].Date, stmtDate)
				dj := dateDistance(eligible[j].Date, stmtDate)
				if di != dj {
					return di < dj
				}
				return eligible[i].LineID < eligible[j].LineID
			})
		}

		chosen := eligible[0]
		taken[chosen.LineID] = struct{}{}
		result.Matched = append(result.Matched, domain.Match{
			MatchID:          uuid.NewString(),
			ReconciliationID: reconciliationID,
			LineID:           chosen.LineID,
			StatementDate:    stmt.Date,
			StatementDesc:    stmt.Description,
			StatementAmount:  stmt.Amount,
			TieBroken:        tieBroken,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		})
	}

	if len(result.Matched) > 0 {
		if err := s.reconRepo.SaveMatches(ctx, result.Matched); err != nil {
			s.LogError(ctx, err, "Failed to save matches", slog.String("reconciliation_id", reconciliationID))
			return nil, fmt.Errorf("failed to save matches: %w", err)
		}
	}

	s.LogInfo(ctx, "Auto-match completed",
		slog.String("reconciliation_id", reconciliationID),
		slog.Int("matched", len(result.Matched)),
		slog.Int("unmatched", len(result.Unmatched)))
	return result, nil
}

// AddMatch manually links a statement record to an unmatched posted line.
// Manual matches skip the date window; the line only has to be posted, on the
// reconciliation's account, and not matched already.
func (s *reconciliationService) AddMatch(ctx context.Context, businessID string, reconciliationID string, req dto.AddMatchRequest, userID string) (*domain.Match, error) {
	rec, err := s.GetReconciliation(ctx, businessID, reconciliationID)
	if err != nil {
		return nil, err
	}
	if rec.Status == domain.ReconciliationLocked {
		return nil, fmt.Errorf("%w: reconciliation %s", apperrors.ErrAlreadyLocked, reconciliationID)
	}

	if _, err := s.reconRepo.FindUnmatchedPostedLine(ctx, businessID, rec.AccountID, req.LineID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	match := domain.Match{
		MatchID:          uuid.NewString(),
		ReconciliationID: reconciliationID,
		LineID:           req.LineID,
		StatementDate:    req.StatementDate,
		StatementDesc:    req.StatementDesc,
		StatementAmount:  req.StatementAmount,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.reconRepo.SaveMatches(ctx, []domain.Match{match}); err != nil {
		s.LogError(ctx, err, "Failed to save manual match", slog.String("reconciliation_id", reconciliationID))
		return nil, fmt.Errorf("failed to save match: %w", err)
	}

	s.LogInfo(ctx, "Manual match added",
		slog.String("reconciliation_id", reconciliationID),
		slog.String("line_id", req.LineID))
	return &match, nil
}

// RemoveMatch deletes a match from an open reconciliation.
func (s *reconciliationService) RemoveMatch(ctx context.Context, businessID string, reconciliationID string, matchID string) error {
	rec, err := s.GetReconciliation(ctx, businessID, reconciliationID)
	if err != nil {
		return err
	}
	if rec.Status == domain.ReconciliationLocked {
		return fmt.Errorf("%w: reconciliation %s", apperrors.ErrAlreadyLocked, reconciliationID)
	}

	matches, err := s.reconRepo.ListMatches(ctx, reconciliationID)
	if err != nil {
		return fmt.Errorf("failed to retrieve matches: %w", err)
	}
	for _, m := range matches {
		if m.MatchID == matchID {
			return s.reconRepo.DeleteMatch(ctx, matchID)
		}
	}
	return fmt.Errorf("%w: match %s", apperrors.ErrNotFound, matchID)
}

// Lock makes the reconciliation terminal. The repository performs the
// check-and-flip inside a serialized critical section so a concurrent void
// cannot slip in between the balance verification and the status change.
func (s *reconciliationService) Lock(ctx context.Context, businessID string, reconciliationID string, userID string) error {
	rec, err := s.GetReconciliation(ctx, businessID, reconciliationID)
	if err != nil {
		return err
	}
	if rec.Status == domain.ReconciliationLocked {
		return fmt.Errorf("%w: reconciliation %s", apperrors.ErrAlreadyLocked, reconciliationID)
	}

	account, err := s.accountSvc.GetAccountByID(ctx, businessID, rec.AccountID)
	if err != nil {
		return err
	}

	if err := s.reconRepo.LockReconciliation(ctx, *rec, account.Category, userID, time.Now().UTC()); err != nil {
		s.LogError(ctx, err, "Failed to lock reconciliation", slog.String("reconciliation_id", reconciliationID))
		return err
	}

	s.LogInfo(ctx, "Reconciliation locked", slog.String("reconciliation_id", reconciliationID))
	return nil
}

// statementSpan returns the candidate query range covering every statement
// line's date, widened by the match window on both sides.
func statementSpan(lines []domain.StatementLine, window time.Duration) (time.Time, time.Time) {
	min, max := lines[0].Date, lines[0].Date
	for _, l := range lines[1:] {
		if l.Date.Before(min) {
			min = l.Date
		}
		if l.Date.After(max) {
			max = l.Date
		}
	}
	return min.Add(-window), max.Add(window)
}

// dateDistance is the absolute duration between two dates.
func dateDistance(a, b time.Time) time.Duration {
	d := a.Sub(b)
	if d < 0 {
		return -d
	}
	return d
}
