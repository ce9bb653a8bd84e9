package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smallbooks/bookkeeping_app/internal/apperrors"
	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/smallbooks/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/smallbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/smallbooks/bookkeeping_app/internal/dto"
	"github.com/smallbooks/bookkeeping_app/internal/utils/accounting"
)

// journalService implements the ledger engine: it validates entries against
// the chart-of-accounts registry and commits them atomically.
type journalService struct {
	BaseService
	accountSvc  portssvc.AccountSvcFacade
	journalRepo portsrepo.JournalRepositoryFacade
}

// NewJournalService creates a new journal service.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountSvc portssvc.AccountSvcFacade) portssvc.JournalSvcFacade {
	return &journalService{
		accountSvc:  accountSvc,
		journalRepo: journalRepo,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// validateStructure rejects entries that cannot possibly balance: fewer than
// two lines, a negative amount, or the absence of a non-zero debit and a
// non-zero credit. Both sides recorded on one line are tolerated; the net
// effect is what counts.
func (s *journalService) validateStructure(lines []dto.CreateEntryLineRequest) error {
	if len(lines) < 2 {
		return fmt.Errorf("%w: %d lines", apperrors.ErrEmptyLines, len(lines))
	}

	hasDebit := false
	hasCredit := false
	for i, line := range lines {
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return fmt.Errorf("%w: negative amount on line %d for account %s", apperrors.ErrValidation, i, line.AccountID)
		}
		if line.Debit.IsPositive() {
			hasDebit = true
		}
		if line.Credit.IsPositive() {
			hasCredit = true
		}
	}
	if !hasDebit || !hasCredit {
		return fmt.Errorf("%w: entry needs at least one non-zero debit and one non-zero credit", apperrors.ErrEmptyLines)
	}
	return nil
}

// resolveAccounts fetches every referenced account through the registry,
// rejecting unknown or inactive ones.
func (s *journalService) resolveAccounts(ctx context.Context, businessID string, lines []dto.CreateEntryLineRequest) (map[string]domain.Account, error) {
	accountIDs := make([]string, 0, len(lines))
	for _, line := range lines {
		accountIDs = append(accountIDs, line.AccountID)
	}
	uniqueIDs := uniqueStrings(accountIDs)

	accountsMap, err := s.accountSvc.GetAccountByIDs(ctx, businessID, uniqueIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	for _, id := range uniqueIDs {
		acc, found := accountsMap[id]
		if !found {
			return nil, fmt.Errorf("%w: ID %s", apperrors.ErrUnknownAccount, id)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: ID %s", apperrors.ErrInactiveAccount, id)
		}
	}
	return accountsMap, nil
}

// validateBalance checks that the entry's debit and credit totals agree
// within epsilon. The engine never silently corrects an unbalanced entry.
func (s *journalService) validateBalance(lines []dto.CreateEntryLineRequest) error {
	debitSum := decimal.Zero
	creditSum := decimal.Zero
	for _, line := range lines {
		debitSum = debitSum.Add(line.Debit)
		creditSum = creditSum.Add(line.Credit)
	}
	if !accounting.EqualWithinEpsilon(debitSum, creditSum) {
		return fmt.Errorf("%w: debits sum to %s, credits sum to %s",
			apperrors.ErrUnbalanced, debitSum.String(), creditSum.String())
	}
	return nil
}

// buildEntry materializes the domain entry and lines from the request.
func (s *journalService) buildEntry(businessID string, req dto.CreateEntryRequest, status domain.EntryStatus, creatorUserID string, now time.Time) (domain.JournalEntry, []domain.JournalEntryLine) {
	entryID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorUserID,
	}

	entry := domain.JournalEntry{
		EntryID:     entryID,
		BusinessID:  businessID,
		EntryDate:   req.Date,
		Description: req.Description,
		Reference:   req.Reference,
		Status:      status,
		AuditFields: audit,
	}

	lines := make([]domain.JournalEntryLine, len(req.Lines))
	for i, lineReq := range req.Lines {
		lines[i] = domain.JournalEntryLine{
			LineID:      uuid.NewString(),
			EntryID:     entryID,
			AccountID:   lineReq.AccountID,
			Debit:       lineReq.Debit,
			Credit:      lineReq.Credit,
			Description: lineReq.Description,
			AuditFields: audit,
		}
	}
	return entry, lines
}

// PostEntry validates and commits a journal entry as Posted. All validation
// failures are detected before any persistence write.
func (s *journalService) PostEntry(ctx context.Context, businessID string, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	// Validation order: structure, account resolution, balance, then persist.
	if err := s.validateStructure(req.Lines); err != nil {
		return nil, err
	}
	if _, err := s.resolveAccounts(ctx, businessID, req.Lines); err != nil {
		return nil, err
	}
	if err := s.validateBalance(req.Lines); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry, lines := s.buildEntry(businessID, req, domain.Posted, creatorUserID, now)

	if err := s.journalRepo.SaveEntry(ctx, entry, lines); err != nil {
		s.LogError(ctx, err, "Failed to save entry", slog.String("business_id", businessID))
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}

	s.LogInfo(ctx, "Entry posted", slog.String("entry_id", entry.EntryID), slog.Int("lines", len(lines)))
	entry.Lines = lines
	return &entry, nil
}

// SaveDraft stores an entry as Draft. Structure is validated up front so a
// draft is always shaped like an entry; the balance check waits for PostDraft.
func (s *journalService) SaveDraft(ctx context.Context, businessID string, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	if err := s.validateStructure(req.Lines); err != nil {
		return nil, err
	}
	if _, err := s.resolveAccounts(ctx, businessID, req.Lines); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry, lines := s.buildEntry(businessID, req, domain.Draft, creatorUserID, now)

	if err := s.journalRepo.SaveEntry(ctx, entry, lines); err != nil {
		s.LogError(ctx, err, "Failed to save draft entry", slog.String("business_id", businessID))
		return nil, fmt.Errorf("failed to save draft entry: %w", err)
	}

	s.LogInfo(ctx, "Draft entry saved", slog.String("entry_id", entry.EntryID))
	entry.Lines = lines
	return &entry, nil
}

// PostDraft runs full posting validation on a stored draft and flips it to Posted.
func (s *journalService) PostDraft(ctx context.Context, businessID string, entryID string, userID string) (*domain.JournalEntry, error) {
	entry, err := s.GetEntryByID(ctx, businessID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.Draft {
		return nil, fmt.Errorf("%w: entry %s status is %s, expected DRAFT", apperrors.ErrConflict, entryID, entry.Status)
	}

	// Re-run posting validation against current account state.
	lineReqs := make([]dto.CreateEntryLineRequest, len(entry.Lines))
	for i, line := range entry.Lines {
		lineReqs[i] = dto.CreateEntryLineRequest{
			AccountID: line.AccountID,
			Debit:     line.Debit,
			Credit:    line.Credit,
		}
	}
	if err := s.validateStructure(lineReqs); err != nil {
		return nil, err
	}
	if _, err := s.resolveAccounts(ctx, businessID, lineReqs); err != nil {
		return nil, err
	}
	if err := s.validateBalance(lineReqs); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.journalRepo.MarkEntryPosted(ctx, entryID, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to post draft", slog.String("entry_id", entryID))
		return nil, err
	}

	entry.Status = domain.Posted
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID
	s.LogInfo(ctx, "Draft posted", slog.String("entry_id", entryID))
	return entry, nil
}

// VoidEntry flips an entry to Void. Voiding creates no new rows; the entry
// simply stops feeding balances, past and future.
func (s *journalService) VoidEntry(ctx context.Context, businessID string, entryID string, userID string) error {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry.BusinessID != businessID {
		return apperrors.ErrNotFound // Obscure existence
	}
	if entry.Status == domain.Void {
		return fmt.Errorf("%w: entry %s", apperrors.ErrAlreadyVoid, entryID)
	}

	// The repository re-checks status and the locked-reconciliation guard
	// inside the same transaction that flips the status.
	if err := s.journalRepo.VoidEntry(ctx, entryID, userID, time.Now().UTC()); err != nil {
		s.LogError(ctx, err, "Failed to void entry", slog.String("entry_id", entryID))
		return err
	}

	s.LogInfo(ctx, "Entry voided", slog.String("entry_id", entryID))
	return nil
}

// GetEntryByID retrieves an entry with its lines.
func (s *journalService) GetEntryByID(ctx context.Context, businessID string, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.BusinessID != businessID {
		return nil, apperrors.ErrNotFound // Obscure existence
	}

	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch lines for entry", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to retrieve lines for entry %s: %w", entryID, apperrors.ErrInternal)
	}
	entry.Lines = lines
	return entry, nil
}

// ListEntries retrieves a paginated list of entries for the business.
func (s *journalService) ListEntries(ctx context.Context, businessID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.journalRepo.ListEntries(ctx, businessID, limit, params.NextToken, params.IncludeVoid)
	if err != nil {
		s.LogError(ctx, err, "Failed to list entries", slog.String("business_id", businessID))
		return nil, fmt.Errorf("failed to retrieve entries: %w", err)
	}

	var linesMap map[string][]domain.JournalEntryLine
	if params.IncludeLines && len(entries) > 0 {
		entryIDs := make([]string, len(entries))
		for i, entry := range entries {
			entryIDs[i] = entry.EntryID
		}
		linesMap, err = s.journalRepo.FindLinesByEntryIDs(ctx, entryIDs)
		if err != nil {
			// Continue without lines rather than failing the whole request.
			s.LogWarn(ctx, "Failed to fetch lines for entries", slog.String("error", err.Error()))
		}
	}

	responses := make([]dto.EntryResponse, len(entries))
	for i, entry := range entries {
		if linesMap != nil {
			entry.Lines = linesMap[entry.EntryID]
		}
		responses[i] = dto.ToEntryResponse(&entry)
	}

	return &dto.ListEntriesResponse{
		Entries:   responses,
		NextToken: nextToken,
	}, nil
}
