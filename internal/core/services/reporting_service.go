package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/smallbooks/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/smallbooks/bookkeeping_app/internal/core/ports/services"
)

// reportingService implements the statement generator on top of the balance
// aggregator's queries.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepositoryFacade
	classifier    portssvc.ActivityClassifier
}

// ReportingServiceOption is a functional option for configuring the reporting service.
type ReportingServiceOption func(*reportingService)

// WithActivityClassifier overrides the default cash-flow activity classifier.
func WithActivityClassifier(classifier portssvc.ActivityClassifier) ReportingServiceOption {
	return func(s *reportingService) {
		s.classifier = classifier
	}
}

// NewReportingService creates a new reporting service with the provided options.
func NewReportingService(repo portsrepo.ReportingRepositoryFacade, options ...ReportingServiceOption) portssvc.ReportingSvcFacade {
	svc := &reportingService{
		reportingRepo: repo,
		classifier:    NewKeywordClassifier(),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// TrialBalance lists every active account's balance as of a date, partitioned
// into debit and credit columns by the sign of its net activity. The two
// column totals match whenever every posted entry balances.
func (s *reportingService) TrialBalance(ctx context.Context, businessID string, asOf time.Time) (*domain.TrialBalanceReport, error) {
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	rawRows, err := s.reportingRepo.GetTrialBalanceData(ctx, businessID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve trial balance data", slog.String("business_id", businessID))
		return nil, fmt.Errorf("failed to retrieve trial balance data: %w", err)
	}

	report := &domain.TrialBalanceReport{
		AsOf:        asOf,
		Rows:        make([]domain.TrialBalanceRow, 0, len(rawRows)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}

	for _, raw := range rawRows {
		// Raw rows carry total debit and credit sums; collapse to the net side.
		net := raw.Debit.Sub(raw.Credit)
		row := domain.TrialBalanceRow{
			AccountID:   raw.AccountID,
			AccountCode: raw.AccountCode,
			AccountName: raw.AccountName,
			Category:    raw.Category,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
		}
		switch {
		case net.IsPositive():
			row.Debit = net
			report.TotalDebit = report.TotalDebit.Add(net)
		case net.IsNegative():
			row.Credit = net.Neg()
			report.TotalCredit = report.TotalCredit.Add(net.Neg())
		default:
			// Zero-balance accounts still appear, with both columns zero.
		}
		report.Rows = append(report.Rows, row)
	}

	s.LogInfo(ctx, "Trial balance generated",
		slog.String("business_id", businessID),
		slog.Int("rows", len(report.Rows)))
	return report, nil
}

// ProfitAndLoss reports revenue minus expenses over [from, to].
func (s *reportingService) ProfitAndLoss(ctx context.Context, businessID string, from, to time.Time) (*domain.PAndLReport, error) {
	if to.IsZero() {
		to = time.Now().UTC()
	}

	revenue, expenses, err := s.reportingRepo.GetProfitAndLossData(ctx, businessID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve profit and loss data", slog.String("business_id", businessID))
		return nil, fmt.Errorf("failed to retrieve profit and loss data: %w", err)
	}

	totalIncome := decimal.Zero
	for _, r := range revenue {
		totalIncome = totalIncome.Add(r.NetAmount)
	}
	totalExpenses := decimal.Zero
	for _, e := range expenses {
		totalExpenses = totalExpenses.Add(e.NetAmount)
	}

	report := &domain.PAndLReport{
		From:          from,
		To:            to,
		Revenue:       revenue,
		Expenses:      expenses,
		TotalIncome:   totalIncome,
		TotalExpenses: totalExpenses,
		Net:           totalIncome.Sub(totalExpenses),
	}

	s.LogInfo(ctx, "Profit and loss generated",
		slog.String("business_id", businessID),
		slog.Int("revenue_accounts", len(revenue)),
		slog.Int("expense_accounts", len(expenses)))
	return report, nil
}

// BalanceSheet reports assets, liabilities and equity as of asOf. The period's
// net P&L from periodStart through asOf is folded into equity as retained
// earnings so that assets always equal liabilities plus equity.
func (s *reportingService) BalanceSheet(ctx context.Context, businessID string, asOf time.Time, periodStart time.Time) (*domain.BalanceSheetReport, error) {
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}
	if periodStart.IsZero() {
		// Default to the fiscal-year start: January 1 of asOf's year.
		periodStart = time.Date(asOf.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	}

	assets, liabilities, equity, err := s.reportingRepo.GetBalanceSheetData(ctx, businessID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve balance sheet data", slog.String("business_id", businessID))
		return nil, fmt.Errorf("failed to retrieve balance sheet data: %w", err)
	}

	pnl, err := s.ProfitAndLoss(ctx, businessID, periodStart, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to compute retained earnings: %w", err)
	}

	totalAssets := decimal.Zero
	for _, a := range assets {
		totalAssets = totalAssets.Add(a.NetAmount)
	}
	totalLiabilities := decimal.Zero
	for _, l := range liabilities {
		totalLiabilities = totalLiabilities.Add(l.NetAmount)
	}
	totalEquity := decimal.Zero
	for _, e := range equity {
		totalEquity = totalEquity.Add(e.NetAmount)
	}

	report := &domain.BalanceSheetReport{
		AsOf:             asOf,
		Assets:           assets,
		Liabilities:      liabilities,
		Equity:           equity,
		RetainedEarnings: pnl.Net,
		TotalAssets:      totalAssets,
		TotalLiabilities: totalLiabilities,
		TotalEquity:      totalEquity.Add(pnl.Net),
	}

	s.LogInfo(ctx, "Balance sheet generated",
		slog.String("business_id", businessID),
		slog.Int("asset_accounts", len(assets)),
		slog.Int("liability_accounts", len(liabilities)),
		slog.Int("equity_accounts", len(equity)))
	return report, nil
}

// CashFlow classifies each posted entry touching the designated cash account
// into Operating / Investing / Financing buckets and sums signed cash
// movement per bucket.
func (s *reportingService) CashFlow(ctx context.Context, businessID string, cashAccountID string, from, to time.Time) (*domain.CashFlowReport, error) {
	if to.IsZero() {
		to = time.Now().UTC()
	}

	movements, err := s.reportingRepo.GetCashMovements(ctx, businessID, cashAccountID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve cash movements", slog.String("cash_account_id", cashAccountID))
		return nil, fmt.Errorf("failed to retrieve cash movements: %w", err)
	}

	report := &domain.CashFlowReport{
		From:      from,
		To:        to,
		Operating: decimal.Zero,
		Investing: decimal.Zero,
		Financing: decimal.Zero,
		Net:       decimal.Zero,
		Movements: make([]domain.CashMovement, 0, len(movements)),
	}

	for _, m := range movements {
		m.Activity = s.classifier.Classify(m.Description)
		switch m.Activity {
		case domain.Investing:
			report.Investing = report.Investing.Add(m.Amount)
		case domain.Financing:
			report.Financing = report.Financing.Add(m.Amount)
		default:
			report.Operating = report.Operating.Add(m.Amount)
		}
		report.Net = report.Net.Add(m.Amount)
		report.Movements = append(report.Movements, m)
	}

	s.LogInfo(ctx, "Cash flow generated",
		slog.String("business_id", businessID),
		slog.Int("movements", len(movements)))
	return report, nil
}
