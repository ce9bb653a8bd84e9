package dto

import (
	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
)

// TrialBalanceResponse wraps the trial balance report for serialization.
type TrialBalanceResponse struct {
	Report *domain.TrialBalanceReport `json:"report"`
}

// PAndLResponse wraps the profit and loss report for serialization.
type PAndLResponse struct {
	Report *domain.PAndLReport `json:"report"`
}

// BalanceSheetResponse wraps the balance sheet report for serialization.
type BalanceSheetResponse struct {
	Report *domain.BalanceSheetReport `json:"report"`
}

// CashFlowResponse wraps the cash flow report for serialization.
type CashFlowResponse struct {
	Report *domain.CashFlowReport `json:"report"`
}
