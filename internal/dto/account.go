package dto

import (
	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
)

// CreateAccountRequest defines the payload for creating a chart-of-accounts node.
type CreateAccountRequest struct {
	Code            string                 `json:"code" binding:"required,max=20"`
	Name            string                 `json:"name" binding:"required,max=255"`
	Category        domain.AccountCategory `json:"category" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	ParentAccountID *string                `json:"parentAccountID,omitempty"`
	Description     string                 `json:"description,omitempty" binding:"max=1000"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       string                 `json:"accountID"`
	Code            string                 `json:"code"`
	Name            string                 `json:"name"`
	Category        domain.AccountCategory `json:"category"`
	ParentAccountID string                 `json:"parentAccountID,omitempty"`
	Description     string                 `json:"description,omitempty"`
	IsActive        bool                   `json:"isActive"`
}

// ToAccountResponse converts a domain.Account to AccountResponse.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       a.AccountID,
		Code:            a.Code,
		Name:            a.Name,
		Category:        a.Category,
		ParentAccountID: a.ParentAccountID,
		Description:     a.Description,
		IsActive:        a.IsActive,
	}
}

// ToAccountResponses converts a slice of domain accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}

// ListAccountsParams holds parameters for listing accounts.
type ListAccountsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListAccountsResponse is the paginated account list payload.
type ListAccountsResponse struct {
	Accounts  []AccountResponse `json:"accounts"`
	NextToken *string           `json:"nextToken,omitempty"`
}
