package dto

import (
	"github.com/crmsuite/crm_ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerLineResponse represents one posting in an account ledger with its running balance.
type LedgerLineResponse struct {
	EntryID     string          `json:"entryID"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// LedgerResponse represents the derived ledger of a single account.
type LedgerResponse struct {
	Account AccountResponse      `json:"account"`
	Ledger  []LedgerLineResponse `json:"ledger"`
}

// ToLedgerResponse converts an account and its computed ledger lines to a DTO response.
func ToLedgerResponse(account *domain.Account, lines []domain.LedgerLine) LedgerResponse {
	response := LedgerResponse{
		Account: ToAccountResponse(account),
		Ledger:  make([]LedgerLineResponse, len(lines)),
	}
	for i, line := range lines {
		response.Ledger[i] = LedgerLineResponse{
			EntryID:     line.EntryID,
			Date:        line.EntryDate.Format("2006-01-02"),
			Description: line.Description,
			Debit:       line.Debit,
			Credit:      line.Credit,
			Balance:     line.Balance,
		}
	}
	return response
}
