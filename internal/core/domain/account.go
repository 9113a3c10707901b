package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// ValidAccountType reports whether t is one of the five known account types.
func ValidAccountType(t AccountType) bool {
	switch t {
	case Asset, Liability, Equity, Income, Expense:
		return true
	}
	return false
}

// IsDebitNormal reports whether the account type increases on the debit side.
// Asset and Expense accounts are debit-normal; Liability, Equity and Income
// accounts are credit-normal.
func (t AccountType) IsDebitNormal() bool {
	return t == Asset || t == Expense
}

// Account represents a ledger account within a book.
// This is the primary representation used by services.
type Account struct {
	AccountID       string      `json:"accountID"`       // Primary Key (UUID)
	BookID          string      `json:"bookID"`          // FK -> books.book_id (NON-NULL)
	Code            string      `json:"code"`            // Short code, unique within the book
	Name            string      `json:"name"`            // User-defined name
	AccountType     AccountType `json:"accountType"`     // ASSET, LIABILITY, etc.
	Category        string      `json:"category"`        // Optional free-form grouping
	ParentAccountID string      `json:"parentAccountID"` // Nullable FK -> accounts.account_id (self-referencing)
	Description     string      `json:"description"`     // Optional user description
	IsActive        bool        `json:"isActive"`        // Inactive accounts reject new lines
	AuditFields                 // Embed CreatedAt, CreatedBy, etc.
}
