package domain

// Book is the unit of tenancy for the ledger. Every account and journal entry
// belongs to exactly one book, and all derivations are scoped to a book.
type Book struct {
	BookID      string `json:"bookID"`      // Primary Key (UUID)
	Name        string `json:"name"`        // User-defined name for the book
	Description string `json:"description"` // Optional description
	IsActive    bool   `json:"isActive"`    // Deactivated books reject all mutations
	AuditFields        // Embed common audit fields
}
