package dto

import (
	"time"

	"github.com/crmsuite/crm_ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateJournalLineRequest defines one debit/credit line of a new journal entry.
// Exactly one of Debit or Credit should be positive; lines where both are zero are dropped.
type CreateJournalLineRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// CreateJournalEntryRequest defines the data needed to create a new journal entry.
type CreateJournalEntryRequest struct {
	EntryDate     time.Time                  `json:"entryDate" binding:"required"`
	Description   string                     `json:"description" binding:"required"`
	AttachmentRef string                     `json:"attachmentRef"` // Optional opaque document reference
	Lines         []CreateJournalLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// UpdateJournalEntryRequest defines the data allowed for updating a draft entry.
// Nil fields are left unchanged; a non-nil Lines slice replaces all lines.
type UpdateJournalEntryRequest struct {
	EntryDate     *time.Time                 `json:"entryDate"`
	Description   *string                    `json:"description"`
	AttachmentRef *string                    `json:"attachmentRef"`
	Lines         []CreateJournalLineRequest `json:"lines" binding:"omitempty,min=2,dive"`
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineID    string          `json:"lineID"`
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID          string                `json:"entryID"`
	BookID           string                `json:"bookID"`
	EntryDate        time.Time             `json:"entryDate"`
	Description      string                `json:"description"`
	Status           domain.EntryStatus    `json:"status"`
	AttachmentRef    string                `json:"attachmentRef,omitempty"`
	OriginalEntryID  *string               `json:"originalEntryID,omitempty"`
	ReversingEntryID *string               `json:"reversingEntryID,omitempty"`
	Lines            []JournalLineResponse `json:"lines"`
	CreatedAt        time.Time             `json:"createdAt"`
	CreatedBy        string                `json:"createdBy"`
	LastUpdatedAt    time.Time             `json:"lastUpdatedAt"`
	LastUpdatedBy    string                `json:"lastUpdatedBy"`
}

// ToJournalLineResponse converts a domain.JournalLine to JournalLineResponse DTO.
func ToJournalLineResponse(line *domain.JournalLine) JournalLineResponse {
	return JournalLineResponse{
		LineID:    line.LineID,
		AccountID: line.AccountID,
		Debit:     line.Debit,
		Credit:    line.Credit,
	}
}

// ToJournalEntryResponse converts a domain.JournalEntry (with lines) to JournalEntryResponse DTO.
func ToJournalEntryResponse(entry *domain.JournalEntry) JournalEntryResponse {
	lines := make([]JournalLineResponse, len(entry.Lines))
	for i, line := range entry.Lines {
		lines[i] = ToJournalLineResponse(&line)
	}
	return JournalEntryResponse{
		EntryID:          entry.EntryID,
		BookID:           entry.BookID,
		EntryDate:        entry.EntryDate,
		Description:      entry.Description,
		Status:           entry.Status,
		AttachmentRef:    entry.AttachmentRef,
		OriginalEntryID:  entry.OriginalEntryID,
		ReversingEntryID: entry.ReversingEntryID,
		Lines:            lines,
		CreatedAt:        entry.CreatedAt,
		CreatedBy:        entry.CreatedBy,
		LastUpdatedAt:    entry.LastUpdatedAt,
		LastUpdatedBy:    entry.LastUpdatedBy,
	}
}

// ListJournalEntriesParams defines query parameters for listing journal entries.
type ListJournalEntriesParams struct {
	Limit     int     `form:"limit,default=20"`
	Status    *string `form:"status" binding:"omitempty,oneof=DRAFT SUBMITTED APPROVED REJECTED"`
	NextToken *string `form:"nextToken"`
}

// ListJournalEntriesResponse wraps a page of journal entries with the token for the next page.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToListJournalEntriesResponse converts a page of domain entries into the list response.
func ToListJournalEntriesResponse(entries []domain.JournalEntry, nextToken *string) ListJournalEntriesResponse {
	items := make([]JournalEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, ToJournalEntryResponse(&entries[i]))
	}
	return ListJournalEntriesResponse{Entries: items, NextToken: nextToken}
}
