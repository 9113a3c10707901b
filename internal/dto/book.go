package dto

import (
	"time"

	"github.com/crmsuite/crm_ledger_backend/internal/core/domain"
)

// CreateBookRequest defines data for creating a new book.
type CreateBookRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// BookResponse defines data returned for a book.
type BookResponse struct {
	BookID        string    `json:"bookID"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID
}

// ToBookResponse converts domain.Book to DTO.
func ToBookResponse(b *domain.Book) BookResponse {
	return BookResponse{
		BookID:        b.BookID,
		Name:          b.Name,
		Description:   b.Description,
		IsActive:      b.IsActive,
		CreatedAt:     b.CreatedAt,
		CreatedBy:     b.CreatedBy,
		LastUpdatedAt: b.LastUpdatedAt,
		LastUpdatedBy: b.LastUpdatedBy,
	}
}

// ListBooksParams defines query parameters for listing books.
type ListBooksParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListBooksResponse wraps a list of books.
type ListBooksResponse struct {
	Books []BookResponse `json:"books"`
}

// ToListBooksResponse converts a slice of domain.Book to DTO.
func ToListBooksResponse(bs []domain.Book) ListBooksResponse {
	list := make([]BookResponse, len(bs))
	for i, b := range bs {
		list[i] = ToBookResponse(&b)
	}
	return ListBooksResponse{Books: list}
}
