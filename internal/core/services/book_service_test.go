package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/crmsuite/crm_ledger_backend/internal/apperrors"
	"github.com/crmsuite/crm_ledger_backend/internal/core/domain"
	portsrepo "github.com/crmsuite/crm_ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/crmsuite/crm_ledger_backend/internal/core/ports/services"
	"github.com/crmsuite/crm_ledger_backend/internal/core/services"
)

// --- Mock BookRepository ---
type MockBookRepository struct {
	mock.Mock
}

var _ portsrepo.BookRepositoryFacade = (*MockBookRepository)(nil)

func (m *MockBookRepository) FindBookByID(ctx context.Context, bookID string) (*domain.Book, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}

func (m *MockBookRepository) ListBooks(ctx context.Context, limit int, offset int) ([]domain.Book, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Book), args.Error(1)
}

func (m *MockBookRepository) SaveBook(ctx context.Context, book domain.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *MockBookRepository) UpdateBook(ctx context.Context, book domain.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *MockBookRepository) SetBookActive(ctx context.Context, bookID string, isActive bool, updatedBy string, now time.Time) error {
	args := m.Called(ctx, bookID, isActive, updatedBy, now)
	return args.Error(0)
}

// --- Suite ---

type BookServiceTestSuite struct {
	suite.Suite
	mockBookRepo *MockBookRepository
	service      portssvc.BookSvcFacade
	userID       string
}

func (suite *BookServiceTestSuite) SetupTest() {
	suite.mockBookRepo = new(MockBookRepository)
	suite.service = services.NewBookService(suite.mockBookRepo)
	suite.userID = uuid.NewString()
}

func (suite *BookServiceTestSuite) TestCreateBook_Success() {
	ctx := context.Background()

	suite.mockBookRepo.On("SaveBook", ctx, mock.AnythingOfType("domain.Book")).Return(nil).Once()

	book, err := suite.service.CreateBook(ctx, "Main Ledger", "Primary set of books", suite.userID)

	suite.Require().NoError(err)
	suite.NotEmpty(book.BookID)
	suite.Equal("Main Ledger", book.Name)
	suite.True(book.IsActive)
	suite.Equal(suite.userID, book.CreatedBy)
}

func (suite *BookServiceTestSuite) TestCreateBook_MissingName() {
	ctx := context.Background()

	_, err := suite.service.CreateBook(ctx, "", "no name", suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockBookRepo.AssertNotCalled(suite.T(), "SaveBook", mock.Anything, mock.Anything)
}

func (suite *BookServiceTestSuite) TestEnsureActiveBook_Inactive() {
	ctx := context.Background()
	book := &domain.Book{BookID: uuid.NewString(), Name: "Closed", IsActive: false}

	suite.mockBookRepo.On("FindBookByID", ctx, book.BookID).Return(book, nil).Once()

	err := suite.service.EnsureActiveBook(ctx, book.BookID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *BookServiceTestSuite) TestEnsureActiveBook_Active() {
	ctx := context.Background()
	book := &domain.Book{BookID: uuid.NewString(), Name: "Open", IsActive: true}

	suite.mockBookRepo.On("FindBookByID", ctx, book.BookID).Return(book, nil).Once()

	suite.NoError(suite.service.EnsureActiveBook(ctx, book.BookID))
}

func (suite *BookServiceTestSuite) TestEnsureActiveBook_NotFound() {
	ctx := context.Background()
	bookID := uuid.NewString()

	suite.mockBookRepo.On("FindBookByID", ctx, bookID).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.EnsureActiveBook(ctx, bookID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *BookServiceTestSuite) TestDeactivateBook_Success() {
	ctx := context.Background()
	bookID := uuid.NewString()

	suite.mockBookRepo.On("SetBookActive", ctx, bookID, false, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	suite.NoError(suite.service.DeactivateBook(ctx, bookID, suite.userID))
	suite.mockBookRepo.AssertExpectations(suite.T())
}

func TestBookService(t *testing.T) {
	suite.Run(t, new(BookServiceTestSuite))
}
