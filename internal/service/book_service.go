package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-bookshelf/internal/event"
	"go-bookshelf/internal/model"
	"go-bookshelf/pkg/apierror"
)

type bookStore interface {
	List(ctx context.Context) ([]model.Book, error)
	FindByID(ctx context.Context, id string) (model.Book, error)
	Create(ctx context.Context, b model.Book) (model.Book, error)
	Update(ctx context.Context, b model.Book) (model.Book, error)
	Delete(ctx context.Context, id string) error
}

type BookService struct {
	books  bookStore
	events event.Publisher
}

type BookOption func(*BookService)

// WithBookEvents publishes a book.* event for every successful mutation.
func WithBookEvents(p event.Publisher) BookOption {
	return func(s *BookService) {
		s.events = p
	}
}

func NewBookService(books bookStore, opts ...BookOption) *BookService {
	s := &BookService{books: books}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *BookService) List(ctx context.Context) ([]model.Book, error) {
	return s.books.List(ctx)
}

func (s *BookService) Get(ctx context.Context, id string) (model.Book, error) {
	return s.books.FindByID(ctx, strings.TrimSpace(id))
}

// Create stores a new book owned by actorID, the subject of the caller's access token.
func (s *BookService) Create(ctx context.Context, req model.CreateBookRequest, actorID string) (model.Book, error) {
	book := model.Book{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(req.Title),
		Author:      strings.TrimSpace(req.Author),
		Description: req.Description,
		Pages:       req.Pages,
		CreatedBy:   actorID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := validateBook(book); err != nil {
		return model.Book{}, err
	}

	created, err := s.books.Create(ctx, book)
	if err != nil {
		return model.Book{}, err
	}

	publish(s.events, event.TypeBookCreated, actorID, map[string]string{"book_id": created.ID})
	return created, nil
}

// Update applies the non-nil fields of req to the stored book. Ownership is
// not enforced: any authenticated actor may edit any book.
func (s *BookService) Update(ctx context.Context, id string, req model.UpdateBookRequest, actorID string) (model.Book, error) {
	book, err := s.books.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return model.Book{}, err
	}

	if req.Title != nil {
		book.Title = strings.TrimSpace(*req.Title)
	}
	if req.Author != nil {
		book.Author = strings.TrimSpace(*req.Author)
	}
	if req.Description != nil {
		book.Description = req.Description
	}
	if req.Pages != nil {
		book.Pages = *req.Pages
	}

	if err := validateBook(book); err != nil {
		return model.Book{}, err
	}

	updated, err := s.books.Update(ctx, book)
	if err != nil {
		return model.Book{}, err
	}

	publish(s.events, event.TypeBookUpdated, actorID, map[string]string{"book_id": updated.ID})
	return updated, nil
}

func (s *BookService) Delete(ctx context.Context, id string, actorID string) error {
	id = strings.TrimSpace(id)
	if err := s.books.Delete(ctx, id); err != nil {
		return err
	}

	publish(s.events, event.TypeBookDeleted, actorID, map[string]string{"book_id": id})
	return nil
}

func validateBook(book model.Book) error {
	if book.Title == "" {
		return apierror.New(CodeBadRequest, "title is required", "title", http.StatusBadRequest)
	}
	if book.Author == "" {
		return apierror.New(CodeBadRequest, "author is required", "author", http.StatusBadRequest)
	}
	if book.Pages < 1 {
		return apierror.New(CodeBadRequest, "pages must be at least 1", "pages", http.StatusBadRequest)
	}
	return nil
}
