package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"go-bookshelf/internal/model"
)

type BookRepository struct {
	pool pgxPool
}

func NewBookRepository(pool pgxPool) *BookRepository {
	return &BookRepository{pool: pool}
}

func (r *BookRepository) List(ctx context.Context) ([]model.Book, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, author, description, pages, created_by, created_at
		 FROM books ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := make([]model.Book, 0)
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Description, &b.Pages, &b.CreatedBy, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (r *BookRepository) FindByID(ctx context.Context, id string) (model.Book, error) {
	if _, err := uuid.Parse(id); err != nil {
		return model.Book{}, model.ErrBookNotFound
	}

	var b model.Book
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, author, description, pages, created_by, created_at
		 FROM books WHERE id = $1`, id).
		Scan(&b.ID, &b.Title, &b.Author, &b.Description, &b.Pages, &b.CreatedBy, &b.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Book{}, model.ErrBookNotFound
	}
	if err != nil {
		return model.Book{}, fmt.Errorf("find book by id: %w", err)
	}
	return b, nil
}

func (r *BookRepository) Create(ctx context.Context, b model.Book) (model.Book, error) {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO books (id, title, author, description, pages, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		b.ID, b.Title, b.Author, b.Description, b.Pages, b.CreatedBy, b.CreatedAt)
	if err != nil {
		return model.Book{}, fmt.Errorf("create book: %w", err)
	}
	return b, nil
}

func (r *BookRepository) Update(ctx context.Context, b model.Book) (model.Book, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE books SET title = $2, author = $3, description = $4, pages = $5 WHERE id = $1`,
		b.ID, b.Title, b.Author, b.Description, b.Pages)
	if err != nil {
		return model.Book{}, fmt.Errorf("update book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.Book{}, model.ErrBookNotFound
	}
	return b, nil
}

func (r *BookRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return model.ErrBookNotFound
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}
