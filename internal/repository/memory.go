package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"go-bookshelf/internal/model"
)

// The Memory* repositories back the "memory" store driver used for local
// development and tests. Data is lost on restart.

type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]model.User
	byEmail map[string]string
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    map[string]model.User{},
		byEmail: map[string]string{},
	}
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return r.byID[id], nil
}

func (r *MemoryUserRepository) Create(_ context.Context, u model.User) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[u.Email]; exists {
		return model.User{}, model.ErrDuplicateEmail
	}
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
	return u, nil
}

// Delete is not part of the service surface; tests use it to simulate removed accounts.
func (r *MemoryUserRepository) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.byID[id]; ok {
		delete(r.byEmail, u.Email)
		delete(r.byID, id)
	}
}

type MemoryTokenRepository struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewMemoryTokenRepository() *MemoryTokenRepository {
	return &MemoryTokenRepository{revoked: map[string]time.Time{}}
}

func (r *MemoryTokenRepository) Revoke(_ context.Context, tokenID string, _ string, expiresAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.revoked[tokenID]; exists {
		return false, nil
	}
	r.revoked[tokenID] = expiresAt
	return true, nil
}

func (r *MemoryTokenRepository) CleanExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	var removed int64
	for id, expiresAt := range r.revoked {
		if !expiresAt.After(now) {
			delete(r.revoked, id)
			removed++
		}
	}
	return removed, nil
}

type MemoryBookRepository struct {
	mu    sync.RWMutex
	books map[string]model.Book
}

func NewMemoryBookRepository() *MemoryBookRepository {
	return &MemoryBookRepository{books: map[string]model.Book{}}
}

func (r *MemoryBookRepository) List(_ context.Context) ([]model.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	books := make([]model.Book, 0, len(r.books))
	for _, b := range r.books {
		books = append(books, b)
	}
	sort.SliceStable(books, func(i int, j int) bool {
		if books[i].CreatedAt.Equal(books[j].CreatedAt) {
			return books[i].ID < books[j].ID
		}
		return books[i].CreatedAt.Before(books[j].CreatedAt)
	})
	return books, nil
}

func (r *MemoryBookRepository) FindByID(_ context.Context, id string) (model.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.books[id]
	if !ok {
		return model.Book{}, model.ErrBookNotFound
	}
	return b, nil
}

func (r *MemoryBookRepository) Create(_ context.Context, b model.Book) (model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.books[b.ID] = b
	return b, nil
}

func (r *MemoryBookRepository) Update(_ context.Context, b model.Book) (model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.books[b.ID]
	if !ok {
		return model.Book{}, model.ErrBookNotFound
	}
	b.CreatedBy = existing.CreatedBy
	b.CreatedAt = existing.CreatedAt
	r.books[b.ID] = b
	return b, nil
}

func (r *MemoryBookRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.books[id]; !ok {
		return model.ErrBookNotFound
	}
	delete(r.books, id)
	return nil
}
