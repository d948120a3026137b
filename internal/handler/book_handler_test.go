package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-bookshelf/internal/model"
	"go-bookshelf/internal/session"
)

func TestBookMutationsRequireAuth(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		method string
		path   string
	}{
		{method: http.MethodPost, path: "/books"},
		{method: http.MethodPut, path: "/books/123"},
		{method: http.MethodDelete, path: "/books/123"},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			rec := ts.do(t, tt.method, tt.path, model.CreateBookRequest{Title: "T", Author: "A", Pages: 1})
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Unauthorized", decodeMessage(t, rec))
		})
	}
}

func TestBookLifecycle(t *testing.T) {
	ts := newTestServer(t)
	access := findCookie(ts.login(t, "a@b.com", "pw12345"), session.AccessCookieName)

	rec := ts.do(t, http.MethodGet, "/auth/user", nil, access)
	require.Equal(t, http.StatusOK, rec.Code)
	var user model.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))

	rec = ts.do(t, http.MethodGet, "/books", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = ts.do(t, http.MethodPost, "/books", model.CreateBookRequest{Title: "Dune", Author: "Frank Herbert", Pages: 412}, access)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created model.Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, user.ID, created.CreatedBy)
	assert.Equal(t, "Dune", created.Title)

	rec = ts.do(t, http.MethodGet, "/books/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	pages := 500
	rec = ts.do(t, http.MethodPut, "/books/"+created.ID, model.UpdateBookRequest{Pages: &pages}, access)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated model.Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, 500, updated.Pages)
	assert.Equal(t, "Dune", updated.Title)
	assert.Equal(t, user.ID, updated.CreatedBy)

	rec = ts.do(t, http.MethodGet, "/books", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []model.Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	rec = ts.do(t, http.MethodDelete, "/books/"+created.ID, nil, access)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/books/"+created.ID, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Book Not Found", decodeMessage(t, rec))
}

func TestBookValidation(t *testing.T) {
	ts := newTestServer(t)
	access := findCookie(ts.login(t, "a@b.com", "pw12345"), session.AccessCookieName)

	tests := []struct {
		name    string
		body    any
		message string
	}{
		{name: "missing title", body: model.CreateBookRequest{Author: "A", Pages: 1}, message: "title is required"},
		{name: "missing author", body: model.CreateBookRequest{Title: "T", Pages: 1}, message: "author is required"},
		{name: "zero pages", body: model.CreateBookRequest{Title: "T", Author: "A"}, message: "pages must be at least 1"},
		{name: "malformed", body: `[`, message: "Invalid Request Body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, "/books", tt.body, access)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.message, decodeMessage(t, rec))
		})
	}
}

func TestUpdateUnknownBook(t *testing.T) {
	ts := newTestServer(t)
	access := findCookie(ts.login(t, "a@b.com", "pw12345"), session.AccessCookieName)

	title := "New"
	rec := ts.do(t, http.MethodPut, "/books/does-not-exist", model.UpdateBookRequest{Title: &title}, access)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Book Not Found", decodeMessage(t, rec))
}
