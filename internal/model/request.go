package model

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateBookRequest struct {
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Description *string `json:"description"`
	Pages       int     `json:"pages"`
}

// UpdateBookRequest is a partial update; nil fields are left unchanged.
type UpdateBookRequest struct {
	Title       *string `json:"title"`
	Author      *string `json:"author"`
	Description *string `json:"description"`
	Pages       *int    `json:"pages"`
}
