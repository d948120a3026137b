package model

// MessageResponse is the body of every failure and of acknowledgement-only successes.
type MessageResponse struct {
	Message string `json:"message"`
}
