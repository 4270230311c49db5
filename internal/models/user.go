package models

// UserFromAuth is the identity resolved from a bearer token. The panel does
// not own user records; everything it stores is keyed by this id.
type UserFromAuth struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	ChatID   int64  `json:"chat_id,omitempty"`
}
