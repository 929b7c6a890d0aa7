package domain

import "time"

// AccessToken is a revocable bearer credential. Only the SHA-256
// fingerprint of the opaque token string is persisted; the plaintext is
// returned to the client exactly once at issuance.
type AccessToken struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Fingerprint string    `json:"-"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
}
