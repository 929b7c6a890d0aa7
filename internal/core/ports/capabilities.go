package ports

import (
	"context"
	"time"

	"github.com/exam-manager/exam-system/internal/core/domain"
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify performs a constant-time comparison of plaintext against hash.
	Verify(hash, plaintext string) bool
}

// TokenIssuer manages revocable opaque bearer credentials.
type TokenIssuer interface {
	// Issue creates a token for the user and returns its plaintext form.
	Issue(ctx context.Context, userID, name string) (string, error)
	// Lookup resolves a plaintext token to its stored record.
	Lookup(ctx context.Context, plaintext string) (*domain.AccessToken, error)
	// Revoke deletes the token. Revoking an unknown token is not an error.
	Revoke(ctx context.Context, plaintext string) error
}

// OTPStore holds outstanding one-time passwords. Issuing a new code does
// not invalidate prior codes; each lives out its own TTL.
type OTPStore interface {
	// Issue stores a fresh code for the user and returns it.
	Issue(ctx context.Context, userID string) (string, error)
	// Find resolves an outstanding code to its owner without consuming it.
	Find(ctx context.Context, code string) (string, error)
	// Consume atomically burns the code and returns its owner. A second
	// Consume of the same code fails with domain.ErrInvalidOTP.
	Consume(ctx context.Context, code string) (string, error)
}

// Mail is an outbound message.
type Mail struct {
	To      string
	Subject string
	Body    string
}

// Notifier delivers mail. Implementations may be asynchronous; callers
// treat Send as fire-and-forget.
type Notifier interface {
	Send(ctx context.Context, mail Mail) error
}

// LinkSigner produces and checks signed email-verification URLs of the
// form /email/verify/{id}/{hash}?expires=...&signature=....
type LinkSigner interface {
	Sign(userID, email string, ttl time.Duration) string
	Verify(userID, hash string, expires int64, signature string) error
	// EmailHash returns the hash embedded in the link path for the email.
	EmailHash(email string) string
}

// ResetTokenIssuer manages short-lived password-reset tokens.
type ResetTokenIssuer interface {
	Issue(userID, email string) (string, error)
	// Verify returns the email the token was issued for.
	Verify(token string) (string, error)
}

// Document is a validated uploaded file ready for storage.
type Document struct {
	// Ext is the file extension derived from the sniffed MIME type,
	// including the leading dot.
	Ext     string
	Content []byte
}

// FileStore persists uploaded documents under logical buckets and
// addresses them by relative path.
type FileStore interface {
	Store(ctx context.Context, bucket string, doc Document) (string, error)
	Delete(ctx context.Context, path string) error
}

// Throttle is a fixed-window rate limiter keyed by caller-chosen strings.
type Throttle interface {
	// Allow reports whether another event is permitted for key.
	Allow(ctx context.Context, key string) (bool, error)
}
