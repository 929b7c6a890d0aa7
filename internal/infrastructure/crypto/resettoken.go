package crypto

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/exam-manager/exam-system/internal/core/domain"
)

const resetPurpose = "password_reset"

// ResetTokenIssuer implements ports.ResetTokenIssuer with HS256 JWTs.
// The purpose claim keeps reset tokens from being replayed as anything
// else signed with the same secret.
type ResetTokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewResetTokenIssuer(secret string, ttl time.Duration) *ResetTokenIssuer {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ResetTokenIssuer{secret: []byte(secret), ttl: ttl}
}

func (r *ResetTokenIssuer) Issue(userID, email string) (string, error) {
	claims := jwt.MapClaims{
		"sub":     userID,
		"email":   email,
		"purpose": resetPurpose,
		"exp":     time.Now().Add(r.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.secret)
}

func (r *ResetTokenIssuer) Verify(token string) (string, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return r.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", domain.ErrInvalidResetToken
	}
	if claims["purpose"] != resetPurpose {
		return "", domain.ErrInvalidResetToken
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return "", domain.ErrInvalidResetToken
	}
	return email, nil
}
