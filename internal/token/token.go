package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"uk.co.dudmesh.noticeboard/internal/model"
)

// SessionClaims is the payload of a signed session token. The claims are
// self-contained: the guard never re-reads the store, so a changed or
// deleted user stays valid until the token expires.
type SessionClaims struct {
	jwt.RegisteredClaims
	UserID   model.UserID `json:"userId"`
	Username string       `json:"username"`
	Email    string       `json:"email"`
	Role     model.Role   `json:"role"`
}

type Issuer struct {
	signingKey []byte
	ttl        time.Duration
}

func NewIssuer(signingKey string, ttl time.Duration) *Issuer {
	return &Issuer{
		signingKey: []byte(signingKey),
		ttl:        ttl,
	}
}

func (i *Issuer) Issue(user *model.User) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.signingKey)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return signed, nil
}

func (i *Issuer) Verify(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, model.ErrorInvalidSession
	}
	return claims, nil
}

const opaqueTokenSize = 32

// Opaque generates an unguessable single-purpose token for email
// verification and password reset. It carries no payload and is matched by
// equality against the stored token field.
func Opaque() (string, error) {
	b := make([]byte, opaqueTokenSize)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
