package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/placeshare/places/pkg/auth"
)

// ErrInvalidToken covers every verification failure: bad signature, wrong
// algorithm, expiry, malformed input. Callers get one uniform error so the
// reason is never leaked to clients.
var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is the verified caller extracted from a token.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

type Generator struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewGenerator(secret, issuer string, ttl time.Duration) *Generator {
	return &Generator{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// Claims carries the standard fields plus the account email.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

func (g *Generator) Generate(ctx context.Context, user auth.User) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    g.issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
		},
		Email: user.Email,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(g.secret)
}

// Verify validates signature, algorithm, expiry and issuer, returning the
// encoded identity. Any failure is ErrInvalidToken.
func (g *Generator) Verify(tokenStr string) (Identity, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return g.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	if g.issuer != "" && claims.Issuer != g.issuer {
		return Identity{}, ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: userID, Email: claims.Email}, nil
}
