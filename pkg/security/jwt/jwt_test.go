package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placeshare/places/pkg/auth"
)

func TestGenerateAndVerify(t *testing.T) {
	gen := NewGenerator("test-secret", "places-backend", time.Hour)
	user := auth.User{ID: uuid.New(), Email: "ann@example.com"}

	token, err := gen.Generate(context.Background(), user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := gen.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.UserID)
	assert.Equal(t, user.Email, identity.Email)
}

func TestVerifyExpired(t *testing.T) {
	gen := NewGenerator("test-secret", "places-backend", -time.Minute)
	user := auth.User{ID: uuid.New(), Email: "ann@example.com"}

	token, err := gen.Generate(context.Background(), user)
	require.NoError(t, err)

	_, err = gen.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTampered(t *testing.T) {
	gen := NewGenerator("test-secret", "places-backend", time.Hour)
	token, err := gen.Generate(context.Background(), auth.User{ID: uuid.New(), Email: "a@b.c"})
	require.NoError(t, err)

	_, err = gen.Verify(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	gen := NewGenerator("test-secret", "places-backend", time.Hour)
	other := NewGenerator("another-secret", "places-backend", time.Hour)

	token, err := gen.Generate(context.Background(), auth.User{ID: uuid.New(), Email: "a@b.c"})
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyWrongIssuer(t *testing.T) {
	gen := NewGenerator("test-secret", "someone-else", time.Hour)
	verifier := NewGenerator("test-secret", "places-backend", time.Hour)

	token, err := gen.Generate(context.Background(), auth.User{ID: uuid.New(), Email: "a@b.c"})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyGarbage(t *testing.T) {
	gen := NewGenerator("test-secret", "places-backend", time.Hour)
	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := gen.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tok)
	}
}
