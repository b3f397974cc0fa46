package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neillmakeup/studio-api/internal/models"
)

func TestIssueResolveRevoke(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore(), "secret", time.Hour)
	admin := &models.User{ID: 3, Role: models.RoleAdmin}

	token, issued, err := m.Issue(ctx, admin)
	require.NoError(t, err)
	require.NotEmpty(t, issued.SessionID)

	got, err := m.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, uint(3), got.UserID)
	assert.Equal(t, models.RoleAdmin, got.Role)
	assert.Equal(t, issued.SessionID, got.SessionID)

	require.NoError(t, m.Revoke(ctx, got.SessionID))
	_, err = m.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResolveRejectsForeignSignature(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore(), "secret", time.Hour)
	other := NewManager(NewMemoryStore(), "other", time.Hour)

	token, _, err := other.Issue(ctx, &models.User{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)

	_, err = m.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResolveRejectsUnknownSession(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore(), "secret", time.Hour)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1", "role": "admin", "jti": "nope", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = m.Resolve(ctx, forged)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMemoryStoreExpires(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "k", "v", time.Minute))
	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	now = now.Add(2 * time.Minute)
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}
