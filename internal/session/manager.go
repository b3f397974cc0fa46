package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/neillmakeup/studio-api/internal/models"
)

const keyPrefix = "studio:session:"

var ErrInvalidToken = errors.New("invalid session token")

// Claims is what a valid token resolves to.
type Claims struct {
	UserID    uint
	Role      string
	SessionID string
	ExpiresAt time.Time
}

// Manager issues signed tokens whose jti must still exist in the store,
// so logout revokes them before expiry.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(store Store, secret string, ttl time.Duration) *Manager {
	return &Manager{store: store, secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

func (m *Manager) Issue(ctx context.Context, user *models.User) (string, *Claims, error) {
	sid := uuid.NewString()
	now := m.now()
	exp := now.Add(m.ttl)

	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(user.ID), 10),
		"role": user.Role,
		"jti":  sid,
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	if err := m.store.Set(ctx, keyPrefix+sid, claims["sub"].(string), m.ttl); err != nil {
		return "", nil, fmt.Errorf("store session: %w", err)
	}

	return token, &Claims{UserID: user.ID, Role: user.Role, SessionID: sid, ExpiresAt: exp}, nil
}

func (m *Manager) Resolve(ctx context.Context, raw string) (*Claims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	sub, _ := mc["sub"].(string)
	sid, _ := mc["jti"].(string)
	role, _ := mc["role"].(string)
	uid, err := strconv.ParseUint(sub, 10, 64)
	if err != nil || sid == "" {
		return nil, ErrInvalidToken
	}

	stored, err := m.store.Get(ctx, keyPrefix+sid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if stored != sub {
		return nil, ErrInvalidToken
	}

	claims := &Claims{UserID: uint(uid), Role: role, SessionID: sid}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	return claims, nil
}

func (m *Manager) Revoke(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return m.store.Del(ctx, keyPrefix+sessionID)
}
