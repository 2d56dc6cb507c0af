package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"hamsafar/internal/config"
	"hamsafar/internal/domain/entities"
	"hamsafar/internal/storage"
	"hamsafar/pkg/utils"
)

// ErrInvalidSession covers every token that does not lead to a live session:
// bad signature, expired, malformed, or logged out.
var ErrInvalidSession = errors.New("invalid or expired session")

const keyPrefix = "session/"

// Manager issues HS256 tokens whose subject is a session id.
type Manager struct {
	store  storage.Store
	auth   config.AuthConfig
	secret []byte
	logger *zap.Logger
	now    func() time.Time
}

func NewManager(store storage.Store, auth config.AuthConfig, logger *zap.Logger) *Manager {
	return &Manager{
		store:  store,
		auth:   auth,
		secret: []byte(auth.JWTSecret),
		logger: logger,
		now:    time.Now,
	}
}

func (m *Manager) session(sid string) *Store {
	return NewStore(m.store, keyPrefix+sid, m.auth, m.logger)
}

// Login opens a new session and returns its token with the logged-in user.
func (m *Manager) Login(ctx context.Context, name, phone string) (string, *entities.User, error) {
	sid := utils.GenerateID()
	user, err := m.session(sid).Login(ctx, name, phone)
	if err != nil {
		return "", nil, err
	}

	now := m.now()
	claims := jwt.RegisteredClaims{
		Subject:   sid,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.auth.SessionTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}
	return token, user, nil
}

// Authenticate restores the user behind a token. Storage failures are
// returned as they are; everything else is ErrInvalidSession.
func (m *Manager) Authenticate(ctx context.Context, token string) (*entities.User, error) {
	sid, err := m.parse(token)
	if err != nil {
		return nil, err
	}
	user, err := m.session(sid).Restore(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidSession
	}
	return user, nil
}

// Logout clears the session behind token. Logging out twice is harmless.
func (m *Manager) Logout(ctx context.Context, token string) error {
	sid, err := m.parse(token)
	if err != nil {
		return err
	}
	return m.session(sid).Logout(ctx)
}

func (m *Manager) parse(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalidSession
	}
	return claims.Subject, nil
}
