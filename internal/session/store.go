// Package session keeps the identity of whoever is using the booking form.
//
// A Store persists at most one User under one storage key. The Manager hands
// each HTTP client its own Store (key "session/<sid>") and a signed token
// naming that sid.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"

	"hamsafar/internal/config"
	"hamsafar/internal/domain"
	"hamsafar/internal/domain/entities"
	"hamsafar/internal/storage"
	"hamsafar/pkg/utils"
)

// Store persists the current user under a single key.
type Store struct {
	store  storage.Store
	key    string
	auth   config.AuthConfig
	logger *zap.Logger
}

func NewStore(store storage.Store, key string, auth config.AuthConfig, logger *zap.Logger) *Store {
	return &Store{
		store:  store,
		key:    key,
		auth:   auth,
		logger: logger,
	}
}

// Login creates and persists a user. Every call mints a new user id, so a
// returning customer does not see bookings made under an earlier login.
//
// The admin rule is a fixed placeholder credential: the configured phone
// number and the configured name compared case-insensitively.
func (s *Store) Login(ctx context.Context, name, phone string) (*entities.User, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)

	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if phone == "" {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return nil, domain.MissingFieldsError{Fields: missing}
	}

	role := entities.RoleCustomer
	if s.IsAdminCredential(name, phone) {
		role = entities.RoleAdmin
	}
	user := entities.NewUser(utils.GenerateID(), name, phone, role)

	data, err := json.Marshal(user)
	if err != nil {
		return nil, domain.PersistenceError{Op: "encode", Key: s.key, Err: err}
	}
	if err := s.store.Save(ctx, s.key, data); err != nil {
		return nil, domain.PersistenceError{Op: "save", Key: s.key, Err: err}
	}
	return user, nil
}

func (s *Store) IsAdminCredential(name, phone string) bool {
	return phone == s.auth.AdminPhone && strings.EqualFold(name, s.auth.AdminName)
}

// Restore returns the persisted user, or nil when there is none. A record
// that does not decode into a usable user is logged and treated as absent.
func (s *Store) Restore(ctx context.Context) (*entities.User, error) {
	data, err := s.store.Load(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.PersistenceError{Op: "load", Key: s.key, Err: err}
	}

	var user entities.User
	if err := json.Unmarshal(data, &user); err != nil || user.ID == "" {
		s.logger.Warn("discarding malformed session record",
			zap.String("key", s.key),
			zap.Error(err),
		)
		return nil, nil
	}
	if user.Role != entities.RoleAdmin {
		user.Role = entities.RoleCustomer
	}
	return &user, nil
}

func (s *Store) Logout(ctx context.Context) error {
	if err := s.store.Remove(ctx, s.key); err != nil {
		return domain.PersistenceError{Op: "remove", Key: s.key, Err: err}
	}
	return nil
}
