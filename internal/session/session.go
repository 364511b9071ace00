// Package session owns the authenticated identity: the bearer token
// and the cached profile, in memory and in the persisted store. No
// other component reads or writes the persisted credential; the API
// client is handed the token through SetToken and collaborators
// inherit it from there.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"noteapp-client/internal/api"
	"noteapp-client/internal/domain"
	"noteapp-client/pkg/token"

	"github.com/go-playground/validator/v10"
)

const (
	tokenKey   = "auth_token"
	profileKey = "user_profile"
)

// Store is the persisted slice of the session; localStorage in the
// original web client, a small file on disk here.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// API is the slice of the HTTP client the session needs.
type API interface {
	Register(ctx context.Context, req *domain.RegisterRequest) error
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthPayload, error)
	Logout(ctx context.Context) error
	SetToken(token string)
}

type Manager struct {
	api      API
	store    Store
	validate *validator.Validate

	mu   sync.Mutex
	tok  string
	user *domain.User
}

func NewManager(apiClient API, store Store) *Manager {
	return &Manager{
		api:      apiClient,
		store:    store,
		validate: validator.New(),
	}
}

func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tok
}

// User returns the cached profile, nil when logged out or when the
// persisted session predates profile caching.
func (m *Manager) User() *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

func (m *Manager) Authenticated() bool {
	return m.Token() != ""
}

// Initialize restores a persisted session. It never talks to the
// network and never navigates; what to do with a restored session is
// the caller's decision. A stored JWT whose expiry has passed is
// cleared instead of restored.
func (m *Manager) Initialize() (*domain.User, error) {
	tok, err := m.store.Get(tokenKey)
	if err != nil {
		return nil, err
	}
	if tok == "" {
		return nil, nil
	}
	if token.Expired(tok, time.Now()) {
		m.clear()
		return nil, nil
	}

	var user *domain.User
	if raw, err := m.store.Get(profileKey); err == nil && raw != "" {
		var u domain.User
		if json.Unmarshal([]byte(raw), &u) == nil {
			user = &u
		}
	}

	m.mu.Lock()
	m.tok = tok
	m.user = user
	m.mu.Unlock()
	m.api.SetToken(tok)
	return user, nil
}

// Login authenticates, persists the credential and profile, and arms
// the API client. Validation failures never reach the network.
func (m *Manager) Login(ctx context.Context, req *domain.LoginRequest) (*domain.User, error) {
	if err := m.validate.Struct(req); err != nil {
		return nil, &api.Error{Kind: api.ErrorValidationFailed, Message: "email and password are required"}
	}

	payload, err := m.api.Login(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := m.store.Set(tokenKey, payload.Token); err != nil {
		return nil, err
	}
	if payload.User != nil {
		if raw, err := json.Marshal(payload.User); err == nil {
			if err := m.store.Set(profileKey, string(raw)); err != nil {
				return nil, err
			}
		}
	}

	m.mu.Lock()
	m.tok = payload.Token
	m.user = payload.User
	m.mu.Unlock()
	m.api.SetToken(payload.Token)
	return payload.User, nil
}

// Register creates the account but deliberately does not establish a
// session; callers log in separately afterwards.
func (m *Manager) Register(ctx context.Context, req *domain.RegisterRequest) error {
	if err := m.validate.Struct(req); err != nil {
		return &api.Error{Kind: api.ErrorValidationFailed, Message: registrationMessage(err)}
	}
	return m.api.Register(ctx, req)
}

// Logout calls the API best-effort and unconditionally clears local
// state. A failed network call is logged, never surfaced: the local
// session must die regardless.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.api.Logout(ctx); err != nil {
		log.Printf("logout request failed, clearing local session anyway: %v", err)
	}
	m.clear()
}

func (m *Manager) clear() {
	if err := m.store.Delete(tokenKey); err != nil {
		log.Printf("failed to remove stored token: %v", err)
	}
	if err := m.store.Delete(profileKey); err != nil {
		log.Printf("failed to remove stored profile: %v", err)
	}

	m.mu.Lock()
	m.tok = ""
	m.user = nil
	m.mu.Unlock()
	m.api.SetToken("")
}

// registrationMessage maps the local pre-submit checks onto the same
// wording the web client showed.
func registrationMessage(err error) string {
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return "registration details are incomplete"
	}
	for _, f := range fields {
		switch {
		case f.Field() == "Password" && f.Tag() == "min":
			return "password must be at least 8 characters"
		case f.Field() == "PasswordConfirmation" && f.Tag() == "eqfield":
			return "password confirmation does not match"
		}
	}
	return "registration details are incomplete"
}
