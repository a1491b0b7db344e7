// Package session keeps the authenticated user between blogctl runs: the
// bearer token issued at login and the cached profile of that user.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/blogctl/pkg/types"
)

// Keys in the local key-value table.
const (
	KeyToken      = "token"
	KeyUser       = "user-store"
	KeyLoggedInAt = "logged-in-at"
)

// ErrCorrupt is returned when a persisted profile cannot be decoded.
var ErrCorrupt = errors.New("session data is corrupt")

// State is the persisted session as seen by commands.
type State struct {
	Token      string            `json:"-"`
	User       types.UserProfile `json:"user"`
	LoggedInAt time.Time         `json:"loggedInAt,omitempty"`
}

// Authenticated reports whether a token is present.
func (s State) Authenticated() bool {
	return s.Token != ""
}

// Store reads and writes the session through a types.Store. It is created
// once by the CLI bootstrap and handed to commands explicitly.
type Store struct {
	kv  types.Store
	now func() time.Time
}

// Open attaches backend to dataDir and wraps it.
func Open(backend types.Store, dataDir string) (*Store, error) {
	if err := backend.Attach(dataDir); err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}
	return &Store{kv: backend, now: time.Now}, nil
}

// Close detaches the underlying store.
func (s *Store) Close() error {
	return s.kv.Detach()
}

// Backend returns the underlying store, for upload history access.
func (s *Store) Backend() types.Store {
	return s.kv
}

// Load returns the current state. A missing session is the zero State,
// not an error.
func (s *Store) Load() (State, error) {
	var st State

	token, err := s.get(KeyToken)
	if err != nil {
		return State{}, err
	}
	st.Token = token

	raw, err := s.get(KeyUser)
	if err != nil {
		return State{}, err
	}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &st.User); err != nil {
			return State{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
	}

	at, err := s.get(KeyLoggedInAt)
	if err != nil {
		return State{}, err
	}
	if at != "" {
		st.LoggedInAt, _ = time.Parse(time.RFC3339, at)
	}
	return st, nil
}

// Login stores token and replaces the cached profile with user.
func (s *Store) Login(token string, user types.UserProfile) error {
	if token == "" {
		return types.ErrInvalidData
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	return s.kv.SetMany(map[string]string{
		KeyToken:      token,
		KeyUser:       string(data),
		KeyLoggedInAt: s.now().UTC().Format(time.RFC3339),
	})
}

// SetUser merges the non-empty fields of partial into the cached profile.
func (s *Store) SetUser(partial types.UserProfile) (types.UserProfile, error) {
	return s.EditUser(func(u *types.UserProfile) { *u = u.Merge(partial) })
}

// EditUser applies edit to the cached profile and stores the result. Unlike
// SetUser it can clear a field.
func (s *Store) EditUser(edit func(*types.UserProfile)) (types.UserProfile, error) {
	st, err := s.Load()
	if err != nil {
		return types.UserProfile{}, err
	}
	u := st.User
	edit(&u)
	data, err := json.Marshal(u)
	if err != nil {
		return types.UserProfile{}, fmt.Errorf("encoding profile: %w", err)
	}
	if err := s.kv.Set(KeyUser, string(data)); err != nil {
		return types.UserProfile{}, err
	}
	return u, nil
}

// Clear removes the token and the profile together.
func (s *Store) Clear() error {
	return s.kv.DeleteMany(KeyToken, KeyUser, KeyLoggedInAt)
}

// Token returns the stored token, or "" when logged out or unreadable.
// Its signature matches blogapi.TokenSource.
func (s *Store) Token() string {
	token, _ := s.get(KeyToken)
	return token
}

func (s *Store) get(key string) (string, error) {
	v, err := s.kv.Get(key)
	if errors.Is(err, types.ErrNotFound) {
		return "", nil
	}
	return v, err
}
