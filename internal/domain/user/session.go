package user

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/example/storefront/internal/latency"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already exists")
	ErrRequestInFlight    = errors.New("request already in flight")
	ErrNotAuthenticated   = errors.New("not authenticated")
)

// Messages shown to the shopper through State.LastError
const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgEmailExists        = "Email already exists"
	MsgRegisterFailed     = "Registration failed. Please try again."
)

const dateJoinedLayout = "2006-01-02"

// Session holds one shopper's authentication state. Login and Register are
// request-guarded: while one is pending, further calls are rejected.
type Session struct {
	mu    sync.Mutex
	state State

	credentials *CredentialTable
	blobs       store.BlobStore
	latency     time.Duration
	now         func() time.Time
	logger      *zap.Logger
}

// Option configures a Session
type Option func(*Session)

// WithLatency sets the simulated delay applied to login and registration
func WithLatency(d time.Duration) Option {
	return func(s *Session) { s.latency = d }
}

// WithLogger sets the session logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger.Named("session")
		}
	}
}

// WithClock overrides time.Now, used for DateJoined
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// NewSession creates a logged-out session backed by credentials and blobs
func NewSession(credentials *CredentialTable, blobs store.BlobStore, opts ...Option) *Session {
	s := &Session{
		credentials: credentials,
		blobs:       blobs,
		now:         time.Now,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a copy of the current session state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	if st.Identity != nil {
		id := st.Identity.clone()
		st.Identity = &id
	}
	return st
}

// Identity returns the signed-in identity, if any
func (s *Session) Identity() (Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Authenticated || s.state.Identity == nil {
		return Identity{}, false
	}
	return s.state.Identity.clone(), true
}

// Login authenticates against the credential table after the simulated delay.
// Cancelling ctx abandons the attempt and leaves the session as it was.
func (s *Session) Login(ctx context.Context, email, password string) (Identity, error) {
	if !s.beginRequest() {
		return Identity{}, ErrRequestInFlight
	}

	if err := latency.Wait(ctx, s.latency); err != nil {
		s.abandonRequest()
		return Identity{}, err
	}

	identity, ok := s.credentials.Match(email, password)
	if !ok {
		s.mu.Lock()
		s.state = State{LastError: MsgInvalidCredentials}
		s.mu.Unlock()
		s.logger.Info("login rejected", zap.String("email", email))
		return Identity{}, ErrInvalidCredentials
	}

	s.persist(ctx, identity)
	s.authenticate(identity)
	s.logger.Info("logged in", zap.String("user_id", identity.ID))
	return identity.clone(), nil
}

// Register creates an account, signs it in and persists the identity
func (s *Session) Register(ctx context.Context, input RegisterInput) (Identity, error) {
	if !s.beginRequest() {
		return Identity{}, ErrRequestInFlight
	}

	if err := latency.Wait(ctx, s.latency); err != nil {
		s.abandonRequest()
		return Identity{}, err
	}

	input.Email = strings.TrimSpace(input.Email)
	if s.credentials.Exists(input.Email) {
		s.fail(MsgEmailExists)
		return Identity{}, ErrEmailExists
	}

	id, err := uuid.NewV7()
	if err != nil {
		s.fail(MsgRegisterFailed)
		return Identity{}, err
	}

	identity := Identity{
		ID:          id.String(),
		Email:       input.Email,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Phone:       input.Phone,
		DateJoined:  s.now().Format(dateJoinedLayout),
		Preferences: DefaultPreferences(),
	}

	if err := s.credentials.Add(identity, input.Password); err != nil {
		if errors.Is(err, ErrEmailExists) {
			s.fail(MsgEmailExists)
		} else {
			s.fail(MsgRegisterFailed)
		}
		return Identity{}, err
	}

	s.persist(ctx, identity)
	s.authenticate(identity)
	s.logger.Info("registered", zap.String("user_id", identity.ID))
	return identity.clone(), nil
}

// Logout clears the session and deletes the persisted identity
func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	s.state = State{Pending: s.state.Pending}
	s.mu.Unlock()

	if err := s.blobs.Delete(ctx, store.KeyIdentity); err != nil {
		s.logger.Warn("failed to delete persisted identity", zap.Error(err))
	}
}

// UpdateProfile merges update into the signed-in identity and re-persists it
func (s *Session) UpdateProfile(ctx context.Context, update ProfileUpdate) (Identity, error) {
	s.mu.Lock()
	if !s.state.Authenticated || s.state.Identity == nil {
		s.mu.Unlock()
		return Identity{}, ErrNotAuthenticated
	}
	updated := update.apply(s.state.Identity.clone())
	s.state.Identity = &updated
	s.mu.Unlock()

	s.persist(ctx, updated)
	return updated.clone(), nil
}

// Restore signs the session in from the persisted identity. A malformed blob
// is discarded and the session stays logged out.
func (s *Session) Restore(ctx context.Context) bool {
	data, ok, err := s.blobs.Get(ctx, store.KeyIdentity)
	if err != nil {
		s.logger.Warn("failed to read persisted identity", zap.Error(err))
		return false
	}
	if !ok {
		return false
	}

	var identity Identity
	if err := json.Unmarshal(data, &identity); err != nil || identity.ID == "" {
		s.logger.Warn("discarding malformed persisted identity", zap.Error(err))
		if err := s.blobs.Delete(ctx, store.KeyIdentity); err != nil {
			s.logger.Warn("failed to delete persisted identity", zap.Error(err))
		}
		return false
	}

	s.authenticate(identity)
	return true
}

// ClearError drops the last error message
func (s *Session) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.LastError = ""
}

func (s *Session) beginRequest() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Pending {
		return false
	}
	s.state.Pending = true
	s.state.LastError = ""
	return true
}

func (s *Session) abandonRequest() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Pending = false
}

func (s *Session) fail(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Pending = false
	s.state.LastError = msg
}

func (s *Session) authenticate(identity Identity) {
	id := identity.clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{Identity: &id, Authenticated: true}
}

// persist writes the identity blob. Failures are logged; the in-memory
// session remains usable.
func (s *Session) persist(ctx context.Context, identity Identity) {
	data, err := json.Marshal(identity)
	if err != nil {
		s.logger.Warn("failed to encode identity", zap.Error(err))
		return
	}
	if err := s.blobs.Put(ctx, store.KeyIdentity, data); err != nil {
		s.logger.Warn("failed to persist identity", zap.Error(err))
	}
}
