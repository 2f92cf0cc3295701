package service

import (
	"context"
	"sync"
)

// SessionState is where the session is in its lifecycle.
type SessionState int

const (
	SessionUnknown SessionState = iota
	SessionAuthenticated
	SessionUnauthenticated
)

func (s SessionState) String() string {
	switch s {
	case SessionAuthenticated:
		return "authenticated"
	case SessionUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// authProvider is the subset of AuthClient the session relies on.
type authProvider interface {
	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error
	OnAuthStateChanged(fn func(*Identity)) func()
}

// Session holds the current identity of one app instance. Its state only
// changes when the provider pushes an event.
type Session struct {
	provider authProvider
	detach   func()

	mu        sync.Mutex
	state     SessionState
	identity  *Identity
	nextID    int
	listeners map[int]func(SessionState, *Identity)
}

func NewSession(provider authProvider) *Session {
	s := &Session{
		provider:  provider,
		listeners: make(map[int]func(SessionState, *Identity)),
	}
	s.detach = provider.OnAuthStateChanged(s.apply)
	return s
}

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current returns the signed-in identity, if any.
func (s *Session) Current() (Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return Identity{}, false
	}
	return *s.identity, true
}

// Login asks the provider to sign in. On failure the state is unchanged.
func (s *Session) Login(ctx context.Context, email, password string) error {
	return s.provider.SignIn(ctx, email, password)
}

// Register creates an account and signs it in.
func (s *Session) Register(ctx context.Context, email, password string) error {
	return s.provider.SignUp(ctx, email, password)
}

func (s *Session) Logout(ctx context.Context) error {
	return s.provider.SignOut(ctx)
}

// OnChange registers fn for every state transition.
func (s *Session) OnChange(fn func(SessionState, *Identity)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Close detaches the session from the provider.
func (s *Session) Close() {
	if s.detach != nil {
		s.detach()
	}
}

func (s *Session) apply(identity *Identity) {
	s.mu.Lock()
	if identity != nil {
		id := *identity
		s.identity = &id
		s.state = SessionAuthenticated
	} else {
		s.identity = nil
		s.state = SessionUnauthenticated
	}
	state, current := s.state, s.identity
	fns := make([]func(SessionState, *Identity), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(state, current)
	}
}
