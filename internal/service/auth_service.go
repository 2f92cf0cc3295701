package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"study-planner/internal/model"
	"study-planner/internal/repository"
)

const (
	minPasswordLen = 6
	// bcrypt only hashes the first 72 bytes and rejects anything longer.
	maxPasswordLen = 72
)

// Identity is the signed-in user as seen by the rest of the app.
type Identity struct {
	ID    string
	Email string
}

// AuthService checks credentials and remembers which account each device is
// signed in with.
type AuthService struct {
	accounts *repository.AccountRepository
	cost     int
}

func NewAuthService(accounts *repository.AccountRepository) *AuthService {
	return &AuthService{accounts: accounts, cost: bcrypt.DefaultCost}
}

// Client returns a per-device handle. Nothing is loaded until Restore.
func (s *AuthService) Client(deviceID string) *AuthClient {
	return &AuthClient{
		svc:       s,
		deviceID:  deviceID,
		listeners: make(map[int]func(*Identity)),
	}
}

// SignedInDevices lists devices that currently have a signed-in account.
func (s *AuthService) SignedInDevices(ctx context.Context) ([]model.DeviceLogin, error) {
	logins, err := s.accounts.ListDevices(ctx)
	if err != nil {
		return nil, storeErr("list devices", err)
	}
	return logins, nil
}

// Account loads the account behind an identity.
func (s *AuthService) Account(ctx context.Context, id string) (*model.Account, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("load account", err)
	}
	return account, nil
}

func (s *AuthService) register(ctx context.Context, email, password string) (*model.Account, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < minPasswordLen {
		return nil, ErrWeakPassword
	}
	if len(password) > maxPasswordLen {
		return nil, ErrLongPassword
	}

	if _, err := s.accounts.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	account := model.Account{Email: email, PasswordHash: string(hash)}
	if err := s.accounts.Create(ctx, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *AuthService) verify(ctx context.Context, email, password string) (*model.Account, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	account, err := s.accounts.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return account, nil
}

func normalizeEmail(raw string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return "", ErrInvalidEmail
	}
	return value, nil
}

// AuthClient is the auth handle of one app instance. It pushes the current
// identity (nil when signed out) to listeners after every state change.
type AuthClient struct {
	svc      *AuthService
	deviceID string

	mu        sync.Mutex
	current   *Identity
	nextID    int
	listeners map[int]func(*Identity)
}

// Restore loads the device binding and emits the resulting state.
func (c *AuthClient) Restore(ctx context.Context) error {
	login, err := c.svc.accounts.FindDevice(ctx, c.deviceID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.emit(nil)
		return nil
	case err != nil:
		c.emit(nil)
		return storeErr("restore session", err)
	}

	account, err := c.svc.accounts.FindByID(ctx, login.AccountID)
	if err != nil {
		c.emit(nil)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return storeErr("restore session", err)
	}
	c.emit(&Identity{ID: account.ID, Email: account.Email})
	return nil
}

func (c *AuthClient) SignIn(ctx context.Context, email, password string) error {
	account, err := c.svc.verify(ctx, email, password)
	if err != nil {
		return authErr("sign in", err)
	}
	return c.bind(ctx, account)
}

func (c *AuthClient) SignUp(ctx context.Context, email, password string) error {
	account, err := c.svc.register(ctx, email, password)
	if err != nil {
		return authErr("sign up", err)
	}
	return c.bind(ctx, account)
}

// SignOut removes the device binding. It fails when nobody is signed in.
func (c *AuthClient) SignOut(ctx context.Context) error {
	c.mu.Lock()
	signedIn := c.current != nil
	c.mu.Unlock()
	if !signedIn {
		return authErr("sign out", ErrNotSignedIn)
	}
	if err := c.svc.accounts.UnbindDevice(ctx, c.deviceID); err != nil {
		return storeErr("sign out", err)
	}
	c.emit(nil)
	return nil
}

// OnAuthStateChanged registers fn for state pushes. The returned func removes it.
func (c *AuthClient) OnAuthStateChanged(fn func(*Identity)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *AuthClient) bind(ctx context.Context, account *model.Account) error {
	if err := c.svc.accounts.BindDevice(ctx, c.deviceID, account.ID); err != nil {
		return storeErr("sign in", err)
	}
	log.Printf("[info] device=%s signed in account=%s", c.deviceID, account.ID)
	c.emit(&Identity{ID: account.ID, Email: account.Email})
	return nil
}

func (c *AuthClient) emit(identity *Identity) {
	c.mu.Lock()
	c.current = identity
	fns := make([]func(*Identity), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(identity)
	}
}

// authErr keeps store failures as StoreError and everything else as AuthError.
func authErr(op string, err error) error {
	if errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrEmailTaken) ||
		errors.Is(err, ErrInvalidEmail) || errors.Is(err, ErrWeakPassword) ||
		errors.Is(err, ErrLongPassword) || errors.Is(err, ErrNotSignedIn) {
		return &AuthError{Op: op, Err: err}
	}
	return storeErr(op, err)
}
