package store

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"serviceflow/internal/crypto"
	"serviceflow/internal/domain"
)

const accountsFile = "accounts.json"

type accountRecord struct {
	Account      domain.Account `json:"account"`
	Phone        string         `json:"phone"`
	Address      string         `json:"address"`
	Lat          *float64       `json:"lat,omitempty"`
	Lng          *float64       `json:"lng,omitempty"`
	PasswordHash []byte         `json:"password_hash"`
}

// AccountFileStore keeps registered accounts keyed by lower-cased email.
type AccountFileStore struct {
	dir  string
	cost int
	now  func() time.Time

	mu       sync.Mutex
	loaded   bool
	accounts map[string]accountRecord
}

// AccountStoreOption customises an AccountFileStore.
type AccountStoreOption func(*AccountFileStore)

// WithBcryptCost overrides the password hashing cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) AccountStoreOption {
	return func(s *AccountFileStore) { s.cost = cost }
}

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) AccountStoreOption {
	return func(s *AccountFileStore) { s.now = now }
}

// NewAccountFileStore returns a store persisted under dir. An empty dir keeps
// accounts in memory only.
func NewAccountFileStore(dir string, opts ...AccountStoreOption) *AccountFileStore {
	s := &AccountFileStore{
		dir:      dir,
		now:      time.Now,
		accounts: make(map[string]accountRecord),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateAccount registers req and returns the new account. A second registration
// for the same email, in any letter case, fails with domain.ErrAccountExists.
func (s *AccountFileStore) CreateAccount(
	ctx context.Context,
	req domain.AccountRequest,
) (domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return domain.Account{}, err
	}

	hash, err := crypto.HashPassword(req.Password, s.cost)
	if err != nil {
		return domain.Account{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return domain.Account{}, err
	}
	key := emailKey(req.Email)
	if _, exists := s.accounts[key]; exists {
		return domain.Account{}, domain.ErrAccountExists
	}

	account := domain.Account{
		ID:          uuid.NewString(),
		CompanyName: strings.TrimSpace(req.CompanyName),
		Email:       strings.TrimSpace(req.Email),
		CreatedAt:   s.now().UTC(),
	}
	s.accounts[key] = accountRecord{
		Account:      account,
		Phone:        req.PhoneNumber,
		Address:      req.Address,
		Lat:          req.Lat,
		Lng:          req.Lng,
		PasswordHash: hash,
	}
	if err := s.saveLocked(); err != nil {
		delete(s.accounts, key)
		return domain.Account{}, err
	}
	return account, nil
}

// LookupAccount retrieves the account registered for email.
func (s *AccountFileStore) LookupAccount(
	ctx context.Context,
	email string,
) (domain.Account, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Account{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return domain.Account{}, false, err
	}
	rec, ok := s.accounts[emailKey(email)]
	return rec.Account, ok, nil
}

func (s *AccountFileStore) loadLocked() error {
	if s.loaded || s.dir == "" {
		s.loaded = true
		return nil
	}
	if err := readJSON(filepath.Join(s.dir, accountsFile), &s.accounts); err != nil {
		return err
	}
	if s.accounts == nil {
		s.accounts = make(map[string]accountRecord)
	}
	s.loaded = true
	return nil
}

func (s *AccountFileStore) saveLocked() error {
	if s.dir == "" {
		return nil
	}
	return writeJSON(filepath.Join(s.dir, accountsFile), s.accounts, 0o600)
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Compile-time assertion that AccountFileStore implements domain.AccountStore.
var _ domain.AccountStore = (*AccountFileStore)(nil)
