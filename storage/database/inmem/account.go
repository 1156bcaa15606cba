package inmemdb

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/shulehq/shule/core/account"
)

type accountRepository struct {
	mu   sync.RWMutex
	rows map[string]*account.Account
}

var _ account.Repository = (*accountRepository)(nil)

func NewAccountRepository() account.Repository {
	return &accountRepository{rows: make(map[string]*account.Account)}
}

func (repo *accountRepository) query() []account.Account {
	out := make([]account.Account, 0, len(repo.rows))
	for _, acct := range repo.rows {
		out = append(out, *acct)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (repo *accountRepository) CheckUniqueness(_ context.Context, username, email string, excluded ...account.Account) error {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	excludedIDs := make(map[string]bool, len(excluded))
	for _, acct := range excluded {
		excludedIDs[acct.ID] = true
	}

	for _, acct := range repo.rows {
		if excludedIDs[acct.ID] {
			continue
		}
		if acct.Username == username {
			return account.ErrUsernameExists
		}
		if acct.Email == email {
			return account.ErrEmailExists
		}
	}
	return nil
}

func (repo *accountRepository) CreateAccount(_ context.Context, acct account.Account) (account.Account, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, existing := range repo.rows {
		if existing.Username == acct.Username {
			return account.Account{}, account.ErrUsernameExists
		}
		if existing.Email == acct.Email {
			return account.Account{}, account.ErrEmailExists
		}
	}

	acct.ID = uuid.New().String()
	repo.rows[acct.ID] = &acct
	return acct, nil
}

func (repo *accountRepository) QueryAllAccounts(_ context.Context) ([]account.Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	return repo.query(), nil
}

func (repo *accountRepository) GetAccountByID(_ context.Context, id string) (account.Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	if acct, ok := repo.rows[id]; ok {
		return *acct, nil
	}
	return account.Account{}, account.ErrNotFound
}

func (repo *accountRepository) GetAccountByUsername(_ context.Context, username string) (account.Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, acct := range repo.rows {
		if acct.Username == username {
			return *acct, nil
		}
	}
	return account.Account{}, account.ErrNotFound
}

func (repo *accountRepository) GetAccountByUsernameOrEmail(_ context.Context, username string) (account.Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, acct := range repo.rows {
		if acct.Username == username || acct.Email == username {
			return *acct, nil
		}
	}
	return account.Account{}, account.ErrNotFound
}

func (repo *accountRepository) UpdateAccount(_ context.Context, acct account.Account) (account.Account, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	orig, ok := repo.rows[acct.ID]
	if !ok {
		return account.Account{}, account.ErrNotFound
	}
	orig.Username = acct.Username
	orig.Email = acct.Email
	orig.Role = acct.Role
	orig.UpdatedAt = acct.UpdatedAt
	return *orig, nil
}

func (repo *accountRepository) SetAccountPasswordHash(_ context.Context, id, hash string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	acct, ok := repo.rows[id]
	if !ok {
		return account.ErrNotFound
	}
	acct.PasswordHash = hash
	acct.UpdatedAt = time.Now().UTC()
	return nil
}

func (repo *accountRepository) SetAccountLastLogin(_ context.Context, id string, t time.Time) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	acct, ok := repo.rows[id]
	if !ok {
		return account.ErrNotFound
	}
	acct.LastLogin = null.TimeFrom(t.UTC())
	return nil
}

func (repo *accountRepository) DeleteAccountsByID(_ context.Context, ids ...string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	var deleted int
	for _, id := range ids {
		if _, ok := repo.rows[id]; ok {
			delete(repo.rows, id)
			deleted++
		}
	}
	if deleted == 0 {
		return account.ErrNotFound
	}
	return nil
}
