package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/shulehq/shule/core/account"
)

const pqUniqueViolation = "23505"

const accountColumns = "id, username, email, role, password_hash, created_at, updated_at, last_login"

type accountRepository struct {
	db *sqlx.DB
}

var _ account.Repository = (*accountRepository)(nil)

func NewAccountRepository(db *sql.DB) account.Repository {
	return &accountRepository{db: sqlx.NewDb(db, "postgres")}
}

func (repo *accountRepository) CheckUniqueness(ctx context.Context, username, email string, excluded ...account.Account) error {
	excludedIDs := make(map[string]bool, len(excluded))
	for _, acct := range excluded {
		excludedIDs[acct.ID] = true
	}

	var rows []account.Account
	q := "SELECT " + accountColumns + " FROM account WHERE username = $1 OR email = $2"
	if err := repo.db.SelectContext(ctx, &rows, q, username, email); err != nil {
		return trapErr(err, account.ErrNotFound, "checking account uniqueness")
	}
	for _, acct := range rows {
		if excludedIDs[acct.ID] {
			continue
		}
		if acct.Username == username {
			return account.ErrUsernameExists
		}
		return account.ErrEmailExists
	}
	return nil
}

func (repo *accountRepository) CreateAccount(ctx context.Context, acct account.Account) (account.Account, error) {
	acct.ID = uuid.New().String()
	q := `INSERT INTO account (id, username, email, role, password_hash, created_at, updated_at, last_login)
	      VALUES (:id, :username, :email, :role, :password_hash, :created_at, :updated_at, :last_login)`
	if _, err := repo.db.NamedExecContext(ctx, q, acct); err != nil {
		return account.Account{}, repo.trapUniqueErr(err, "inserting account")
	}
	return acct, nil
}

func (repo *accountRepository) QueryAllAccounts(ctx context.Context) ([]account.Account, error) {
	out := make([]account.Account, 0)
	q := "SELECT " + accountColumns + " FROM account ORDER BY created_at"
	if err := repo.db.SelectContext(ctx, &out, q); err != nil {
		return nil, trapErr(err, account.ErrNotFound, "querying accounts")
	}
	return out, nil
}

func (repo *accountRepository) GetAccountByID(ctx context.Context, id string) (account.Account, error) {
	return repo.get(ctx, "SELECT "+accountColumns+" FROM account WHERE id = $1", id)
}

func (repo *accountRepository) GetAccountByUsername(ctx context.Context, username string) (account.Account, error) {
	return repo.get(ctx, "SELECT "+accountColumns+" FROM account WHERE username = $1", username)
}

func (repo *accountRepository) GetAccountByUsernameOrEmail(ctx context.Context, username string) (account.Account, error) {
	return repo.get(ctx, "SELECT "+accountColumns+" FROM account WHERE username = $1 OR email = $1", username)
}

func (repo *accountRepository) UpdateAccount(ctx context.Context, acct account.Account) (account.Account, error) {
	q := "UPDATE account SET username = :username, email = :email, role = :role, updated_at = :updated_at WHERE id = :id"
	res, err := repo.db.NamedExecContext(ctx, q, acct)
	if err != nil {
		return account.Account{}, repo.trapUniqueErr(err, "updating account")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return account.Account{}, account.ErrNotFound
	}
	return repo.GetAccountByID(ctx, acct.ID)
}

func (repo *accountRepository) SetAccountPasswordHash(ctx context.Context, id, hash string) error {
	return repo.set(ctx, "UPDATE account SET password_hash = $1, updated_at = $2 WHERE id = $3", hash, time.Now().UTC(), id)
}

func (repo *accountRepository) SetAccountLastLogin(ctx context.Context, id string, t time.Time) error {
	return repo.set(ctx, "UPDATE account SET last_login = $1 WHERE id = $2", null.TimeFrom(t.UTC()), id)
}

func (repo *accountRepository) DeleteAccountsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In("DELETE FROM account WHERE id IN (?)", ids)
	if err != nil {
		return errors.Wrap(err, "building account delete")
	}
	res, err := repo.db.ExecContext(ctx, repo.db.Rebind(q), args...)
	if err != nil {
		return trapErr(err, account.ErrNotFound, "deleting accounts")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return account.ErrNotFound
	}
	return nil
}

func (repo *accountRepository) get(ctx context.Context, q string, args ...interface{}) (account.Account, error) {
	var acct account.Account
	if err := repo.db.GetContext(ctx, &acct, q, args...); err != nil {
		return account.Account{}, trapErr(err, account.ErrNotFound, "getting account")
	}
	return acct, nil
}

func (repo *accountRepository) set(ctx context.Context, q string, args ...interface{}) error {
	res, err := repo.db.ExecContext(ctx, q, args...)
	if err != nil {
		return trapErr(err, account.ErrNotFound, "updating account")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return account.ErrNotFound
	}
	return nil
}

// trapUniqueErr maps a unique violation on username/email to the matching
// sentinel; the handler layer turns those into 409s.
func (repo *accountRepository) trapUniqueErr(err error, msg string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
		if pqErr.Constraint == "account_username_key" {
			return account.ErrUsernameExists
		}
		return account.ErrEmailExists
	}
	return trapErr(err, account.ErrNotFound, msg)
}
