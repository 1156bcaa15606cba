package account

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/shulehq/shule/core"
)

var (
	// errors
	ErrNotFound           = errors.New("account not found")
	ErrUsernameExists     = errors.New("an account with this username already exists")
	ErrEmailExists        = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type (
	Repository interface {
		CheckUniqueness(ctx context.Context, username, email string, excluded ...Account) error
		CreateAccount(ctx context.Context, acct Account) (Account, error)
		QueryAllAccounts(ctx context.Context) ([]Account, error)
		GetAccountByID(ctx context.Context, id string) (Account, error)
		GetAccountByUsername(ctx context.Context, username string) (Account, error)
		GetAccountByUsernameOrEmail(ctx context.Context, username string) (Account, error)
		// UpdateAccount fully replaces username, email and role; the password
		// hash and timestamps are managed separately.
		UpdateAccount(ctx context.Context, acct Account) (Account, error)
		SetAccountPasswordHash(ctx context.Context, id, hash string) error
		SetAccountLastLogin(ctx context.Context, id string, t time.Time) error
		DeleteAccountsByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		Register(ctx context.Context, na NewAccount) (Account, error)
		Authenticate(ctx context.Context, username, password string) (Account, error)
		QueryAll(ctx context.Context) ([]Account, error)
		GetByID(ctx context.Context, id string) (Account, error)
		GetByUsernameOrEmail(ctx context.Context, username string) (Account, error)
		Update(ctx context.Context, id string, ua UpdateAccount) (Account, error)
		ResetPassword(ctx context.Context, username, password string) error
		Delete(ctx context.Context, ids ...string) error
	}

	service struct {
		repo    Repository
		mailSvc core.EmailService
		appName string
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) Service {
	return &service{
		repo:    repo,
		mailSvc: mailSvc,
		appName: conf.AppName,
	}
}

func (svc *service) checkUniqueness(ctx context.Context, uname, email string, excluded ...Account) error {
	if err := svc.repo.CheckUniqueness(ctx, uname, email, excluded...); err != nil {
		switch errors.Cause(err) {
		case ErrUsernameExists:
			return core.NewConflictError(err, "username")
		case ErrEmailExists:
			return core.NewConflictError(err, "email")
		}
		return err
	}
	return nil
}

func (svc *service) Register(ctx context.Context, na NewAccount) (Account, error) {
	if err := svc.checkUniqueness(ctx, na.Username, na.Email); err != nil {
		return Account{}, err
	}

	now := time.Now().UTC()
	acct := Account{
		Username:  na.Username,
		Email:     na.Email,
		Role:      na.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := acct.SetPassword(na.Password); err != nil {
		return Account{}, errors.Wrap(err, "hashing password")
	}

	acct, err := svc.repo.CreateAccount(ctx, acct)
	if err != nil {
		return Account{}, err
	}
	svc.sendWelcomeEmail(acct)
	return acct, nil
}

func (svc *service) Authenticate(ctx context.Context, username, password string) (Account, error) {
	acct, err := svc.repo.GetAccountByUsernameOrEmail(ctx, core.CleanString(username, true /* lower */))
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Account{}, ErrInvalidCredentials
		}
		return Account{}, errors.Wrap(err, "finding account by username or email")
	}
	if err = acct.CheckPassword(password); err != nil {
		return Account{}, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err = svc.repo.SetAccountLastLogin(ctx, acct.ID, now); err != nil {
		return Account{}, errors.Wrap(err, "setting last login")
	}
	acct.LastLogin.SetValid(now)
	return acct, nil
}

func (svc *service) QueryAll(ctx context.Context) ([]Account, error) {
	return svc.repo.QueryAllAccounts(ctx)
}

func (svc *service) GetByID(ctx context.Context, id string) (Account, error) {
	return svc.repo.GetAccountByID(ctx, id)
}

func (svc *service) GetByUsernameOrEmail(ctx context.Context, username string) (Account, error) {
	return svc.repo.GetAccountByUsernameOrEmail(ctx, core.CleanString(username, true /* lower */))
}

func (svc *service) Update(ctx context.Context, id string, ua UpdateAccount) (Account, error) {
	orig, err := svc.repo.GetAccountByID(ctx, id)
	if err != nil {
		return Account{}, err
	}
	if err = svc.checkUniqueness(ctx, ua.Username, ua.Email, orig); err != nil {
		return Account{}, err
	}
	return svc.repo.UpdateAccount(ctx, Account{
		ID:        id,
		Username:  ua.Username,
		Email:     ua.Email,
		Role:      ua.Role,
		UpdatedAt: time.Now().UTC(),
	})
}

func (svc *service) ResetPassword(ctx context.Context, username, password string) error {
	acct, err := svc.repo.GetAccountByUsernameOrEmail(ctx, core.CleanString(username, true /* lower */))
	if err != nil {
		return err
	}
	hash, err := MakePasswordHash(password)
	if err != nil {
		return errors.Wrap(err, "hashing password")
	}
	return svc.repo.SetAccountPasswordHash(ctx, acct.ID, hash)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteAccountsByID(ctx, ids...)
}

func (svc *service) sendWelcomeEmail(acct Account) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: acct.Username, Address: acct.Email}},
		Subject: "Welcome to " + svc.appName,
		Body: fmt.Sprintf(
			"Hi %s,\n\nYour %s account has been created. You can now log in with your username.\n",
			acct.Username, svc.appName,
		),
	})
}
