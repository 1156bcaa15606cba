package main

import (
	"context"
	"time"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/account"
)

// createAdmin creates an admin account, or promotes an existing one matched
// by username or email.
func (cli *commandLine) createAdmin(uname, email, pwd string) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	now := time.Now().UTC()

	acct, err := cli.acctRepo.GetAccountByUsernameOrEmail(ctx, uname)
	if err != nil {
		if err != account.ErrNotFound {
			return err
		}
		acct = account.Account{
			Username:  uname,
			Email:     email,
			Role:      account.RoleAdmin,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err = acct.SetPassword(pwd); err != nil {
			return err
		}
		_, err = cli.acctRepo.CreateAccount(ctx, acct)
		return err
	}

	acct.Role = account.RoleAdmin
	acct.UpdatedAt = now
	if _, err = cli.acctRepo.UpdateAccount(ctx, acct); err != nil {
		return err
	}
	hash, err := account.MakePasswordHash(pwd)
	if err != nil {
		return err
	}
	return cli.acctRepo.SetAccountPasswordHash(ctx, acct.ID, hash)
}
