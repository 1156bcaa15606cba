package main

import (
	"context"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/account"
)

func (cli *commandLine) resetPassword(uname, pwd string) error {
	ctx := context.Background()

	acct, err := cli.acctRepo.GetAccountByUsernameOrEmail(ctx, core.CleanString(uname, true /* lower */))
	if err != nil {
		return err
	}
	hash, err := account.MakePasswordHash(pwd)
	if err != nil {
		return err
	}
	return cli.acctRepo.SetAccountPasswordHash(ctx, acct.ID, hash)
}
