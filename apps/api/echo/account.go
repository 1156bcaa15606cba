package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/account"
)

type accountApi struct {
	conf       *core.Config
	svc        account.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerAuthAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := accountApi{
		conf:       deps.Conf,
		svc:        deps.AccountSvc,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	ag := g.Group("/auth")
	ag.POST("/register", api.register)
	ag.POST("/login", api.login)
	ag.POST("/logout", api.logout)
	ag.GET("/me", api.me, jwt)
}

// registerUsersAPI wires the account CRUD. None of these routes require a
// token; see DESIGN.md.
func registerUsersAPI(g *echo.Group, deps ServerDeps) {
	api := accountApi{
		conf:       deps.Conf,
		svc:        deps.AccountSvc,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	ug := g.Group("/users")
	ug.GET("", api.query)
	ug.GET("/:id", api.retrieve)
	ug.PUT("/:id", api.update)
	ug.DELETE("/:id", api.destroy)
}

// Handlers

func (api *accountApi) register(ctx echo.Context) error {
	var data account.NewAccount
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAccount")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	c, cancel := reqCtx(ctx, api.conf.Database.Timeout)
	defer cancel()

	if _, err := api.svc.Register(c, data); err != nil {
		return errors.Wrap(err, "registering account")
	}
	return ctx.JSON(http.StatusCreated, MessageResponse{Message: "User registered successfully!"})
}

func (api *accountApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	c, cancel := reqCtx(ctx, api.conf.Database.Timeout)
	defer cancel()

	acct, err := api.svc.Authenticate(c, data.Username, data.Password)
	if err != nil {
		return errors.Wrap(err, "authenticating")
	}
	token, err := GenerateToken(api.conf, GetAccountClaims(api.conf, acct))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, TokenResponse{Token: token})
}

// logout is stateless: tokens are not tracked server-side, so there is
// nothing to revoke. The client discards its copy.
func (api *accountApi) logout(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "User logged out successfully!"})
}

func (api *accountApi) me(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	c, cancel := reqCtx(ctx, api.conf.Database.Timeout)
	defer cancel()

	acct, err := api.svc.GetByID(c, claims.Subject)
	if err != nil {
		return errors.Wrap(err, "getting context account")
	}
	return ctx.JSON(http.StatusOK, acct)
}

func (api *accountApi) query(ctx echo.Context) error {
	c, cancel := reqCtx(ctx, api.conf.Database.Timeout)
	defer cancel()

	accts, err := api.svc.QueryAll(c)
	if err != nil {
		return errors.Wrap(err, "querying accounts")
	}
	return ctx.JSON(http.StatusOK, accts)
}

func (api *accountApi) retrieve(ctx echo.Context) error {
	c, cancel := reqCtx(ctx, api.conf.Database.Timeout)
	defer cancel()

	acct, err := api.svc.GetByID(c, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting account")
	}
	return ctx.JSON(http.StatusOK, acct)
}

func (api *accountApi) update(ctx echo.Context) error {
	var data account.UpdateAccount
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAccount")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	c, cancel := reqCtx(ctx, api.conf.Database.Timeout)
	defer cancel()

	if _, err := api.svc.Update(c, ctx.Param("id"), data); err != nil {
		return errors.Wrap(err, "updating account")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "User updated successfully!"})
}

func (api *accountApi) destroy(ctx echo.Context) error {
	c, cancel := reqCtx(ctx, api.conf.Database.Timeout)
	defer cancel()

	if err := api.svc.Delete(c, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting account")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "User deleted successfully!"})
}
