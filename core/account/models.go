package account

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/shulehq/shule/core"
)

// Conventional roles. The role column is free text and is never checked by
// any route; see DESIGN.md.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

type Account struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	Role         string    `json:"role" db:"role"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"` // UTC
	LastLogin    null.Time `json:"last_login" db:"last_login"` // UTC
}

// SetPassword hashes pwd and stores the encoded hash on the Account.
// The raw password is never retained.
func (a *Account) SetPassword(pwd string) error {
	hash, err := MakePasswordHash(pwd)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return nil
}

// CheckPassword recomputes the stored hash with its own parameters and
// compares in constant time. Returns ErrInvalidCredentials on mismatch.
func (a *Account) CheckPassword(pwd string) error {
	return CheckPasswordHash(a.PasswordHash, pwd)
}

// NewAccount contains information needed to register a new Account.
type NewAccount struct {
	Username string `json:"username" validate:"required,min=3,alphanum_"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

func (na *NewAccount) Validate(validate *validator.Validate) error {
	na.Username = core.CleanString(na.Username, true /* lower */)
	na.Email = core.CleanString(na.Email, true /* lower */)
	na.Role = core.CleanString(na.Role, true /* lower */)
	return validate.Struct(na)
}

// UpdateAccount defines the full replacement representation of an existing
// Account. The password hash is never touched by an update.
type UpdateAccount struct {
	Username string `json:"username" validate:"required,min=3,alphanum_"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"required"`
}

func (ua *UpdateAccount) Validate(validate *validator.Validate) error {
	ua.Username = core.CleanString(ua.Username, true /* lower */)
	ua.Email = core.CleanString(ua.Email, true /* lower */)
	ua.Role = core.CleanString(ua.Role, true /* lower */)
	return validate.Struct(ua)
}
