// Package services contains the server-side business logic. UserService
// covers login, account lifecycle and the public profile; MealService the
// owner-scoped meal records.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Mal-back/cal-tracker/internal/common"
	"github.com/Mal-back/cal-tracker/internal/crypt"
	"github.com/Mal-back/cal-tracker/internal/dbx"
	"github.com/Mal-back/cal-tracker/internal/server/authctx"
	"github.com/Mal-back/cal-tracker/internal/server/models"
	"github.com/Mal-back/cal-tracker/internal/server/repositories/repomanager"
)

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	pwdKey      []byte
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, pwdKey []byte) *UserService {
	return &UserService{db: db, repomanager: m, pwdKey: pwdKey}
}

// Login checks the clear-text password and returns the credential
// projection, whose token salt the caller signs the web token with.
func (s *UserService) Login(ctx context.Context, username, pwdClear string) (*models.UserForLogin, error) {
	user, err := s.repomanager.Users(s.db).FindLoginByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrLoginFailUsernameNotFound
		}
		return nil, fmt.Errorf("login lookup: %w", err)
	}

	if user.Password == nil {
		return nil, fmt.Errorf("%w: user_id=%d", ErrLoginFailUserHasNoPassword, user.ID)
	}

	if err := crypt.VerifyPassword(s.pwdKey, pwdClear, user.PasswordSalt, *user.Password); err != nil {
		if errors.Is(err, crypt.ErrPasswordMismatch) {
			return nil, fmt.Errorf("%w: user_id=%d", ErrLoginFailPasswordNotMatching, user.ID)
		}
		return nil, err
	}

	return user, nil
}

// Create registers the account and its public profile in one transaction,
// then sets the password hash.
func (s *UserService) Create(ctx context.Context, in models.FullUserForCreate) (*models.FullUser, error) {
	if strings.TrimSpace(in.Username) == "" {
		return nil, fmt.Errorf("%w: empty username", ErrInvalidInput)
	}
	if err := crypt.CheckPasswordSafety(in.PasswordClear); err != nil {
		return nil, ErrAccountCreationPasswordTooWeak
	}

	id, err := s.createAccount(ctx, in)
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

func (s *UserService) createAccount(ctx context.Context, in models.FullUserForCreate) (int64, error) {
	var id int64
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		users := s.repomanager.Users(tx)

		_, err := users.FindAuthByUsername(ctx, in.Username)
		switch {
		case err == nil:
			return ErrUsernameAlreadyTaken
		case !errors.Is(err, common.ErrorNotFound):
			return err
		}

		id, err = users.Create(ctx, in.Username)
		if err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				return ErrUsernameAlreadyTaken
			}
			return err
		}

		if _, err := s.repomanager.PublicUsers(tx).Create(ctx, id, in.Age, in.SizeCm, in.Weight); err != nil {
			return err
		}

		return s.setPassword(ctx, tx, id, in.PasswordClear)
	})
	return id, err
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.FullUser, error) {
	return s.repomanager.Users(s.db).FindFullByID(ctx, id)
}

// UpdatePassword requires the current password before accepting a new one.
// It acts on the account behind c; the root context has no account.
func (s *UserService) UpdatePassword(ctx context.Context, c authctx.Ctx, in models.UserForNewPwd) error {
	if c.IsRoot() {
		return fmt.Errorf("%w: root ctx has no password", ErrActorNotAllowed)
	}
	id := c.UserID()

	user, err := s.repomanager.Users(s.db).FindLoginByID(ctx, id)
	if err != nil {
		return err
	}
	if user.Password == nil {
		return fmt.Errorf("%w: user_id=%d", ErrLoginFailUserHasNoPassword, id)
	}

	if err := crypt.VerifyPassword(s.pwdKey, in.OldPwdClear, user.PasswordSalt, *user.Password); err != nil {
		if errors.Is(err, crypt.ErrPasswordMismatch) {
			return ErrUpdatePasswordNotMatching
		}
		return err
	}

	if err := crypt.CheckPasswordSafety(in.PasswordClear); err != nil {
		return ErrUpdatePasswordTooWeak
	}

	return s.SetPassword(ctx, c, id, in.PasswordClear)
}

// SetPassword hashes pwdClear with the account's password salt and stores it.
// Root may set any account's password; a user only their own.
func (s *UserService) SetPassword(ctx context.Context, c authctx.Ctx, id int64, pwdClear string) error {
	if !c.IsRoot() && c.UserID() != id {
		return fmt.Errorf("%w: user_id=%d target=%d", ErrActorNotAllowed, c.UserID(), id)
	}
	return s.setPassword(ctx, s.db, id, pwdClear)
}

func (s *UserService) setPassword(ctx context.Context, db dbx.DBTX, id int64, pwdClear string) error {
	users := s.repomanager.Users(db)

	user, err := users.FindLoginByID(ctx, id)
	if err != nil {
		return err
	}

	hash, err := crypt.HashPassword(s.pwdKey, pwdClear, user.PasswordSalt)
	if err != nil {
		return err
	}

	return users.SetPasswordHash(ctx, id, hash)
}

func (s *UserService) GetPublic(ctx context.Context, id int64) (*models.PublicUser, error) {
	return s.repomanager.PublicUsers(s.db).GetByOwner(ctx, id)
}

func (s *UserService) UpdatePublic(ctx context.Context, id int64, patch models.PublicUserForUpdate) (*models.PublicUser, error) {
	return s.repomanager.PublicUsers(s.db).Update(ctx, id, patch)
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.repomanager.Users(s.db).Delete(ctx, id)
}

// RevokeTokens rotates the account's token salt; every token issued before
// the call stops verifying.
func (s *UserService) RevokeTokens(ctx context.Context, id int64) error {
	return s.repomanager.Users(s.db).RotateTokenSalt(ctx, id)
}

// EnsureDevUser makes sure username exists with the given password. The
// password policy is not applied. Only called when the dev seed is on, and
// runs as root.
func (s *UserService) EnsureDevUser(ctx context.Context, username, pwdClear string) (int64, error) {
	user, err := s.repomanager.Users(s.db).FindAuthByUsername(ctx, username)
	if err == nil {
		return user.ID, s.SetPassword(ctx, authctx.Root(), user.ID, pwdClear)
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return 0, err
	}

	return s.createAccount(ctx, models.FullUserForCreate{
		Username:      username,
		PasswordClear: pwdClear,
		Age:           30,
		SizeCm:        175,
		Weight:        70,
	})
}
