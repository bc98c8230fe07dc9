// Package auth turns a presented web token into an authenticated Ctx. The
// HTTP middleware and the gRPC interceptor both go through Resolver, so the
// two transports accept and rotate tokens identically.
package auth

import (
	"context"
	"errors"
	"strconv"

	"github.com/Mal-back/cal-tracker/internal/common"
	"github.com/Mal-back/cal-tracker/internal/crypt"
	"github.com/Mal-back/cal-tracker/internal/server/authctx"
	"github.com/Mal-back/cal-tracker/internal/server/models"
)

// Store is the identity lookup the resolver needs.
type Store interface {
	FindAuthByUsername(ctx context.Context, username string) (*models.UserForAuth, error)
}

// Outcome labels reported to the Observer.
const (
	OutcomeOK       = "ok"
	OutcomeNoToken  = "no_token"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Observer is notified once per resolution.
type Observer interface {
	ObserveAuth(outcome string)
}

type Resolver struct {
	store    Store
	issuer   *crypt.TokenIssuer
	observer Observer
}

func NewResolver(store Store, issuer *crypt.TokenIssuer, observer Observer) *Resolver {
	return &Resolver{store: store, issuer: issuer, observer: observer}
}

// Resolve verifies raw and, on success, returns the caller's Ctx together
// with a freshly issued token for the same identity. Every error is a
// *CtxExtError.
func (r *Resolver) Resolve(ctx context.Context, raw string) (authctx.Ctx, crypt.Token, error) {
	c, tok, err := r.resolve(ctx, raw)
	if r.observer != nil {
		r.observer.ObserveAuth(outcomeOf(err))
	}
	return c, tok, err
}

func (r *Resolver) resolve(ctx context.Context, raw string) (authctx.Ctx, crypt.Token, error) {
	if raw == "" {
		return authctx.Ctx{}, crypt.Token{}, extErr(ErrTokenNotInCookie, nil)
	}

	tok, err := crypt.ParseToken(raw)
	if err != nil {
		return authctx.Ctx{}, crypt.Token{}, extErr(err, nil)
	}

	user, err := r.store.FindAuthByUsername(ctx, tok.Identity)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return authctx.Ctx{}, crypt.Token{}, extErr(ErrUserNotFound, nil)
		}
		return authctx.Ctx{}, crypt.Token{}, extErr(ErrModelAccess, err)
	}

	if err := r.issuer.Verify(tok, user.TokenSalt); err != nil {
		return authctx.Ctx{}, crypt.Token{}, extErr(err, nil)
	}

	fresh, err := r.issuer.Issue(tok.Identity, user.TokenSalt)
	if err != nil {
		return authctx.Ctx{}, crypt.Token{}, extErr(ErrTokenUpdateFailed, err)
	}

	c, err := authctx.New(user.ID)
	if err != nil {
		return authctx.Ctx{}, crypt.Token{}, extErr(err, errors.New("user_id="+strconv.FormatInt(user.ID, 10)))
	}

	return c, fresh, nil
}

// Issue mints the token handed out at login.
func (r *Resolver) Issue(username, tokenSalt string) (crypt.Token, error) {
	return r.issuer.Issue(username, tokenSalt)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrTokenNotInCookie):
		return OutcomeNoToken
	case errors.Is(err, ErrModelAccess), errors.Is(err, ErrTokenUpdateFailed):
		return OutcomeError
	default:
		return OutcomeRejected
	}
}
