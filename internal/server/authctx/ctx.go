// Package authctx defines the authenticated principal attached to a request.
package authctx

import "errors"

// ErrCannotConstructRootCtx is returned when New is asked for the root id.
var ErrCannotConstructRootCtx = errors.New("cannot construct root ctx")

const rootUserID int64 = 0

// Ctx identifies who is acting. The zero value is the root context and is
// only reachable through Root.
type Ctx struct {
	userID int64
}

// Root returns the privileged context used for internal operations such as
// login lookups and account creation.
func Root() Ctx {
	return Ctx{userID: rootUserID}
}

// New builds a context for a regular user.
func New(userID int64) (Ctx, error) {
	if userID == rootUserID {
		return Ctx{}, ErrCannotConstructRootCtx
	}
	return Ctx{userID: userID}, nil
}

func (c Ctx) UserID() int64 { return c.userID }

func (c Ctx) IsRoot() bool { return c.userID == rootUserID }
