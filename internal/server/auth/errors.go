package auth

import (
	"errors"
	"fmt"
)

var (
	ErrTokenNotInCookie  = errors.New("token not in cookie")
	ErrUserNotFound      = errors.New("user not found")
	ErrModelAccess       = errors.New("model access failed")
	ErrTokenUpdateFailed = errors.New("token update failed")
	ErrCtxNotInRequest   = errors.New("ctx not in request")
)

// CtxExtError is every failure to extract a Ctx from a request. Reason is
// one of the sentinels above, a crypt token error or
// authctx.ErrCannotConstructRootCtx; Cause is the underlying error, if any.
type CtxExtError struct {
	Reason error
	Cause  error
}

func (e *CtxExtError) Error() string {
	if e.Cause == nil {
		return "ctx extraction: " + e.Reason.Error()
	}
	return fmt.Sprintf("ctx extraction: %v: %v", e.Reason, e.Cause)
}

func (e *CtxExtError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Reason}
	}
	return []error{e.Reason, e.Cause}
}

func extErr(reason, cause error) *CtxExtError {
	return &CtxExtError{Reason: reason, Cause: cause}
}

// IsCtxExtError reports whether err carries a CtxExtError.
func IsCtxExtError(err error) bool {
	var e *CtxExtError
	return errors.As(err, &e)
}
