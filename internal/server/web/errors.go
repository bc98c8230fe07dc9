package web

import (
	"errors"
	"net/http"

	"github.com/Mal-back/cal-tracker/internal/common"
	"github.com/Mal-back/cal-tracker/internal/server/auth"
	"github.com/Mal-back/cal-tracker/internal/server/services"
)

// ClientError is the only error detail a client ever sees.
type ClientError string

const (
	ClientNoAuth        ClientError = "NO_AUTH"
	ClientLoginFail     ClientError = "LOGIN_FAIL"
	ClientWeakPassword  ClientError = "WEAK_PASSWORD"
	ClientWrongPassword ClientError = "WRONG_PASSWORD"
	ClientUsernameTaken ClientError = "USERNAME_TAKEN"
	ClientBadRequest    ClientError = "BAD_REQUEST"
	ClientNotFound      ClientError = "NOT_FOUND"
	ClientServiceError  ClientError = "SERVICE_ERROR"
)

type classification struct {
	match  func(error) bool
	status int
	client ClientError
	kind   string
}

func is(targets ...error) func(error) bool {
	return func(err error) bool {
		for _, t := range targets {
			if errors.Is(err, t) {
				return true
			}
		}
		return false
	}
}

// Checked top to bottom; the first match wins.
var classifications = []classification{
	{is(auth.ErrModelAccess), http.StatusInternalServerError, ClientServiceError, "model_access"},
	{auth.IsCtxExtError, http.StatusUnauthorized, ClientNoAuth, "ctx_ext"},
	{is(
		services.ErrLoginFailUsernameNotFound,
		services.ErrLoginFailUserHasNoPassword,
		services.ErrLoginFailPasswordNotMatching,
	), http.StatusUnauthorized, ClientLoginFail, "login_fail"},
	{is(
		services.ErrAccountCreationPasswordTooWeak,
		services.ErrUpdatePasswordTooWeak,
	), http.StatusBadRequest, ClientWeakPassword, "weak_password"},
	{is(services.ErrUpdatePasswordNotMatching), http.StatusBadRequest, ClientWrongPassword, "wrong_password"},
	{is(services.ErrUsernameAlreadyTaken), http.StatusBadRequest, ClientUsernameTaken, "username_taken"},
	{is(services.ErrInvalidInput), http.StatusBadRequest, ClientBadRequest, "invalid_input"},
	{is(common.ErrorNotFound), http.StatusNotFound, ClientNotFound, "not_found"},
}

// Classify maps an internal error to the response status and client tag.
// Anything unrecognised is a 500 SERVICE_ERROR.
func Classify(err error) (int, ClientError) {
	c := classify(err)
	return c.status, c.client
}

func classify(err error) classification {
	for _, c := range classifications {
		if c.match(err) {
			return c
		}
	}
	return classification{status: http.StatusInternalServerError, client: ClientServiceError, kind: "service"}
}
