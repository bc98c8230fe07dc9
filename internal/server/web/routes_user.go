package web

import (
	"net/http"

	"github.com/Mal-back/cal-tracker/internal/server/authctx"
	"github.com/Mal-back/cal-tracker/internal/server/models"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResult struct {
	Success bool `json:"success"`
}

type logoutRequest struct {
	ShouldLogOut bool `json:"should_log_out"`
}

type logoutResult struct {
	Logout bool `json:"logout"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) error {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	user, err := h.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	tok, err := h.resolver.Issue(user.Username, user.TokenSalt)
	if err != nil {
		return err
	}
	setTokenCookie(w, tok)

	if ri := infoFrom(r.Context()); ri != nil {
		ri.userID = &user.ID
	}

	writeResult(w, loginResult{Success: true})
	return nil
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) error {
	var req logoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	if req.ShouldLogOut {
		removeTokenCookie(w)
	}

	writeResult(w, logoutResult{Logout: req.ShouldLogOut})
	return nil
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) error {
	var req models.FullUserForCreate
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	user, err := h.users.Create(r.Context(), req)
	if err != nil {
		return err
	}

	writeResult(w, user)
	return nil
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request, c authctx.Ctx) error {
	user, err := h.users.Get(r.Context(), c.UserID())
	if err != nil {
		return err
	}

	writeResult(w, user)
	return nil
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request, c authctx.Ctx) error {
	if err := h.users.Delete(r.Context(), c.UserID()); err != nil {
		return err
	}

	removeTokenCookie(w)
	writeResult(w, loginResult{Success: true})
	return nil
}

func (h *Handler) updatePassword(w http.ResponseWriter, r *http.Request, c authctx.Ctx) error {
	var req models.UserForNewPwd
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	if err := h.users.UpdatePassword(r.Context(), c, req); err != nil {
		return err
	}

	writeResult(w, loginResult{Success: true})
	return nil
}

// logoutAll rotates the token salt, so every token of the account stops
// verifying, including the one just set by ResolveCtx.
func (h *Handler) logoutAll(w http.ResponseWriter, r *http.Request, c authctx.Ctx) error {
	if err := h.users.RevokeTokens(r.Context(), c.UserID()); err != nil {
		return err
	}

	removeTokenCookie(w)
	writeResult(w, logoutResult{Logout: true})
	return nil
}

func (h *Handler) getPublicUser(w http.ResponseWriter, r *http.Request, c authctx.Ctx) error {
	pu, err := h.users.GetPublic(r.Context(), c.UserID())
	if err != nil {
		return err
	}

	writeResult(w, pu)
	return nil
}

func (h *Handler) updatePublicUser(w http.ResponseWriter, r *http.Request, c authctx.Ctx) error {
	var req models.PublicUserForUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	pu, err := h.users.UpdatePublic(r.Context(), c.UserID(), req)
	if err != nil {
		return err
	}

	writeResult(w, pu)
	return nil
}
