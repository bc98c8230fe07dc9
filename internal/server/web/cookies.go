package web

import (
	"net/http"
	"strings"

	"github.com/Mal-back/cal-tracker/internal/common"
	"github.com/Mal-back/cal-tracker/internal/crypt"
)

func tokenFromCookie(r *http.Request) (string, bool) {
	c, err := r.Cookie(common.AuthTokenName)
	if err != nil {
		return "", false
	}
	v := strings.TrimSpace(c.Value)
	if v == "" {
		return "", false
	}
	return v, true
}

func setTokenCookie(w http.ResponseWriter, tok crypt.Token) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.AuthTokenName,
		Value:    tok.String(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func removeTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.AuthTokenName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
