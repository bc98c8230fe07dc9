// Package models holds the row projections read from and written to the
// store. Each projection selects only the columns its caller needs.
package models

// UserForAuth is what the request resolver needs to verify a token.
type UserForAuth struct {
	ID        int64
	Username  string
	TokenSalt string
}

// UserForLogin carries the credential columns. Password is nil until a
// password has been set.
type UserForLogin struct {
	ID           int64
	Username     string
	Password     *string
	PasswordSalt string
	TokenSalt    string
}

// FullUser joins the account with its public profile.
type FullUser struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Age      int32   `json:"age"`
	SizeCm   int32   `json:"size_cm"`
	Weight   float32 `json:"weight"`
}

type FullUserForCreate struct {
	Username      string  `json:"username"`
	PasswordClear string  `json:"password_clear"`
	Age           int32   `json:"age"`
	SizeCm        int32   `json:"size_cm"`
	Weight        float32 `json:"weight"`
}

type UserForNewPwd struct {
	OldPwdClear   string `json:"old_pwd_clear"`
	PasswordClear string `json:"password_clear"`
}

type PublicUser struct {
	ID     int64   `json:"id"`
	Owner  int64   `json:"owner"`
	Age    int32   `json:"age"`
	SizeCm int32   `json:"size_cm"`
	Weight float32 `json:"weight"`
}

// PublicUserForUpdate is a partial update; nil fields keep their value.
type PublicUserForUpdate struct {
	Age    *int32   `json:"age"`
	SizeCm *int32   `json:"size_cm"`
	Weight *float32 `json:"weight"`
}
