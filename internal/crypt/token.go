package crypt

import (
	"crypto/subtle"
	"encoding/base64"
	"strings"
	"time"
	"unicode/utf8"
)

// Token is the decoded form of a web token. Expiry is kept as the exact
// RFC3339 text that was signed.
type Token struct {
	Identity  string
	Expiry    string
	Signature string
}

// String encodes the token as b64u(identity).b64u(expiry).signature.
func (t Token) String() string {
	return encodeSegment(t.Identity) + "." + encodeSegment(t.Expiry) + "." + t.Signature
}

// ParseToken decodes the textual form produced by Token.String. It never
// checks the signature.
func ParseToken(s string) (Token, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Token{}, ErrInvalidFormat
	}

	ident, ok := decodeSegment(parts[0])
	if !ok {
		return Token{}, ErrCannotDecodeIdentity
	}
	exp, ok := decodeSegment(parts[1])
	if !ok {
		return Token{}, ErrCannotDecodeExpiry
	}

	return Token{Identity: ident, Expiry: exp, Signature: parts[2]}, nil
}

// IssueToken builds a token for identity that expires durationSec seconds
// after now. Fractional durations are kept.
func IssueToken(identity string, durationSec float64, salt string, key []byte, now time.Time) (Token, error) {
	exp := now.UTC().Add(secondsToDuration(durationSec)).Format(time.RFC3339Nano)

	sig, err := signToken(identity, exp, salt, key)
	if err != nil {
		return Token{}, err
	}

	return Token{Identity: identity, Expiry: exp, Signature: sig}, nil
}

// VerifyToken checks the signature first and only then the expiry.
func VerifyToken(t Token, salt string, key []byte, now time.Time) error {
	sig, err := signToken(t.Identity, t.Expiry, salt, key)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(sig), []byte(t.Signature)) != 1 {
		return ErrSignatureMismatch
	}

	exp, err := time.Parse(time.RFC3339Nano, t.Expiry)
	if err != nil {
		return ErrTimeNotISO
	}
	if exp.Before(now) {
		return ErrExpired
	}
	return nil
}

// TokenIssuer binds the token key and lifetime loaded at startup.
type TokenIssuer struct {
	key         []byte
	durationSec float64
	now         func() time.Time
}

// NewTokenIssuer returns an issuer reading time from now; nil means
// time.Now.
func NewTokenIssuer(key []byte, durationSec float64, now func() time.Time) *TokenIssuer {
	if now == nil {
		now = time.Now
	}
	return &TokenIssuer{key: key, durationSec: durationSec, now: now}
}

// Issue mints a fresh token for identity signed with salt.
func (i *TokenIssuer) Issue(identity, salt string) (Token, error) {
	return IssueToken(identity, i.durationSec, salt, i.key, i.now())
}

// Verify checks t against salt at the current time.
func (i *TokenIssuer) Verify(t Token, salt string) error {
	return VerifyToken(t, salt, i.key, i.now())
}

func signToken(identity, expiry, salt string, key []byte) (string, error) {
	return Sign(key, encodeSegment(identity)+"."+encodeSegment(expiry), salt)
}

func encodeSegment(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func decodeSegment(s string) (string, bool) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil || !utf8.Valid(b) {
		return "", false
	}
	return string(b), true
}

func secondsToDuration(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}
