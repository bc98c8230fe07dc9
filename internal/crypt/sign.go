package crypt

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/base64"
)

// Sign computes HMAC-SHA512(key, content || salt) and returns it as
// unpadded base64url. Content and salt are fed to the MAC separately.
// HMAC itself accepts any key length, empty included; refusing an empty key
// with ErrKeyFailure is a policy of this package.
func Sign(key []byte, content, salt string) (string, error) {
	if len(key) == 0 {
		return "", ErrKeyFailure
	}

	mac := hmac.New(sha512.New, key)
	mac.Write([]byte(content))
	mac.Write([]byte(salt))

	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil)), nil
}
