package initdata

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"strings"
	"time"
)

// MaxAge is how old an auth_date may be before the payload is rejected as
// stale. Exactly MaxAge old is still accepted.
const MaxAge = 24 * time.Hour

// secretKeySeed is the constant Telegram specifies for deriving the per-app
// secret key from the bot token.
const secretKeySeed = "WebAppData"

var (
	ErrHashMismatch = errors.New("hash mismatch")
	ErrStale        = errors.New("auth_date is too old")
)

// CheckString builds the canonical data-check string: every field except
// hash, sorted bytewise by key, joined as key=value lines with no trailing
// newline.
func (f Fields) CheckString() string {
	keys := make([]string, 0, len(f))
	for key := range f {
		if key != "hash" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+f[key])
	}
	return strings.Join(pairs, "\n")
}

// VerifySignature recomputes the payload signature with the two-stage
// HMAC-SHA256 chain and compares it against the supplied hash:
//
//	secretKey = HMAC_SHA256(key="WebAppData", msg=botToken)
//	expected  = hex(HMAC_SHA256(key=secretKey, msg=checkString))
func (f Fields) VerifySignature(botToken string) error {
	hash, err := f.Hash()
	if err != nil {
		return err
	}

	secretKey := hmacSHA256([]byte(secretKeySeed), []byte(botToken))
	expected := hex.EncodeToString(hmacSHA256(secretKey, []byte(f.CheckString())))

	if !hmac.Equal([]byte(expected), []byte(hash)) {
		return ErrHashMismatch
	}
	return nil
}

// FreshAt rejects payloads whose auth_date is more than MaxAge before now.
// Runs only after the signature has been verified, so stale-but-signed and
// fresh-but-forged payloads stay distinguishable in logs.
func (f Fields) FreshAt(now time.Time) error {
	authDate, err := f.AuthDate()
	if err != nil {
		return err
	}

	if now.Unix()-authDate > int64(MaxAge/time.Second) {
		return ErrStale
	}
	return nil
}

// Sign computes the signature the Telegram client would attach to these
// fields. Exported for building valid payloads in tests and local tooling.
func Sign(f Fields, botToken string) string {
	secretKey := hmacSHA256([]byte(secretKeySeed), []byte(botToken))
	return hex.EncodeToString(hmacSHA256(secretKey, []byte(f.CheckString())))
}

func hmacSHA256(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}
