// Package initdata parses and verifies the signed launch payload a Telegram
// Mini App receives from the client.
// https://core.telegram.org/bots/webapps#validating-data-received-via-the-mini-app
package initdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

var (
	ErrMalformedInput     = errors.New("init data is empty")
	ErrMissingField       = errors.New("missing user, auth_date or hash in init data")
	ErrInvalidUserPayload = errors.New("user field is not valid JSON")
)

// User is the identity embedded in the "user" field of init data. It lives
// only for the duration of one request.
type User struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Username  string  `json:"username"`
	PhotoURL  *string `json:"photo_url"`
}

// Fields is the decoded init-data payload. Only fields the client actually
// supplied are present; nothing is synthesized.
type Fields map[string]string

// Parse decodes a raw init-data string with standard URL-query rules.
// Decoding is tolerant: like the browser's URLSearchParams, pairs that fail
// to unescape are dropped and the rest of the payload is kept. Only an empty
// input is an error.
func Parse(raw string) (Fields, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrMalformedInput
	}

	values, _ := url.ParseQuery(raw)

	fields := make(Fields, len(values))
	for key, vals := range values {
		if len(vals) > 0 {
			fields[key] = vals[0]
		} else {
			fields[key] = ""
		}
	}
	return fields, nil
}

// User decodes the "user" JSON blob.
func (f Fields) User() (User, error) {
	raw, ok := f["user"]
	if !ok || raw == "" {
		return User{}, ErrMissingField
	}

	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrInvalidUserPayload, err)
	}
	return u, nil
}

// AuthDate returns the auth_date field as Unix seconds.
func (f Fields) AuthDate() (int64, error) {
	raw, ok := f["auth_date"]
	if !ok || raw == "" {
		return 0, ErrMissingField
	}

	sec, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: auth_date %q is not a unix timestamp", ErrMissingField, raw)
	}
	return sec, nil
}

// Hash returns the supplied signature.
func (f Fields) Hash() (string, error) {
	raw, ok := f["hash"]
	if !ok || raw == "" {
		return "", ErrMissingField
	}
	return raw, nil
}

// ReferralCode extracts the referral code carried in start_param. A leading
// "ref_" is stripped when present; otherwise the raw value is used as-is,
// matching how invite links have historically been issued. Returns "" when
// no start_param was supplied.
func (f Fields) ReferralCode() string {
	startParam := f["start_param"]
	if startParam == "" {
		return ""
	}
	return strings.TrimPrefix(startParam, "ref_")
}
