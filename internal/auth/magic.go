// Package auth issues and verifies the signed sign-in links mailed to users.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	ErrBadToken   = errors.New("bad token")
	ErrBadSig     = errors.New("invalid signature")
	ErrExpired    = errors.New("expired")
	ErrBadPayload = errors.New("bad payload")
)

// MagicLink signs "email|expiry" with HMAC-SHA256. Tokens are
// payload.signature, both URL-safe base64 without padding.
type MagicLink struct {
	Secret  []byte
	BaseURL string
	Now     func() time.Time // defaults to time.Now
}

func (m MagicLink) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m MagicLink) mac(payload []byte) []byte {
	h := hmac.New(sha256.New, m.Secret)
	h.Write(payload)
	return h.Sum(nil)
}

// Sign returns a token for email valid until exp.
func (m MagicLink) Sign(email string, exp time.Time) string {
	payload := []byte(strings.ToLower(strings.TrimSpace(email)) + "|" + strconv.FormatInt(exp.Unix(), 10))
	return base64.RawURLEncoding.EncodeToString(payload) + "." + base64.RawURLEncoding.EncodeToString(m.mac(payload))
}

// Verify checks the token signature and expiry and returns the email it was
// issued for.
func (m MagicLink) Verify(token string) (string, error) {
	encPayload, encSig, ok := strings.Cut(token, ".")
	if !ok {
		return "", ErrBadToken
	}
	payload, err := base64.RawURLEncoding.DecodeString(encPayload)
	if err != nil {
		return "", ErrBadToken
	}
	sig, err := base64.RawURLEncoding.DecodeString(encSig)
	if err != nil {
		return "", ErrBadToken
	}
	if !hmac.Equal(sig, m.mac(payload)) {
		return "", ErrBadSig
	}

	email, expRaw, ok := strings.Cut(string(payload), "|")
	if !ok || email == "" {
		return "", ErrBadPayload
	}
	exp, err := strconv.ParseInt(expRaw, 10, 64)
	if err != nil {
		return "", ErrBadPayload
	}
	if m.now().After(time.Unix(exp, 0)) {
		return "", ErrExpired
	}
	return email, nil
}

// URL returns the callback link carrying a token valid for ttl.
func (m MagicLink) URL(email string, ttl time.Duration) (string, error) {
	u, err := url.Parse(m.BaseURL)
	if err != nil {
		return "", err
	}
	u.Path = "/auth/callback"
	q := u.Query()
	q.Set("token", m.Sign(email, m.now().Add(ttl)))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
