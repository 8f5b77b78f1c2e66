package server

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	sessionCookieName = "sessionId"
	sessionTTL        = 24 * time.Hour
)

// signSession produces an HMAC-signed session value carrying the user's
// e-mail and an expiry timestamp: base64(email|expiryUnix).hex(hmac).
func signSession(secret, email string, expiry time.Time) string {
	payload := base64.RawURLEncoding.EncodeToString([]byte(fmt.Sprintf("%s|%d", email, expiry.Unix())))
	return payload + "." + sessionMAC(secret, payload)
}

// verifySession validates the signature and expiry and returns the e-mail.
func verifySession(secret, value string) (string, error) {
	payload, mac, ok := strings.Cut(value, ".")
	if !ok {
		return "", fmt.Errorf("malformed session value")
	}
	if !hmac.Equal([]byte(mac), []byte(sessionMAC(secret, payload))) {
		return "", fmt.Errorf("invalid session signature")
	}

	decoded, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("malformed session payload: %w", err)
	}
	email, expiryStr, ok := strings.Cut(string(decoded), "|")
	if !ok {
		return "", fmt.Errorf("malformed session payload")
	}

	expiry, err := strconv.ParseInt(expiryStr, 10, 64)
	if err != nil {
		return "", fmt.Errorf("malformed session expiry: %w", err)
	}
	if time.Now().Unix() > expiry {
		return "", fmt.Errorf("session expired")
	}

	return email, nil
}

func sessionMAC(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
