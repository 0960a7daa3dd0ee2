package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidToken = errors.New("invalid auth token")

const defaultTokenTTL = 24 * time.Hour

// HMACStrategy issues self-contained tokens of the form
// base64("userID:expiresAt:signature") where the signature is an
// HMAC-SHA256 over the first two fields.
type HMACStrategy struct {
	secret []byte
	ttl    time.Duration
}

func NewHMACStrategy(secret string, opts Options) *HMACStrategy {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &HMACStrategy{secret: []byte(secret), ttl: ttl}
}

// IssueToken creates a signed token carrying the user identity.
func (s *HMACStrategy) IssueToken(userID int64) (string, error) {
	payload := fmt.Sprintf("%d:%d", userID, time.Now().Add(s.ttl).Unix())
	token := payload + ":" + s.sign(payload)
	return base64.StdEncoding.EncodeToString([]byte(token)), nil
}

// ParseToken verifies signature and expiry and returns the user ID.
func (s *HMACStrategy) ParseToken(token string) (int64, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return 0, ErrInvalidToken
	}

	decoded := string(raw)
	cut := strings.LastIndex(decoded, ":")
	if cut < 0 {
		return 0, ErrInvalidToken
	}
	payload, sig := decoded[:cut], decoded[cut+1:]

	if !hmac.Equal([]byte(s.sign(payload)), []byte(sig)) {
		return 0, ErrInvalidToken
	}

	idPart, expiryPart, ok := strings.Cut(payload, ":")
	if !ok {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}

	expires, err := strconv.ParseInt(expiryPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	if time.Now().Unix() >= expires {
		return 0, ErrInvalidToken
	}

	return userID, nil
}

func (s *HMACStrategy) Name() string {
	return "hmac"
}

func (s *HMACStrategy) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
