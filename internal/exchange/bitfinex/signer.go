package bitfinex

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
)

// Signer handles Bitfinex API authentication.
// Keys are stored as []byte to allow memory wiping.
type Signer struct {
	key    []byte
	secret []byte
}

// NewSigner creates a new signer.
func NewSigner(key, secret string) *Signer {
	return &Signer{
		key:    []byte(key),
		secret: []byte(secret),
	}
}

// Wipe clears the keys from memory.
func (s *Signer) Wipe() {
	if s == nil {
		return
	}
	wipeSlice(s.key)
	wipeSlice(s.secret)
}

func wipeSlice(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// SignedHeaders creates the v1 REST headers for the given request body.
// The body is base64-encoded as the payload and signed with HMAC-SHA384.
func (s *Signer) SignedHeaders(body []byte) map[string]string {
	payload := base64.StdEncoding.EncodeToString(body)

	return map[string]string{
		"X-BFX-APIKEY":    string(s.key),
		"X-BFX-PAYLOAD":   payload,
		"X-BFX-SIGNATURE": s.computeHmacSha384(payload),
		"Content-Type":    "application/json",
	}
}

// AuthSignature signs a WebSocket auth payload ("AUTH" + nonce).
func (s *Signer) AuthSignature(payload string) string {
	return s.computeHmacSha384(payload)
}

// Key returns the API key for the WebSocket auth message.
func (s *Signer) Key() string { return string(s.key) }

func (s *Signer) computeHmacSha384(payload string) string {
	mac := hmac.New(sha512.New384, s.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
