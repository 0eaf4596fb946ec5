package bitfinex

import (
	"encoding/base64"
	"testing"
)

func TestComputeHmacSha384(t *testing.T) {
	// RFC 4231 test case 2.
	signer := NewSigner("dummy_key", "Jefe")

	got := signer.computeHmacSha384("what do ya want for nothing?")
	want := "af45d2e376484031617f78d2b58a6b1b9c7ef464f5a01b47e42ec3736322445e8e2240ca5e69e2c78b3239ecfab21649"

	if got != want {
		t.Errorf("HMAC mismatch.\nwant %s\ngot  %s", want, got)
	}
}

func TestSigner_SignedHeaders(t *testing.T) {
	signer := NewSigner("api_key", "api_secret")
	body := []byte(`{"request":"/v1/balances","nonce":"1"}`)

	headers := signer.SignedHeaders(body)

	if headers["X-BFX-APIKEY"] != "api_key" {
		t.Errorf("expected api_key, got %s", headers["X-BFX-APIKEY"])
	}

	payload := headers["X-BFX-PAYLOAD"]
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		t.Fatalf("payload is not base64: %v", err)
	}
	if string(decoded) != string(body) {
		t.Errorf("payload does not round-trip to the body: %s", decoded)
	}

	// Signature covers the base64 payload, same as the WS auth path.
	if headers["X-BFX-SIGNATURE"] != signer.AuthSignature(payload) {
		t.Error("signature does not match HMAC of the payload")
	}
}

func TestSigner_Wipe(t *testing.T) {
	signer := NewSigner("key", "secret")
	signer.Wipe()

	if signer.Key() != "\x00\x00\x00" {
		t.Error("key not zeroed after Wipe")
	}

	// Wipe on nil must not panic.
	var nilSigner *Signer
	nilSigner.Wipe()
}
