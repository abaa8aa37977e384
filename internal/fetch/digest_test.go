package fetch

import (
	"strings"
	"testing"
)

func TestParseDigestChallenge(t *testing.T) {
	header := `Digest realm="MMS Public API", qop="auth", nonce="abc123", opaque="xyz"`
	c, err := parseDigestChallenge(header)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.realm != "MMS Public API" || c.nonce != "abc123" || c.qop != "auth" || c.opaque != "xyz" {
		t.Fatalf("got %+v", c)
	}
}

func TestParseDigestChallengeNotDigest(t *testing.T) {
	if _, err := parseDigestChallenge("Basic realm=x"); err == nil {
		t.Fatal("expected an error for a non-Digest scheme")
	}
}

func TestAuthorizationHeaderIncludesCredentials(t *testing.T) {
	challenge := digestChallenge{realm: "r", nonce: "n", qop: "auth"}
	header, err := authorizationHeader(challenge, "GET", "/api/v1.0/x", "user", "pass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(header, `username="user"`) || !strings.Contains(header, `realm="r"`) || !strings.Contains(header, `nonce="n"`) {
		t.Fatalf("missing expected fields: %s", header)
	}
}
