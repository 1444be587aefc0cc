package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/ordermanager/internal/server/models"
)

func newTestIssuer(t *testing.T, accessTTL, refreshTTL time.Duration) *Issuer {
	t.Helper()
	codec := newTestCodec(t, "issuer-secret")
	i, err := NewIssuer(codec, accessTTL, refreshTTL)
	if err != nil {
		t.Fatalf("NewIssuer error: %v", err)
	}
	return i
}

func testUser() *models.User {
	return &models.User{
		ID:         "3f8c2a1e-8a5b-4d1c-9e7f-0123456789ab",
		Email:      "john@example.com",
		PersonName: "John Doe",
	}
}

func TestIssuer_Issue(t *testing.T) {
	t.Parallel()

	issuer := newTestIssuer(t, 30*time.Minute, 7*24*time.Hour)

	before := time.Now()
	pair, err := issuer.Issue(testUser())
	after := time.Now()
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := issuer.codec.Decode(pair.AccessToken)
	if err != nil {
		t.Fatalf("issued access token does not verify: %v", err)
	}
	if claims.Subject != testUser().ID {
		t.Errorf("subject: got %q want %q", claims.Subject, testUser().ID)
	}
	if claims.Email != "john@example.com" || claims.PersonName != "John Doe" {
		t.Errorf("identity claims: %+v", claims)
	}
	if claims.ID == "" {
		t.Errorf("jti must be set")
	}

	// Expiries land at now+TTL for the clock read inside Issue.
	if pair.AccessExpiresAt.Before(before.Add(30*time.Minute)) ||
		pair.AccessExpiresAt.After(after.Add(30*time.Minute)) {
		t.Errorf("access expiry out of range: %v", pair.AccessExpiresAt)
	}
	if pair.RefreshExpiresAt.Before(before.Add(7*24*time.Hour)) ||
		pair.RefreshExpiresAt.After(after.Add(7*24*time.Hour)) {
		t.Errorf("refresh expiry out of range: %v", pair.RefreshExpiresAt)
	}

	if pair.RefreshToken == "" {
		t.Fatalf("refresh token must be set")
	}
}

func TestIssuer_Issue_PairsAreUnique(t *testing.T) {
	t.Parallel()

	issuer := newTestIssuer(t, time.Minute, time.Hour)
	user := testUser()

	const n = 10000
	jtis := make(map[string]struct{}, n)
	refresh := make(map[string]struct{}, n)

	for range n {
		pair, err := issuer.Issue(user)
		if err != nil {
			t.Fatalf("Issue error: %v", err)
		}
		claims, err := issuer.codec.Decode(pair.AccessToken)
		if err != nil {
			t.Fatalf("Decode error: %v", err)
		}
		if _, ok := jtis[claims.ID]; ok {
			t.Fatalf("duplicate jti %q", claims.ID)
		}
		jtis[claims.ID] = struct{}{}
		if _, ok := refresh[pair.RefreshToken]; ok {
			t.Fatalf("duplicate refresh token")
		}
		refresh[pair.RefreshToken] = struct{}{}
	}
}

func TestNewIssuer_ConfigurationErrors(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t, "secret")

	cases := []struct {
		name       string
		codec      *Codec
		accessTTL  time.Duration
		refreshTTL time.Duration
	}{
		{"nil codec", nil, time.Minute, time.Hour},
		{"zero access TTL", codec, 0, time.Hour},
		{"negative access TTL", codec, -time.Minute, time.Hour},
		{"zero refresh TTL", codec, time.Minute, 0},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewIssuer(tc.codec, tc.accessTTL, tc.refreshTTL)
			if !errors.Is(err, ErrConfiguration) {
				t.Fatalf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}
