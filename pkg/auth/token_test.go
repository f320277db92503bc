package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/photoshare/backend/pkg/config"
	"github.com/photoshare/backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret",
		Issuer:                 "photoshare-test",
		ExpirationMinutes:      30,
		RefreshTokenTTLMinutes: 10080,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	payload := AccessTokenPayload{
		UserID:   uuid.New(),
		Username: "ansel",
		Role:     enums.UserRoleCreator,
		JTI:      "session-1",
	}

	token, err := MintAccessToken(cfg, time.Now().UTC(), payload)
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != payload.UserID {
		t.Fatalf("expected user id %s got %s", payload.UserID, claims.UserID)
	}
	if claims.Username != "ansel" {
		t.Fatalf("unexpected username %s", claims.Username)
	}
	if claims.Role != enums.UserRoleCreator {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if claims.ID != "session-1" {
		t.Fatalf("unexpected jti %s", claims.ID)
	}
}

func TestMintAccessTokenDefaultsJTI(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now().UTC(), AccessTokenPayload{
		UserID:   uuid.New(),
		Username: "ansel",
		Role:     enums.UserRoleMember,
	})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.ID == "" {
		t.Fatal("expected generated jti")
	}
	if _, err := uuid.Parse(claims.ID); err != nil {
		t.Fatalf("expected uuid jti got %s", claims.ID)
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	issuedAt := time.Now().UTC().Add(-2 * time.Hour)
	token, err := MintAccessToken(cfg, issuedAt, AccessTokenPayload{
		UserID:   uuid.New(),
		Username: "ansel",
		Role:     enums.UserRoleMember,
		JTI:      "expired-session",
	})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}

	claims, err := ParseAccessTokenAllowExpired(cfg, token)
	if err != nil {
		t.Fatalf("ParseAccessTokenAllowExpired: %v", err)
	}
	if claims.ID != "expired-session" {
		t.Fatalf("unexpected jti %s", claims.ID)
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now().UTC(), AccessTokenPayload{
		UserID:   uuid.New(),
		Username: "ansel",
		Role:     enums.UserRoleMember,
		JTI:      "jti",
	})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	wrong := cfg
	wrong.Secret = "other-secret"
	if _, err := ParseAccessToken(wrong, token); err == nil {
		t.Fatal("expected signature mismatch to be rejected")
	}
}
