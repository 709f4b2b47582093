package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGenerateAndValidateRoundTrip(t *testing.T) {
	SetSecrets("test-access", "test-refresh")
	SetLifetimes(time.Minute, time.Hour)

	id := primitive.NewObjectID()
	roleID := primitive.NewObjectID().Hex()

	token, err := GenerateToken(id, "a@b.c", "alice", roleID, AccessToken)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	claims, err := ValidateToken(token, AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken returned error: %v", err)
	}
	if claims.UserID != id.Hex() {
		t.Errorf("UserID = %q, want %q", claims.UserID, id.Hex())
	}
	if claims.Email != "a@b.c" || claims.UserName != "alice" {
		t.Errorf("identity fields not carried: %+v", claims)
	}
	if claims.Role != roleID {
		t.Errorf("Role = %q, want %q", claims.Role, roleID)
	}
	if claims.Kind != AccessToken {
		t.Errorf("Kind = %q, want %q", claims.Kind, AccessToken)
	}
	if len(claims.Permissions) != 0 {
		t.Errorf("Permissions should start empty, got %v", claims.Permissions)
	}
	if claims.ID == "" {
		t.Error("JTI should be set")
	}
}

func TestValidateRejectsWrongKind(t *testing.T) {
	SetSecrets("test-access", "test-refresh")
	SetLifetimes(time.Minute, time.Hour)

	refresh, err := GenerateToken(primitive.NewObjectID(), "a@b.c", "alice", "r1", RefreshToken)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	// A refresh token must never pass as an access token; the secrets differ
	// so the signature check fails first.
	if _, err := ValidateToken(refresh, AccessToken); err == nil {
		t.Error("refresh token validated as access token")
	}
}

func TestValidateRejectsKindClaimMismatch(t *testing.T) {
	// Same secret for both kinds; only the kind claim can tell them apart.
	SetSecrets("shared", "shared")
	SetLifetimes(time.Minute, time.Hour)
	defer SetSecrets("test-access", "test-refresh")

	refresh, err := GenerateToken(primitive.NewObjectID(), "a@b.c", "alice", "r1", RefreshToken)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	if _, err := ValidateToken(refresh, AccessToken); err == nil {
		t.Error("kind claim mismatch not rejected")
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	SetSecrets("test-access", "test-refresh")
	SetLifetimes(-time.Minute, time.Hour)
	defer SetLifetimes(time.Minute, time.Hour)

	token, err := GenerateToken(primitive.NewObjectID(), "a@b.c", "alice", "r1", AccessToken)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	_, err = ValidateToken(token, AccessToken)
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Errorf("expected jwt.ErrTokenExpired, got %v", err)
	}
}

func TestGeneratePairTokensDiffer(t *testing.T) {
	SetSecrets("test-access", "test-refresh")
	SetLifetimes(time.Minute, time.Hour)

	access, refresh, err := GeneratePair(primitive.NewObjectID(), "a@b.c", "alice", "r1")
	if err != nil {
		t.Fatalf("GeneratePair returned error: %v", err)
	}
	if access == refresh {
		t.Error("access and refresh tokens must differ")
	}
	if _, err := ValidateToken(access, AccessToken); err != nil {
		t.Errorf("access token invalid: %v", err)
	}
	if _, err := ValidateToken(refresh, RefreshToken); err != nil {
		t.Errorf("refresh token invalid: %v", err)
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	SetBcryptCost(4) // keep the test fast

	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("password stored in plain text")
	}
	if !CheckPassword(hash, "s3cret-pass") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}
