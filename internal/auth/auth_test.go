package auth

import (
	"testing"
	"time"
)

func TestSignAndParseToken(t *testing.T) {
	user := UserContext{UserID: "u1", TenantID: "t1", EmployeeID: "e1", Role: RoleManager}
	token, err := SignToken("secret", user, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.TenantID != "t1" || claims.EmployeeID != "e1" || claims.Role != RoleManager {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := SignToken("secret", UserContext{UserID: "u1", TenantID: "t1"}, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseToken("other", token); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := SignToken("secret", UserContext{UserID: "u1", TenantID: "t1"}, -time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseToken("secret", token); err == nil {
		t.Fatal("expected error for expired token")
	}
}
