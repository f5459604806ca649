package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signStaffToken(t *testing.T, secret, subject, role string, expiry time.Time) string {
	t.Helper()
	claims := &StaffClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
		RoleValue: role,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return token
}

func TestParseStaffToken(t *testing.T) {
	secret := "test-secret"
	token := signStaffToken(t, secret, "staff-1", "CLERK", time.Now().Add(time.Hour))

	claims, err := ParseStaffToken(secret, token)
	if err != nil {
		t.Fatalf("Expected valid token, got %v", err)
	}
	if claims.ActorID() != "staff-1" || claims.Role() != "CLERK" {
		t.Errorf("Unexpected claims: %s / %s", claims.ActorID(), claims.Role())
	}
	if !claims.CanManageMembers() {
		t.Error("Expected clerk to manage members")
	}
}

func TestParseStaffToken_WrongSecret(t *testing.T) {
	token := signStaffToken(t, "right-secret", "staff-1", "ADMIN", time.Now().Add(time.Hour))

	if _, err := ParseStaffToken("wrong-secret", token); err == nil {
		t.Error("Expected an error for a token signed with another secret")
	}
}

func TestParseStaffToken_Expired(t *testing.T) {
	secret := "test-secret"
	token := signStaffToken(t, secret, "staff-1", "ADMIN", time.Now().Add(-time.Minute))

	if _, err := ParseStaffToken(secret, token); err == nil {
		t.Error("Expected an error for an expired token")
	}
}

func TestParseStaffToken_RejectsUnsignedToken(t *testing.T) {
	// alg=none tokens must never pass the HMAC method check
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &StaffClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "staff-1"},
		RoleValue:        "ADMIN",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("Failed to build unsigned token: %v", err)
	}

	_, err = ParseStaffToken("test-secret", unsigned)
	if err == nil {
		t.Fatal("Expected an error for an unsigned token")
	}
	if !strings.Contains(err.Error(), "signing method") && !strings.Contains(err.Error(), "invalid token") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestClaimsRoles(t *testing.T) {
	staff := &StaffClaims{RoleValue: "VIEWER"}
	if staff.CanManageMembers() {
		t.Error("Expected unknown role to be denied member management")
	}

	svc := &ServiceClaims{KeyID: "key-1"}
	if svc.ActorID() != "key-1" || svc.Source() != "API_KEY" || !svc.CanManageMembers() {
		t.Errorf("Unexpected service claims: %+v", svc)
	}
}
