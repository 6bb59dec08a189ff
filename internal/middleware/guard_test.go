package middleware

import (
	"testing"
	"time"

	"sinfoni-api/pkg/jwt"
)

func testManager() *jwt.Manager {
	return jwt.NewManager("guard-test-secret", "sinfoni-api", time.Hour)
}

func tokenFor(t *testing.T, m *jwt.Manager, role string) string {
	t.Helper()
	token, err := m.Generate(1, "Test User", "test@example.com", role)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func TestPublicPathsBypass(t *testing.T) {
	m := testManager()

	for _, path := range []string{"/login", "/api/v1/auth/login", "/api/v1/auth/forgot-password"} {
		r := Evaluate(path, "", m.Validate)
		if r.Decision != Allow {
			t.Errorf("public path %s should be allowed without a token", path)
		}
	}
}

func TestMissingToken(t *testing.T) {
	m := testManager()

	if r := Evaluate("/api/v1/transactions", "", m.Validate); r.Decision != Deny {
		t.Error("API path without token should be denied")
	}
	if r := Evaluate("/dashboard", "", m.Validate); r.Decision != RedirectLogin {
		t.Error("page path without token should redirect to login")
	}
}

func TestInvalidTokenClearsCookie(t *testing.T) {
	m := testManager()

	r := Evaluate("/api/v1/transactions", "not-a-token", m.Validate)
	if r.Decision != Deny || !r.ClearCookie {
		t.Errorf("invalid token on API path: got %+v", r)
	}

	r = Evaluate("/dashboard", "not-a-token", m.Validate)
	if r.Decision != RedirectLogin || !r.ClearCookie {
		t.Errorf("invalid token on page path: got %+v", r)
	}
}

func TestValidTokenAttachesClaims(t *testing.T) {
	m := testManager()
	token := tokenFor(t, m, "Finance")

	r := Evaluate("/api/v1/transactions", token, m.Validate)
	if r.Decision != Allow {
		t.Fatalf("expected allow, got %+v", r)
	}
	if r.Claims == nil || r.Claims.Role != "Finance" {
		t.Errorf("claims not attached: %+v", r.Claims)
	}
}

func TestRoleGates(t *testing.T) {
	m := testManager()

	cases := []struct {
		path     string
		role     string
		decision Decision
	}{
		{"/api/v1/admin/users", "Superadmin", Allow},
		{"/api/v1/admin/users", "Finance", Forbid},
		{"/api/v1/admin/users", "Dealer", Forbid},
		{"/admin/users", "Dealer", RedirectHome},
		{"/finance/review", "Finance", Allow},
		{"/finance/review", "Dealer", RedirectHome},
		{"/finance/review", "Superadmin", Allow},
		{"/dealer/nota", "Dealer", Allow},
		{"/dealer/nota", "Finance", RedirectHome},
		{"/dealer/nota", "Superadmin", Allow},
		{"/dashboard", "Dealer", Allow},
	}

	for _, tc := range cases {
		token := tokenFor(t, m, tc.role)
		r := Evaluate(tc.path, token, m.Validate)
		if r.Decision != tc.decision {
			t.Errorf("%s as %s: expected %v, got %v", tc.path, tc.role, tc.decision, r.Decision)
		}
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	m := testManager()
	token := tokenFor(t, m, "Dealer")

	first := Evaluate("/api/v1/admin/users", token, m.Validate)
	second := Evaluate("/api/v1/admin/users", token, m.Validate)
	if first.Decision != second.Decision {
		t.Error("same (path, token) must produce the same decision")
	}
}
