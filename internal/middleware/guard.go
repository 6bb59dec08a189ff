package middleware

import (
	"strings"

	"sinfoni-api/internal/model"
	"sinfoni-api/pkg/jwt"
)

// Decision is the guard's verdict for one request. Evaluation is a pure
// function of (path, token); there is no shared state between requests.
type Decision int

const (
	// Allow lets the request continue (claims attached when present).
	Allow Decision = iota
	// Deny responds 401 (API paths).
	Deny
	// Forbid responds 403 (API path, authenticated but wrong role).
	Forbid
	// RedirectLogin sends an unauthenticated page request to the login page.
	RedirectLogin
	// RedirectHome sends a role violation on a page path to the landing page.
	RedirectHome
)

type GuardResult struct {
	Decision    Decision
	Claims      *jwt.Claims
	ClearCookie bool
}

// Paths reachable without a session.
var publicPaths = []string{
	"/login",
	"/forgot-password",
	"/reset-password",
	"/api/v1/auth/login",
	"/api/v1/auth/forgot-password",
	"/api/v1/auth/reset-password",
}

// Path-prefix role restrictions. Superadmin passes every gate.
var roleGates = []struct {
	prefix string
	roles  []string
}{
	{"/api/v1/admin", []string{model.RoleSuperadmin}},
	{"/admin", []string{model.RoleSuperadmin}},
	{"/api/v1/finance", []string{model.RoleFinance, model.RoleSuperadmin}},
	{"/finance", []string{model.RoleFinance, model.RoleSuperadmin}},
	{"/api/v1/dealer", []string{model.RoleDealer, model.RoleSuperadmin}},
	{"/dealer", []string{model.RoleDealer, model.RoleSuperadmin}},
}

func isAPIPath(path string) bool {
	return strings.HasPrefix(path, "/api/")
}

// Evaluate decides what happens to a request before any handler runs.
func Evaluate(path, token string, validate func(string) (*jwt.Claims, error)) GuardResult {
	for _, p := range publicPaths {
		if strings.HasPrefix(path, p) {
			return GuardResult{Decision: Allow}
		}
	}

	if token == "" {
		if isAPIPath(path) {
			return GuardResult{Decision: Deny}
		}
		return GuardResult{Decision: RedirectLogin}
	}

	claims, err := validate(token)
	if err != nil {
		// Present-but-invalid token: clear it on the way out.
		if isAPIPath(path) {
			return GuardResult{Decision: Deny, ClearCookie: true}
		}
		return GuardResult{Decision: RedirectLogin, ClearCookie: true}
	}

	for _, gate := range roleGates {
		if !strings.HasPrefix(path, gate.prefix) {
			continue
		}
		if !roleAllowed(claims.Role, gate.roles) {
			if isAPIPath(path) {
				return GuardResult{Decision: Forbid, Claims: claims}
			}
			return GuardResult{Decision: RedirectHome, Claims: claims}
		}
		break
	}

	return GuardResult{Decision: Allow, Claims: claims}
}

func roleAllowed(role string, allowed []string) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}
