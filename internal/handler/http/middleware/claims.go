package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
)

// TenantID extracts the tenant claim from the verified token.
func TenantID(r *http.Request) string {
	return stringClaim(r, "tenant_id")
}

// ActorID extracts the subject (acting user) from the verified token.
func ActorID(r *http.Request) string {
	return stringClaim(r, "sub")
}

// Role extracts the role claim from the verified token.
func Role(r *http.Request) string {
	return stringClaim(r, "role")
}

func stringClaim(r *http.Request, key string) string {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return ""
	}
	v, _ := claims[key].(string)
	return v
}
