package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/workpulse-hq/timetrack-backend-go/internal/handler/http/response"
)

const (
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleClient     = "client"
	RoleContractor = "contractor"
)

// RequireManager requires manager or admin role
func RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role := roleFromContext(r)
		if role != RoleManager && role != RoleAdmin {
			response.Forbidden(w, "Manager access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireApprover requires a role allowed to decide entries: manager,
// admin, or client. Per-entry client authorization happens in the
// approval service, which checks the project's named approvers.
func RequireApprover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role := roleFromContext(r)
		if role != RoleManager && role != RoleAdmin && role != RoleClient {
			response.Forbidden(w, "Approver access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin requires admin role
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if roleFromContext(r) != RoleAdmin {
			response.Forbidden(w, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func roleFromContext(r *http.Request) string {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return ""
	}
	role, _ := claims["role"].(string)
	return role
}
