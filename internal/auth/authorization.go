package auth

import (
	"net/http"

	"github.com/crossdept/feedback-platform/internal"
)

// RequireAdmin gates catalog and user management routes. Role is read from
// the stored user record on every request, so demoting an admin takes
// effect without waiting for their token to expire.
func (h *Handler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := internal.UserIDFromContext(r.Context())
		if userID == 0 {
			h.WriteError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		u, err := h.Users.GetUserByID(userID)
		if err != nil {
			h.WriteError(w, http.StatusUnauthorized, "user not found")
			return
		}

		if !u.IsAdmin() {
			h.Logger.Warn("admin route denied", "user_id", userID, "role", u.Role)
			h.WriteError(w, http.StatusForbidden, "admin role required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
