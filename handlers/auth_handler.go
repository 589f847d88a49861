package handlers

import (
	"net/http"

	"github.com/talentboard/backend/app"
	"github.com/talentboard/backend/middleware"
	"github.com/talentboard/backend/utils"
)

// SyncUserHandler reports the role in effect for the caller.
//
// The actual sync happens in the authentication gate, once per request, so by
// the time this handler runs the user record already exists and the resolved
// identity carries the authoritative role. Clients call this after login to
// learn which UI to show.
func SyncUserHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := middleware.IdentityFromContext(r.Context())
		if identity == nil {
			_ = utils.WriteUnauthorized(w, "Authentication required")
			return
		}

		_ = utils.WriteOK(w, map[string]interface{}{
			"role": identity.Role,
		})
	}
}

// GetCurrentUserHandler returns the caller's resolved identity
func GetCurrentUserHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := middleware.IdentityFromContext(r.Context())
		if identity == nil {
			_ = utils.WriteUnauthorized(w, "Authentication required")
			return
		}

		_ = utils.WriteOK(w, map[string]interface{}{
			"subject_id":   identity.SubjectID,
			"email":        identity.Email,
			"display_name": identity.DisplayName,
			"role":         identity.Role,
			"groups":       identity.Groups,
		})
	}
}
