package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/talentboard/backend/app"
	"github.com/talentboard/backend/middleware"
	"github.com/talentboard/backend/utils"
)

// UpdateRoleRequest is the body for role updates
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// ListUsersHandler lists the users visible to the caller. Staff-tier callers
// see Candidate users only; admins see everyone.
func ListUsersHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := middleware.IdentityFromContext(r.Context())
		if identity == nil {
			_ = utils.WriteUnauthorized(w, "Authentication required")
			return
		}

		users, err := deps.UserService.List(r.Context(), *identity)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		_ = utils.WriteOK(w, users)
	}
}

// UpdateUserRoleHandler sets the stored role for a target user (admin only,
// never on oneself)
func UpdateUserRoleHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := middleware.IdentityFromContext(r.Context())
		if identity == nil {
			_ = utils.WriteUnauthorized(w, "Authentication required")
			return
		}

		targetSub := chi.URLParam(r, "id")

		var req UpdateRoleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			_ = utils.WriteBadRequest(w, "Invalid request body", nil)
			return
		}
		if err := utils.ValidateStruct(req); err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		role, err := deps.UserService.UpdateRole(r.Context(), *identity, targetSub, req.Role)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		_ = utils.WriteOK(w, map[string]interface{}{
			"role": role,
		})
	}
}

// DeleteUserHandler removes a user (admin only, never on oneself)
func DeleteUserHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := middleware.IdentityFromContext(r.Context())
		if identity == nil {
			_ = utils.WriteUnauthorized(w, "Authentication required")
			return
		}

		targetSub := chi.URLParam(r, "id")

		if err := deps.UserService.Delete(r.Context(), *identity, targetSub); err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		utils.WriteNoContent(w)
	}
}
