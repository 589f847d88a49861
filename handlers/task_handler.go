package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/talentboard/backend/app"
	"github.com/talentboard/backend/middleware"
	"github.com/talentboard/backend/utils"
)

// CreateTaskRequest is the body for task creation
type CreateTaskRequest struct {
	TaskText string `json:"task_text" validate:"required,min=1,max=500"`
	Status   string `json:"status" validate:"omitempty,max=50"`
}

// ListTasksHandler lists the tasks of the user named in the path. Owners and
// admins see them always; staff see Candidate-owned tasks only.
func ListTasksHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := middleware.IdentityFromContext(r.Context())
		if identity == nil {
			_ = utils.WriteUnauthorized(w, "Authentication required")
			return
		}

		ownerSub := chi.URLParam(r, "userID")

		tasks, err := deps.TaskService.ListFor(r.Context(), *identity, ownerSub)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		_ = utils.WriteOK(w, tasks)
	}
}

// CreateTaskHandler adds a task owned by the caller
func CreateTaskHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := middleware.IdentityFromContext(r.Context())
		if identity == nil {
			_ = utils.WriteUnauthorized(w, "Authentication required")
			return
		}

		var req CreateTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			_ = utils.WriteBadRequest(w, "Invalid request body", nil)
			return
		}
		if err := utils.ValidateStruct(req); err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		task, err := deps.TaskService.Create(r.Context(), *identity, req.TaskText, req.Status)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		_ = utils.WriteCreated(w, task)
	}
}

// DeleteTaskHandler removes a task (owner or admin)
func DeleteTaskHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := middleware.IdentityFromContext(r.Context())
		if identity == nil {
			_ = utils.WriteUnauthorized(w, "Authentication required")
			return
		}

		taskID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			_ = utils.WriteBadRequest(w, "Invalid task id", nil)
			return
		}

		if err := deps.TaskService.Delete(r.Context(), *identity, taskID); err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		_ = utils.WriteOK(w, map[string]interface{}{
			"message": "Task deleted successfully",
		})
	}
}
