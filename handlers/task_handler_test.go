package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/talentboard/backend/authz"
	"github.com/talentboard/backend/models"
	"github.com/talentboard/backend/repositories"
)

func TestListTasksHandler_OwnTasks(t *testing.T) {
	tasks := new(MockTaskRepository)
	deps := testDeps(new(MockUserRepository), tasks)

	tasks.On("ListByOwner", mock.Anything, "sub-cand").
		Return([]*models.Task{
			{ID: uuid.New(), OwnerSub: "sub-cand", Text: "apply to job", Status: "Personal"},
		}, nil)

	rec := serveAs(candidateIdentity(), http.MethodGet, "/tasks/{userID}", "/tasks/sub-cand", nil, ListTasksHandler(deps))

	assert.Equal(t, http.StatusOK, rec.Code)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	data := response["data"].([]interface{})
	require.Len(t, data, 1)
	first := data[0].(map[string]interface{})
	assert.Equal(t, "apply to job", first["task_text"])
	tasks.AssertExpectations(t)
}

func TestListTasksHandler_OtherCandidateForbidden(t *testing.T) {
	users := new(MockUserRepository)
	tasks := new(MockTaskRepository)
	deps := testDeps(users, tasks)

	users.On("FindBySubject", mock.Anything, "sub-other").
		Return(&models.User{CognitoSub: "sub-other", Role: authz.RoleCandidate}, nil)

	rec := serveAs(candidateIdentity(), http.MethodGet, "/tasks/{userID}", "/tasks/sub-other", nil, ListTasksHandler(deps))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	tasks.AssertNotCalled(t, "ListByOwner")
}

func TestListTasksHandler_StaffViewsCandidate(t *testing.T) {
	users := new(MockUserRepository)
	tasks := new(MockTaskRepository)
	deps := testDeps(users, tasks)

	users.On("FindBySubject", mock.Anything, "sub-cand").
		Return(&models.User{CognitoSub: "sub-cand", Role: authz.RoleCandidate}, nil)
	tasks.On("ListByOwner", mock.Anything, "sub-cand").Return([]*models.Task{}, nil)

	rec := serveAs(employeeIdentity(), http.MethodGet, "/tasks/{userID}", "/tasks/sub-cand", nil, ListTasksHandler(deps))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateTaskHandler_Success(t *testing.T) {
	tasks := new(MockTaskRepository)
	deps := testDeps(new(MockUserRepository), tasks)

	tasks.On("Create", mock.Anything, mock.MatchedBy(func(task *models.Task) bool {
		return task.OwnerSub == "sub-cand" && task.Text == "prepare interview"
	})).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/tasks",
		strings.NewReader(`{"task_text":"prepare interview"}`))
	rec := serveAs(candidateIdentity(), http.MethodPost, "/tasks", "", req, CreateTaskHandler(deps))

	assert.Equal(t, http.StatusCreated, rec.Code)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "prepare interview", data["task_text"])
	// Tasks are always created under the caller's identity
	assert.Equal(t, "sub-cand", data["user_id"])
	assert.Equal(t, models.DefaultTaskStatus, data["status"])
	tasks.AssertExpectations(t)
}

func TestCreateTaskHandler_MissingText(t *testing.T) {
	tasks := new(MockTaskRepository)
	deps := testDeps(new(MockUserRepository), tasks)

	req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(`{"task_text":""}`))
	rec := serveAs(candidateIdentity(), http.MethodPost, "/tasks", "", req, CreateTaskHandler(deps))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	tasks.AssertNotCalled(t, "Create")
}

func TestCreateTaskHandler_WhitespaceText(t *testing.T) {
	tasks := new(MockTaskRepository)
	deps := testDeps(new(MockUserRepository), tasks)

	// Passes the length validation but fails the service's trim check
	req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(`{"task_text":"   "}`))
	rec := serveAs(candidateIdentity(), http.MethodPost, "/tasks", "", req, CreateTaskHandler(deps))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	tasks.AssertNotCalled(t, "Create")
}

func TestCreateTaskHandler_MalformedBody(t *testing.T) {
	deps := testDeps(new(MockUserRepository), new(MockTaskRepository))

	req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(`not json`))
	rec := serveAs(candidateIdentity(), http.MethodPost, "/tasks", "", req, CreateTaskHandler(deps))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteTaskHandler_Owner(t *testing.T) {
	tasks := new(MockTaskRepository)
	deps := testDeps(new(MockUserRepository), tasks)

	taskID := uuid.New()
	tasks.On("GetByID", mock.Anything, taskID).
		Return(&models.Task{ID: taskID, OwnerSub: "sub-cand"}, nil)
	tasks.On("Delete", mock.Anything, taskID).Return(nil)

	rec := serveAs(candidateIdentity(), http.MethodDelete, "/tasks/{id}", "/tasks/"+taskID.String(), nil, DeleteTaskHandler(deps))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Task deleted successfully")
	tasks.AssertExpectations(t)
}

func TestDeleteTaskHandler_NotOwnerForbidden(t *testing.T) {
	tasks := new(MockTaskRepository)
	deps := testDeps(new(MockUserRepository), tasks)

	taskID := uuid.New()
	tasks.On("GetByID", mock.Anything, taskID).
		Return(&models.Task{ID: taskID, OwnerSub: "sub-other"}, nil)

	rec := serveAs(employeeIdentity(), http.MethodDelete, "/tasks/{id}", "/tasks/"+taskID.String(), nil, DeleteTaskHandler(deps))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	tasks.AssertNotCalled(t, "Delete")
}

func TestDeleteTaskHandler_InvalidID(t *testing.T) {
	deps := testDeps(new(MockUserRepository), new(MockTaskRepository))

	rec := serveAs(candidateIdentity(), http.MethodDelete, "/tasks/{id}", "/tasks/not-a-uuid", nil, DeleteTaskHandler(deps))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid task id")
}

func TestDeleteTaskHandler_NotFound(t *testing.T) {
	tasks := new(MockTaskRepository)
	deps := testDeps(new(MockUserRepository), tasks)

	taskID := uuid.New()
	tasks.On("GetByID", mock.Anything, taskID).Return(nil, repositories.ErrNotFound)

	rec := serveAs(candidateIdentity(), http.MethodDelete, "/tasks/{id}", "/tasks/"+taskID.String(), nil, DeleteTaskHandler(deps))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
