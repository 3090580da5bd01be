// controller/audit_controller_test.go
package controller_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	testify_mock "github.com/stretchr/testify/mock"

	"github.com/doorward-io/doorward/audit"
	"github.com/doorward-io/doorward/controller"
	logger "github.com/doorward-io/doorward/logging"
	"github.com/doorward-io/doorward/middleware"
	"github.com/doorward-io/doorward/model"
	"github.com/doorward-io/doorward/test/mock"
)

func setupAuditRouter(svc *mock.MockAuditService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/")
	controller.NewAuditController(svc).RegisterRoutes(api)
	return r
}

func TestAuditController(t *testing.T) {
	logger.InitLogger(t.TempDir())
	defer logger.Sync()

	t.Run("Admin_QueriesAnySubject", func(t *testing.T) {
		svc := &mock.MockAuditService{}
		svc.On("QueryRecords", testify_mock.Anything, testify_mock.Anything, testify_mock.Anything, "user-1").
			Return([]audit.Record{{Action: audit.ActionAccessDecision, SubjectUserID: "user-1"}}, nil)
		router := setupAuditRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/audit/records?subject_user_id=user-1", nil)
		withPrincipal(req, "admin-1", model.RoleAdmin)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var records []audit.Record
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
		assert.Len(t, records, 1)
	})

	t.Run("Admin_ExplicitTimeBoundsForwarded", func(t *testing.T) {
		from := time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC)

		svc := &mock.MockAuditService{}
		svc.On("QueryRecords", testify_mock.Anything, from, to, "").
			Return([]audit.Record{}, nil)
		router := setupAuditRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/audit/records?from=2024-06-16T00:00:00Z&to=2024-06-17T00:00:00Z", nil)
		withPrincipal(req, "admin-1", model.RoleAdmin)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("MalformedTimeBound_Returns400", func(t *testing.T) {
		svc := &mock.MockAuditService{}
		router := setupAuditRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/audit/records?from=yesterday", nil)
		withPrincipal(req, "admin-1", model.RoleAdmin)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "QueryRecords")
	})

	t.Run("Supervisor_AssignedSubject_Allowed", func(t *testing.T) {
		svc := &mock.MockAuditService{}
		svc.On("QueryRecords", testify_mock.Anything, testify_mock.Anything, testify_mock.Anything, "user-1").
			Return([]audit.Record{}, nil)
		router := setupAuditRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/audit/records?subject_user_id=user-1", nil)
		withPrincipal(req, "sup-1", model.RoleSupervisor)
		req.Header.Set(middleware.HeaderAssignedUsers, "user-1,user-2")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Supervisor_UnassignedSubject_Forbidden", func(t *testing.T) {
		svc := &mock.MockAuditService{}
		router := setupAuditRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/audit/records?subject_user_id=user-9", nil)
		withPrincipal(req, "sup-1", model.RoleSupervisor)
		req.Header.Set(middleware.HeaderAssignedUsers, "user-1,user-2")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		svc.AssertNotCalled(t, "QueryRecords")
	})

	t.Run("Supervisor_NoSubjectNamed_Forbidden", func(t *testing.T) {
		svc := &mock.MockAuditService{}
		router := setupAuditRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/audit/records", nil)
		withPrincipal(req, "sup-1", model.RoleSupervisor)
		req.Header.Set(middleware.HeaderAssignedUsers, "user-1")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("User_Forbidden", func(t *testing.T) {
		svc := &mock.MockAuditService{}
		router := setupAuditRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/audit/records?subject_user_id=user-1", nil)
		withPrincipal(req, "user-1", model.RoleUser)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		svc.AssertNotCalled(t, "QueryRecords")
	})
}
