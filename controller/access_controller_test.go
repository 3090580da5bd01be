// controller/access_controller_test.go
package controller_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	testify_mock "github.com/stretchr/testify/mock"

	"github.com/doorward-io/doorward/actuator"
	"github.com/doorward-io/doorward/controller"
	doorward_errors "github.com/doorward-io/doorward/errors"
	logger "github.com/doorward-io/doorward/logging"
	"github.com/doorward-io/doorward/middleware"
	"github.com/doorward-io/doorward/model"
	"github.com/doorward-io/doorward/test/mock"
)

func setupAccessRouter(svc *mock.MockAccessService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/")
	controller.NewAccessController(svc).RegisterRoutes(api)
	return r
}

func withPrincipal(req *http.Request, userID string, role model.Role) {
	req.Header.Set(middleware.HeaderUserID, userID)
	req.Header.Set(middleware.HeaderRole, string(role))
	req.Header.Set(middleware.HeaderDeviceTrusted, "true")
	req.Header.Set(middleware.HeaderSessionValid, "true")
}

func TestAccessController(t *testing.T) {
	logger.InitLogger(t.TempDir())
	defer logger.Sync()

	t.Run("SubmitRequest_Approved_Returns202", func(t *testing.T) {
		svc := &mock.MockAccessService{}
		svc.On("Submit", testify_mock.Anything, testify_mock.Anything, testify_mock.Anything).
			Return(model.AccessEvent{EventID: "ev-1", State: model.StateApprovedAwaitingActuator}, nil)
		router := setupAccessRouter(svc)

		body := strings.NewReader(`{"location":{"lat":52.52,"lon":13.405,"accuracy_m":10}}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/access/requests", body)
		withPrincipal(req, "user-1", model.RoleUser)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusAccepted, w.Code)

		var event model.AccessEvent
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &event))
		assert.Equal(t, "ev-1", event.EventID)
	})

	t.Run("SubmitRequest_TerminalRejection_Returns200", func(t *testing.T) {
		svc := &mock.MockAccessService{}
		svc.On("Submit", testify_mock.Anything, testify_mock.Anything, testify_mock.Anything).
			Return(model.AccessEvent{EventID: "ev-1", State: model.StateOutOfArea}, nil)
		router := setupAccessRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/access/requests", nil)
		withPrincipal(req, "user-1", model.RoleUser)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("SubmitRequest_MissingPrincipalHeaders_Returns401", func(t *testing.T) {
		svc := &mock.MockAccessService{}
		router := setupAccessRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/access/requests", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		svc.AssertNotCalled(t, "Submit")
	})

	t.Run("SubmitRequest_UnknownRole_Returns401", func(t *testing.T) {
		svc := &mock.MockAccessService{}
		router := setupAccessRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/access/requests", nil)
		withPrincipal(req, "user-1", model.Role("janitor"))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("GetEventStatus_Found_Returns200", func(t *testing.T) {
		svc := &mock.MockAccessService{}
		svc.On("Status", testify_mock.Anything, "ev-1").
			Return(model.AccessEvent{EventID: "ev-1", State: model.StateCorrect}, nil)
		router := setupAccessRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/access/events/ev-1", nil)
		withPrincipal(req, "user-1", model.RoleUser)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("GetEventStatus_Unknown_Returns404", func(t *testing.T) {
		svc := &mock.MockAccessService{}
		svc.On("Status", testify_mock.Anything, "missing").
			Return(model.AccessEvent{}, doorward_errors.ErrUnknownEvent)
		router := setupAccessRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/access/events/missing", nil)
		withPrincipal(req, "user-1", model.RoleUser)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("ActuatorCallback_Applied_Returns200", func(t *testing.T) {
		svc := &mock.MockAccessService{}
		svc.On("HandleActuatorCallback", testify_mock.Anything, "ev-1", actuator.OutcomeSuccess).
			Return(model.AccessEvent{EventID: "ev-1", State: model.StateCorrect}, true, nil)
		router := setupAccessRouter(svc)

		// No principal headers: the actuator authenticates out of band.
		body := strings.NewReader(`{"event_id":"ev-1","outcome":"success"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/actuator/callbacks", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Applied bool              `json:"applied"`
			Event   model.AccessEvent `json:"event"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Applied)
	})

	t.Run("ActuatorCallback_LateCallback_AcknowledgedNotApplied", func(t *testing.T) {
		svc := &mock.MockAccessService{}
		svc.On("HandleActuatorCallback", testify_mock.Anything, "ev-1", actuator.OutcomeSuccess).
			Return(model.AccessEvent{EventID: "ev-1", State: model.StateActuatorTimeout}, false, nil)
		router := setupAccessRouter(svc)

		body := strings.NewReader(`{"event_id":"ev-1","outcome":"success"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/actuator/callbacks", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Applied bool `json:"applied"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Applied)
	})

	t.Run("ActuatorCallback_InvalidOutcome_Returns400", func(t *testing.T) {
		svc := &mock.MockAccessService{}
		svc.On("HandleActuatorCallback", testify_mock.Anything, "ev-1", actuator.Outcome("jammed")).
			Return(model.AccessEvent{}, false, doorward_errors.ErrInvalidOutcome)
		router := setupAccessRouter(svc)

		body := strings.NewReader(`{"event_id":"ev-1","outcome":"jammed"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/actuator/callbacks", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("ActuatorCallback_MissingEventID_Returns400", func(t *testing.T) {
		svc := &mock.MockAccessService{}
		router := setupAccessRouter(svc)

		body := strings.NewReader(`{"outcome":"success"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/actuator/callbacks", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "HandleActuatorCallback")
	})
}
