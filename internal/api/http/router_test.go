package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/didnumber-service/internal/api/http/handlers"
	"github.com/spec-kit/didnumber-service/internal/auth"
	"github.com/spec-kit/didnumber-service/internal/config"
	"github.com/spec-kit/didnumber-service/internal/events"
	"github.com/spec-kit/didnumber-service/internal/observability"
	"github.com/spec-kit/didnumber-service/internal/repository/repotest"
	"github.com/spec-kit/didnumber-service/internal/service"
)

type testServer struct {
	app        *fiber.App
	employees  *repotest.EmployeeStore
	didNumbers *repotest.DidNumberStore
	dids       *service.DidNumberService
	metrics    *observability.Metrics
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := config.Config{
		App:       config.AppConfig{Name: "didnumber-service", Version: "test"},
		Auth:      config.AuthConfig{BcryptCost: bcrypt.MinCost},
		Session:   config.SessionConfig{TTLMinutes: 5, CookieName: "session_id"},
		Inventory: config.InventoryConfig{DefaultPageSize: 20, MaxPageSize: 100},
	}
	logger := zap.NewNop()
	employees := repotest.NewEmployeeStore()
	didNumbers := repotest.NewDidNumberStore()
	dispatcher := events.NewInMemoryDispatcher()
	service.NewAuditService(dispatcher, logger).RegisterHandlers()

	sessions := auth.NewSessionManager(cfg.Session, nil)
	authService := service.NewAuthService(cfg, service.AuthDependencies{EmployeeRepo: employees, Dispatcher: dispatcher, Logger: logger})
	didService := service.NewDidNumberService(cfg.Inventory, service.DidNumberDependencies{DidNumberRepo: didNumbers, Dispatcher: dispatcher, Logger: logger})
	metrics := observability.NewMetrics()

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("didnumber-service", "test", map[string]handlers.Pinger{"postgres": stubPinger{}}, metrics, logger),
		Auth:           handlers.NewAuthHandler(authService, sessions),
		DidNumbers:     handlers.NewDidNumbersHandler(didService),
		Employees:      handlers.NewEmployeesHandler(service.NewEmployeeService(employees)),
		AuthMiddleware: auth.NewAuthMiddleware(sessions, employees),
	})
	return &testServer{app: app, employees: employees, didNumbers: didNumbers, dids: didService, metrics: metrics}
}

type result struct {
	status int
	body   map[string]any
	list   []any
	cookie *nethttp.Cookie
}

func (s *testServer) do(t *testing.T, method, path string, payload any, cookie *nethttp.Cookie) result {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := result{status: resp.StatusCode}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		if raw[0] == '[' {
			require.NoError(t, json.Unmarshal(raw, &out.list))
		} else {
			require.NoError(t, json.Unmarshal(raw, &out.body), string(raw))
		}
	}
	for _, c := range resp.Cookies() {
		if c.Name == "session_id" && c.Value != "" {
			out.cookie = c
		}
	}
	return out
}

func signupPayload(username string, admin bool) map[string]any {
	return map[string]any{
		"email":      username + "@admin.com",
		"username":   username,
		"first_name": "First Name",
		"last_name":  "Last Name",
		"password":   username,
		"is_admin":   admin,
	}
}

func (s *testServer) login(t *testing.T, username string, admin bool) *nethttp.Cookie {
	t.Helper()
	res := s.do(t, "POST", "/signup", signupPayload(username, admin), nil)
	require.Equal(t, nethttp.StatusCreated, res.status)
	res = s.do(t, "POST", "/login", map[string]any{"email": username + "@admin.com", "password": username}, nil)
	require.Equal(t, nethttp.StatusOK, res.status)
	require.NotNil(t, res.cookie)
	return res.cookie
}

func didPayload(value string) map[string]any {
	return map[string]any{
		"value":        value,
		"monthlyPrice": 0.03,
		"setupPrice":   "3.40",
		"currency":     "U$",
	}
}

func TestFullScenario(t *testing.T) {
	s := newTestServer(t)

	res := s.do(t, "POST", "/signup", signupPayload("admin", true), nil)
	require.Equal(t, nethttp.StatusCreated, res.status)
	assert.Equal(t, "admin", res.body["username"])
	assert.Equal(t, true, res.body["is_admin"])
	assert.NotContains(t, res.body, "password")
	assert.NotContains(t, res.body, "password_hash")

	res = s.do(t, "POST", "/register", signupPayload("admin", true), nil)
	assert.Equal(t, nethttp.StatusForbidden, res.status)
	assert.Equal(t, "admin@admin.com is already in use.", res.body["error"])
	assert.Equal(t, 1, s.employees.Len())

	res = s.do(t, "POST", "/login", map[string]any{"email": "admin@admin.com", "password": "wrong"}, nil)
	assert.Equal(t, nethttp.StatusUnauthorized, res.status)
	assert.Nil(t, res.cookie)

	res = s.do(t, "POST", "/login", map[string]any{"email": "admin@admin.com", "password": "admin"}, nil)
	require.Equal(t, nethttp.StatusOK, res.status)
	require.NotNil(t, res.cookie)
	assert.True(t, res.cookie.HttpOnly)
	assert.Equal(t, "admin@admin.com", res.body["email"])
	assert.NotContains(t, res.body, "password_hash")
	cookie := res.cookie

	res = s.do(t, "GET", "/didnumbers", nil, cookie)
	require.Equal(t, nethttp.StatusOK, res.status)
	assert.Equal(t, handlers.NoDidNumbersMessage, res.body["message"])

	res = s.do(t, "POST", "/didnumbers/add", didPayload("+55 84 91234-4321"), cookie)
	require.Equal(t, nethttp.StatusCreated, res.status)
	id := int64(res.body["id"].(float64))
	assert.Equal(t, "0.03", res.body["monthlyPrice"])
	assert.Equal(t, "3.4", res.body["setupPrice"])

	res = s.do(t, "POST", "/didnumbers/add", didPayload("+55 84 91234-4321"), cookie)
	assert.Equal(t, nethttp.StatusConflict, res.status)
	assert.Equal(t, "CONFLICT", res.body["code"])

	res = s.do(t, "GET", "/didnumbers", nil, cookie)
	require.Equal(t, nethttp.StatusOK, res.status)
	assert.Equal(t, float64(1), res.body["count"])

	edit := didPayload("+55 84 91234-1234")
	edit["currency"] = "brl"
	res = s.do(t, "PUT", fmt.Sprintf("/didnumbers/edit/%d", id), edit, cookie)
	require.Equal(t, nethttp.StatusOK, res.status)
	assert.Equal(t, "+55 84 91234-1234", res.body["value"])
	assert.Equal(t, "BRL", res.body["currency"])

	res = s.do(t, "GET", fmt.Sprintf("/didnumbers/%d", id), nil, cookie)
	require.Equal(t, nethttp.StatusOK, res.status)
	assert.Equal(t, "+55 84 91234-1234", res.body["value"])

	res = s.do(t, "DELETE", fmt.Sprintf("/didnumbers/delete/%d", id), nil, cookie)
	require.Equal(t, nethttp.StatusOK, res.status)
	assert.Equal(t, "The DID number has successfully been deleted.", res.body["message"])

	res = s.do(t, "GET", fmt.Sprintf("/didnumbers/%d", id), nil, cookie)
	assert.Equal(t, nethttp.StatusNotFound, res.status)

	res = s.do(t, "GET", "/logout", nil, cookie)
	require.Equal(t, nethttp.StatusOK, res.status)
	assert.Equal(t, "You have successfully been logged out.", res.body["message"])

	res = s.do(t, "GET", "/didnumbers", nil, cookie)
	assert.Equal(t, nethttp.StatusUnauthorized, res.status)
	assert.Equal(t, auth.LoginRequiredMessage, res.body["error"])

	res = s.do(t, "POST", "/logout", nil, cookie)
	assert.Equal(t, nethttp.StatusUnauthorized, res.status)
}

func TestSignupMissingField(t *testing.T) {
	s := newTestServer(t)

	payload := signupPayload("admin", true)
	delete(payload, "is_admin")
	delete(payload, "email")
	res := s.do(t, "POST", "/signup", payload, nil)
	assert.Equal(t, nethttp.StatusBadRequest, res.status)
	assert.Equal(t, "missing required fields: email, is_admin", res.body["error"])
	assert.Equal(t, 0, s.employees.Len())

	res = s.do(t, "POST", "/login", map[string]any{"email": "admin@admin.com"}, nil)
	assert.Equal(t, nethttp.StatusBadRequest, res.status)
}

func TestSignupNonAdminIsAllowed(t *testing.T) {
	s := newTestServer(t)
	res := s.do(t, "POST", "/signup", signupPayload("non-admin", false), nil)
	require.Equal(t, nethttp.StatusCreated, res.status)
	assert.Equal(t, false, res.body["is_admin"])
}

func TestAnonymousIsRejected(t *testing.T) {
	s := newTestServer(t)
	for _, route := range [][2]string{
		{"GET", "/didnumbers"},
		{"GET", "/didnumbers/page/2"},
		{"GET", "/didnumbers/1"},
		{"POST", "/didnumbers/add"},
		{"PUT", "/didnumbers/edit/1"},
		{"DELETE", "/didnumbers/delete/1"},
		{"GET", "/employees"},
		{"GET", "/employees/1"},
		{"GET", "/logout"},
	} {
		res := s.do(t, route[0], route[1], nil, nil)
		assert.Equal(t, nethttp.StatusUnauthorized, res.status, route[1])
	}
}

func TestNonAdminIsForbidden(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", true)
	res := s.do(t, "POST", "/didnumbers/add", didPayload("+55 84 91234-4321"), admin)
	require.Equal(t, nethttp.StatusCreated, res.status)
	id := int64(res.body["id"].(float64))

	cookie := s.login(t, "non-admin", false)

	res = s.do(t, "PUT", fmt.Sprintf("/didnumbers/edit/%d", id), didPayload("+55 84 91234-0000"), cookie)
	assert.Equal(t, nethttp.StatusForbidden, res.status)
	assert.Equal(t, auth.NotAdminMessage, res.body["error"])

	res = s.do(t, "PUT", fmt.Sprintf("/didnumbers/edit/%d", id), map[string]any{}, cookie)
	assert.Equal(t, nethttp.StatusForbidden, res.status)

	res = s.do(t, "DELETE", fmt.Sprintf("/didnumbers/delete/%d", id), nil, cookie)
	assert.Equal(t, nethttp.StatusForbidden, res.status)

	res = s.do(t, "GET", "/employees", nil, cookie)
	assert.Equal(t, nethttp.StatusForbidden, res.status)

	res = s.do(t, "GET", fmt.Sprintf("/didnumbers/%d", id), nil, cookie)
	require.Equal(t, nethttp.StatusOK, res.status)
	assert.Equal(t, "+55 84 91234-4321", res.body["value"])

	res = s.do(t, "POST", "/didnumbers/add", didPayload("+55 84 91234-9999"), cookie)
	assert.Equal(t, nethttp.StatusCreated, res.status)
}

func TestEditConflictKeepsRecord(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, "admin", true)

	first := s.do(t, "POST", "/didnumbers/add", didPayload("+55 84 91234-0001"), cookie)
	require.Equal(t, nethttp.StatusCreated, first.status)
	second := s.do(t, "POST", "/didnumbers/add", didPayload("+55 84 91234-0002"), cookie)
	require.Equal(t, nethttp.StatusCreated, second.status)

	path := fmt.Sprintf("/didnumbers/edit/%d", int64(second.body["id"].(float64)))
	res := s.do(t, "PUT", path, didPayload("+55 84 91234-0001"), cookie)
	assert.Equal(t, nethttp.StatusConflict, res.status)

	res = s.do(t, "GET", fmt.Sprintf("/didnumbers/%d", int64(second.body["id"].(float64))), nil, cookie)
	require.Equal(t, nethttp.StatusOK, res.status)
	assert.Equal(t, "+55 84 91234-0002", res.body["value"])
}

func TestEditAndDeleteEdgeCases(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, "admin", true)

	res := s.do(t, "PUT", "/didnumbers/edit/99", map[string]any{}, cookie)
	assert.Equal(t, nethttp.StatusNotFound, res.status)

	res = s.do(t, "PUT", "/didnumbers/edit/abc", didPayload("+55 84 91234-0001"), cookie)
	assert.Equal(t, nethttp.StatusBadRequest, res.status)

	res = s.do(t, "DELETE", "/didnumbers/delete/99", nil, cookie)
	assert.Equal(t, nethttp.StatusNotFound, res.status)

	added := s.do(t, "POST", "/didnumbers/add", didPayload("+55 84 91234-0001"), cookie)
	require.Equal(t, nethttp.StatusCreated, added.status)
	id := int64(added.body["id"].(float64))

	payload := didPayload("+55 84 91234-0001")
	delete(payload, "setupPrice")
	res = s.do(t, "PUT", fmt.Sprintf("/didnumbers/edit/%d", id), payload, cookie)
	assert.Equal(t, nethttp.StatusBadRequest, res.status)
	assert.Equal(t, "missing required fields: setupPrice", res.body["error"])

	res = s.do(t, "PUT", fmt.Sprintf("/didnumbers/edit/%d", id), didPayload("not a number"), cookie)
	assert.Equal(t, nethttp.StatusBadRequest, res.status)

	precise := didPayload("+55 84 91234-0001")
	precise["setupPrice"] = "0.123456"
	res = s.do(t, "PUT", fmt.Sprintf("/didnumbers/edit/%d", id), precise, cookie)
	assert.Equal(t, nethttp.StatusBadRequest, res.status)

	huge := didPayload("+55 84 91234-0002")
	huge["monthlyPrice"] = 1000000
	res = s.do(t, "POST", "/didnumbers/add", huge, cookie)
	assert.Equal(t, nethttp.StatusBadRequest, res.status)

	longSignup := signupPayload("someone", false)
	longSignup["first_name"] = strings.Repeat("f", 61)
	res = s.do(t, "POST", "/signup", longSignup, nil)
	assert.Equal(t, nethttp.StatusBadRequest, res.status)
	assert.Equal(t, "first_name must be at most 60 characters", res.body["error"])

	s.didNumbers.BeforeDelete = func(id int64) { s.didNumbers.Remove(id) }
	res = s.do(t, "DELETE", fmt.Sprintf("/didnumbers/delete/%d", id), nil, cookie)
	assert.Equal(t, nethttp.StatusConflict, res.status)
}

func TestPagination(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, "admin", true)
	for i := 1; i <= 25; i++ {
		_, err := s.dids.Add(context.Background(), 1, service.DidNumberInput{
			Value:        fmt.Sprintf("+55 84 9123-%04d", i),
			MonthlyPrice: decimal.RequireFromString("0.03"),
			SetupPrice:   decimal.RequireFromString("3.40"),
			Currency:     "U$",
		})
		require.NoError(t, err)
	}

	res := s.do(t, "GET", "/didnumbers", nil, cookie)
	require.Equal(t, nethttp.StatusOK, res.status)
	assert.Len(t, res.body["items"], 20)
	assert.Equal(t, float64(1), res.body["start"])
	assert.Equal(t, float64(20), res.body["limit"])
	assert.Equal(t, float64(25), res.body["count"])
	assert.Equal(t, "", res.body["previous_link"])
	assert.Equal(t, "/didnumbers/page/2", res.body["next_link"])

	res = s.do(t, "GET", "/didnumbers/page/2", nil, cookie)
	require.Equal(t, nethttp.StatusOK, res.status)
	assert.Len(t, res.body["items"], 5)
	assert.Equal(t, float64(21), res.body["start"])
	assert.Equal(t, "/didnumbers/page/1", res.body["previous_link"])
	assert.Equal(t, "", res.body["next_link"])

	res = s.do(t, "GET", "/didnumbers/page/2?per_page=10", nil, cookie)
	require.Equal(t, nethttp.StatusOK, res.status)
	assert.Len(t, res.body["items"], 10)
	assert.Equal(t, "/didnumbers/page/1?per_page=10", res.body["previous_link"])
	assert.Equal(t, "/didnumbers/page/3?per_page=10", res.body["next_link"])

	res = s.do(t, "GET", "/didnumbers/page/3", nil, cookie)
	assert.Equal(t, nethttp.StatusNotFound, res.status)

	res = s.do(t, "GET", "/didnumbers/page/9223372036854775807", nil, cookie)
	assert.Equal(t, nethttp.StatusNotFound, res.status)
	assert.Equal(t, "NOT_FOUND", res.body["code"])

	res = s.do(t, "GET", "/didnumbers/page/4611686018427387905?per_page=4", nil, cookie)
	assert.Equal(t, nethttp.StatusNotFound, res.status)
	assert.NotContains(t, res.body, "items")

	res = s.do(t, "GET", "/didnumbers/page/99999999999999999999", nil, cookie)
	assert.Equal(t, nethttp.StatusBadRequest, res.status)

	res = s.do(t, "GET", "/didnumbers/page/zero", nil, cookie)
	assert.Equal(t, nethttp.StatusBadRequest, res.status)

	res = s.do(t, "GET", "/didnumbers?per_page=1000", nil, cookie)
	assert.Equal(t, nethttp.StatusBadRequest, res.status)
}

func TestEmployeeDirectory(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, "admin", true)
	res := s.do(t, "POST", "/signup", signupPayload("non-admin", false), nil)
	require.Equal(t, nethttp.StatusCreated, res.status)

	res = s.do(t, "GET", "/employees", nil, cookie)
	require.Equal(t, nethttp.StatusOK, res.status)
	require.Len(t, res.list, 2)
	second := res.list[1].(map[string]any)
	assert.Equal(t, "non-admin", second["username"])
	assert.NotContains(t, second, "password_hash")

	res = s.do(t, "GET", "/employees/2", nil, cookie)
	require.Equal(t, nethttp.StatusOK, res.status)
	assert.Equal(t, "non-admin@admin.com", res.body["email"])

	res = s.do(t, "GET", "/employees/42", nil, cookie)
	assert.Equal(t, nethttp.StatusNotFound, res.status)
	assert.Equal(t, "employee not found", res.body["error"])
}

func TestRemovedEmployeeLosesSession(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, "admin", true)
	s.employees.Remove(1)

	res := s.do(t, "GET", "/didnumbers", nil, cookie)
	assert.Equal(t, nethttp.StatusUnauthorized, res.status)
}

func TestStoreFailureIsInternal(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, "admin", true)
	s.didNumbers.Err = errors.New("connection reset")

	res := s.do(t, "GET", "/didnumbers", nil, cookie)
	assert.Equal(t, nethttp.StatusInternalServerError, res.status)
	assert.Equal(t, "internal server error", res.body["error"])
	assert.Equal(t, "INTERNAL_ERROR", res.body["code"])
}

func TestUnknownRouteAndHealth(t *testing.T) {
	s := newTestServer(t)

	res := s.do(t, "GET", "/nowhere", nil, nil)
	assert.Equal(t, nethttp.StatusNotFound, res.status)
	assert.Equal(t, "NOT_FOUND", res.body["code"])

	res = s.do(t, "GET", "/health/live", nil, nil)
	require.Equal(t, nethttp.StatusOK, res.status)
	assert.Equal(t, "alive", res.body["status"])

	res = s.do(t, "GET", "/health/ready", nil, nil)
	require.Equal(t, nethttp.StatusOK, res.status)
	assert.Equal(t, "ready", res.body["status"])

	res = s.do(t, "GET", "/health/metrics", nil, nil)
	require.Equal(t, nethttp.StatusOK, res.status)
	requests := res.body["requests"].(map[string]any)
	assert.Equal(t, float64(1), requests["/health/live|GET|200"])
}
