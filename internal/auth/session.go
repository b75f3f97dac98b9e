package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"

	"github.com/spec-kit/didnumber-service/internal/config"
)

const employeeIDKey = "employee_id"

// SessionManager binds requests to an employee through a server-side session.
// The cookie only carries an opaque random id.
type SessionManager struct {
	store *session.Store
}

// NewSessionManager builds the manager. A nil storage keeps sessions in memory.
func NewSessionManager(cfg config.SessionConfig, storage fiber.Storage) *SessionManager {
	cookieName := cfg.CookieName
	if cookieName == "" {
		cookieName = "session_id"
	}
	store := session.New(session.Config{
		Expiration:     cfg.TTL(),
		Storage:        storage,
		KeyLookup:      "cookie:" + cookieName,
		CookieHTTPOnly: true,
		CookieSecure:   cfg.CookieSecure,
		CookieSameSite: "Lax",
		KeyGenerator:   uuid.NewString,
	})
	return &SessionManager{store: store}
}

// Begin starts an authenticated session for employeeID under a fresh session id.
func (m *SessionManager) Begin(c *fiber.Ctx, employeeID int64) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(employeeIDKey, employeeID)
	return sess.Save()
}

// EmployeeID returns the employee bound to the request's session, if any.
func (m *SessionManager) EmployeeID(c *fiber.Ctx) (int64, bool, error) {
	sess, err := m.store.Get(c)
	if err != nil {
		return 0, false, err
	}
	id, ok := sess.Get(employeeIDKey).(int64)
	return id, ok, nil
}

// End destroys the request's session. It reports false when none was active.
func (m *SessionManager) End(c *fiber.Ctx) (bool, error) {
	sess, err := m.store.Get(c)
	if err != nil {
		return false, err
	}
	if _, ok := sess.Get(employeeIDKey).(int64); !ok {
		return false, nil
	}
	if err := sess.Destroy(); err != nil {
		return false, err
	}
	return true, nil
}
