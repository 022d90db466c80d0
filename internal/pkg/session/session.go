package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/pgxstore"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	lifetime        = 7 * 24 * time.Hour
	cleanupInterval = 30 * time.Minute

	userIDKey = "userID"
)

// Manager issues and resolves opaque server-side sessions delivered via an
// http-only cookie. Production uses the sessions table so logins survive
// restarts; development falls back to an in-memory store.
type Manager struct {
	*scs.SessionManager
}

// NewManager builds the session manager. In production a nil pool is a
// startup error: silently downgrading to an in-memory store would drop every
// session on deploy and bypass durable expiry.
func NewManager(pool *pgxpool.Pool, production bool) (*Manager, error) {
	sm := scs.New()
	sm.Lifetime = lifetime
	sm.Cookie.Name = "portal_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = production

	if production {
		if pool == nil {
			return nil, fmt.Errorf("durable session store required in production but no database pool available")
		}
		sm.Store = pgxstore.NewWithCleanupInterval(pool, cleanupInterval)
	} else if pool != nil {
		sm.Store = pgxstore.NewWithCleanupInterval(pool, cleanupInterval)
	} else {
		sm.Store = memstore.New()
	}

	return &Manager{SessionManager: sm}, nil
}

// Login rotates the session token and binds it to the user. Rotation on
// privilege change prevents session fixation.
func (m *Manager) Login(ctx context.Context, userID string) error {
	if err := m.RenewToken(ctx); err != nil {
		return err
	}
	m.Put(ctx, userIDKey, userID)
	return nil
}

// UserID returns the authenticated user id bound to the session, or "" when
// the session is anonymous.
func (m *Manager) UserID(ctx context.Context) string {
	return m.GetString(ctx, userIDKey)
}

// Logout destroys the session server-side; the cookie is invalidated by the
// LoadAndSave middleware on the same response.
func (m *Manager) Logout(ctx context.Context) error {
	return m.Destroy(ctx)
}
