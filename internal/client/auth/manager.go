package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"

	"github.com/void2610/online-type-game/internal/client/gateway"
	"github.com/void2610/online-type-game/internal/client/models"
	"github.com/void2610/online-type-game/internal/clock"
	"github.com/void2610/online-type-game/internal/logging"
)

const (
	PathSignUp   = "/auth/v1/signup"
	PathToken    = "/auth/v1/token"
	PathLogout   = "/auth/v1/logout"
	GrantPass    = "password"
	GrantRefresh = "refresh_token"
)

// Transport is the slice of the gateway the manager drives.
type Transport interface {
	Send(ctx context.Context, method, path string, body any, header http.Header) ([]byte, error)
	SetAccessToken(token string)
	ClearAccessToken()
}

type Options struct {
	Transport Transport
	Store     SessionStore
	Logger    logging.Logger
	Clock     clock.Clock
}

type Manager struct {
	transport Transport
	store     SessionStore
	logger    logging.Logger
	clock     clock.Clock

	refreshes singleflight.Group

	mu      sync.RWMutex
	state   State
	session *models.Session
	// generation changes whenever the held session is replaced or cleared.
	generation uint64

	// persistMu orders blob writes against the generation they belong to.
	persistMu sync.Mutex
}

func NewManager(opts Options) (*Manager, error) {
	if opts.Transport == nil {
		return nil, fmt.Errorf("auth: Transport is required")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("auth: Store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real()
	}
	return &Manager{
		transport: opts.Transport,
		store:     opts.Store,
		logger:    logger.With("component", "auth"),
		clock:     clk,
	}, nil
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp registers a new account and signs it in.
func (m *Manager) SignUp(ctx context.Context, email, password string) (*models.Session, error) {
	return m.authenticate(ctx, "sign up", PathSignUp, credentials{Email: email, Password: password})
}

// SignIn exchanges email and password for a session.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	return m.authenticate(ctx, "sign in", tokenPath(GrantPass), credentials{Email: email, Password: password})
}

// SignInAnonymously creates an anonymous account and signs it in.
func (m *Manager) SignInAnonymously(ctx context.Context) (*models.Session, error) {
	return m.authenticate(ctx, "anonymous sign in", PathSignUp, struct{}{})
}

// Refresh trades the held refresh token for a new session. Concurrent calls
// share one request and its result. The old access token stays installed
// until the new one replaces it. If the session is signed out or replaced
// while the request is in flight, the result is dropped and Refresh fails
// with ErrNoSession.
func (m *Manager) Refresh(ctx context.Context) (*models.Session, error) {
	v, err, shared := m.refreshes.Do("refresh", func() (any, error) {
		return m.refresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		m.logger.Debug(ctx, "refresh coalesced")
	}
	return cloneSession(v.(*models.Session)), nil
}

func (m *Manager) refresh(ctx context.Context) (*models.Session, error) {
	m.mu.Lock()
	if m.session == nil || m.session.RefreshToken == "" {
		m.mu.Unlock()
		return nil, &AuthError{Message: "no session to refresh", Err: ErrNoSession}
	}
	refreshToken := m.session.RefreshToken
	previousUser := m.session.User
	generation := m.generation
	m.state = StateRefreshing
	m.mu.Unlock()

	body := map[string]string{"refresh_token": refreshToken}
	session, err := m.exchange(ctx, "refresh", tokenPath(GrantRefresh), body)
	if err != nil {
		m.rollback()
		return nil, err
	}
	if session.User == nil {
		session.User = previousUser
	}

	m.mu.Lock()
	if m.generation != generation {
		m.mu.Unlock()
		m.logger.Warn(ctx, "session changed during refresh, dropping result")
		return nil, &AuthError{Message: "session ended during refresh", Err: ErrNoSession}
	}
	generation = m.setLocked(session)
	m.mu.Unlock()

	m.persist(ctx, session, generation)
	m.logger.Info(ctx, "session refreshed", "expires_at", session.ExpiresAt)
	return session, nil
}

// SignOut revokes the session server-side when possible and always clears the
// local session, the gateway token and the stored blob. Failures of the
// revoke request or the blob delete are logged, never returned.
func (m *Manager) SignOut(ctx context.Context) {
	if m.IsSignedIn() {
		if _, err := m.transport.Send(ctx, http.MethodPost, PathLogout, nil, nil); err != nil {
			m.logger.Warn(ctx, "logout request failed, continuing", "error", err)
		}
	}

	m.mu.Lock()
	m.session = nil
	m.state = StateSignedOut
	m.generation++
	m.transport.ClearAccessToken()
	m.mu.Unlock()

	m.persistMu.Lock()
	err := m.store.Delete(ctx)
	m.persistMu.Unlock()
	if err != nil {
		m.logger.Error(ctx, "clear stored session", "error", &PersistenceError{Op: "delete", Err: err})
	}
	m.logger.Info(ctx, "signed out")
}

// RestoreSession loads a previously persisted session. An unreadable or
// token-less blob is logged and deleted and the manager stays signed out.
func (m *Manager) RestoreSession(ctx context.Context) bool {
	blob, err := m.store.Load(ctx)
	if err != nil {
		m.discard(ctx, &PersistenceError{Op: "load", Err: err})
		return false
	}
	if blob == nil {
		return false
	}

	var session models.Session
	if err := json.Unmarshal(blob, &session); err != nil {
		m.discard(ctx, &PersistenceError{Op: "decode", Err: err})
		return false
	}
	if !session.SignedIn() {
		m.discard(ctx, &PersistenceError{Op: "decode", Err: fmt.Errorf("stored session has no access token")})
		return false
	}

	m.mu.Lock()
	m.setLocked(&session)
	m.mu.Unlock()

	m.logger.Info(ctx, "session restored", "user_id", userID(&session))
	return true
}

// Session returns a copy of the held session, or nil.
func (m *Manager) Session() *models.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneSession(m.session)
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// IsSignedIn is true while a session is held, including during a refresh.
func (m *Manager) IsSignedIn() bool {
	s := m.State()
	return s == StateSignedIn || s == StateRefreshing
}

// NeedsRefresh reports whether the held session expires within margin. It is
// false when signed out or when no expiry can be determined.
func (m *Manager) NeedsRefresh(margin time.Duration) bool {
	m.mu.RLock()
	session := m.session
	m.mu.RUnlock()
	if session == nil {
		return false
	}
	exp, ok := ExpiresAt(session)
	if !ok {
		return false
	}
	return !m.clock.Now().Add(margin).Before(exp)
}

// ExpiresAt resolves a session's expiry from expires_at, falling back to the
// exp claim of the access token. The token signature is not verified.
func ExpiresAt(s *models.Session) (time.Time, bool) {
	if s.ExpiresAt > 0 {
		return time.Unix(s.ExpiresAt, 0), true
	}
	token, _, err := jwt.NewParser().ParseUnverified(s.AccessToken, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func (m *Manager) authenticate(ctx context.Context, action, path string, body any) (*models.Session, error) {
	m.mu.Lock()
	m.state = StateAuthenticating
	m.mu.Unlock()

	session, err := m.exchange(ctx, action, path, body)
	if err != nil {
		m.rollback()
		return nil, err
	}
	m.install(ctx, session)
	m.logger.Info(ctx, action+" succeeded", "user_id", userID(session))
	return cloneSession(session), nil
}

// exchange posts body and decodes a session that must carry an access token.
func (m *Manager) exchange(ctx context.Context, action, path string, body any) (*models.Session, error) {
	var session *models.Session
	data, err := m.transport.Send(ctx, http.MethodPost, path, body, nil)
	if err == nil {
		session, err = gateway.Decode[models.Session](data)
	}
	if err != nil {
		m.logger.Warn(ctx, action+" failed", "error", err)
		return nil, &AuthError{Message: action + " failed", Err: err}
	}
	if !session.SignedIn() {
		return nil, &AuthError{Message: action + " response carried no access token"}
	}
	if session.ExpiresAt == 0 && session.ExpiresIn > 0 {
		session.ExpiresAt = m.clock.Now().Add(time.Duration(session.ExpiresIn) * time.Second).Unix()
	}
	return session, nil
}

// install swaps in session, pushes its token to the gateway and persists it.
func (m *Manager) install(ctx context.Context, session *models.Session) {
	m.mu.Lock()
	generation := m.setLocked(session)
	m.mu.Unlock()

	m.persist(ctx, session, generation)
}

// setLocked makes session current and returns its generation. m.mu must be
// held.
func (m *Manager) setLocked(session *models.Session) uint64 {
	m.session = session
	m.state = StateSignedIn
	m.generation++
	m.transport.SetAccessToken(session.AccessToken)
	return m.generation
}

// persist saves session unless a newer generation has replaced it. A failure
// is logged; the in-memory session stays valid.
func (m *Manager) persist(ctx context.Context, session *models.Session, generation uint64) {
	m.persistMu.Lock()
	defer m.persistMu.Unlock()

	m.mu.RLock()
	current := m.generation == generation
	m.mu.RUnlock()
	if !current {
		return
	}

	blob, err := json.Marshal(session)
	if err == nil {
		err = m.store.Save(ctx, blob)
	}
	if err != nil {
		m.logger.Error(ctx, "persist session", "error", &PersistenceError{Op: "save", Err: err})
	}
}

// rollback returns to the state implied by the held session after a failed
// exchange.
func (m *Manager) rollback() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session != nil {
		m.state = StateSignedIn
	} else {
		m.state = StateSignedOut
	}
}

func (m *Manager) discard(ctx context.Context, err *PersistenceError) {
	m.logger.Error(ctx, "discarding stored session", "error", err)
	m.persistMu.Lock()
	defer m.persistMu.Unlock()
	if derr := m.store.Delete(ctx); derr != nil {
		m.logger.Warn(ctx, "delete stored session", "error", derr)
	}
}

func tokenPath(grant string) string {
	return PathToken + "?grant_type=" + grant
}

func userID(s *models.Session) string {
	if s == nil || s.User == nil {
		return ""
	}
	return s.User.ID
}

func cloneSession(s *models.Session) *models.Session {
	if s == nil {
		return nil
	}
	c := *s
	if s.User != nil {
		u := *s.User
		c.User = &u
	}
	return &c
}
