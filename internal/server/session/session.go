// Package session holds the per-connection state of a SecureVault client:
// who is logged in, whether they are the administrator, and the CAPTCHA
// challenge that gates the next login attempt.
//
// Sessions are values. Every operation returns the new session instead of
// mutating the old one; the transport layer serialises them into signed
// tokens with Encode and restores them with Decode.
package session

import (
	"context"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/securevault/internal/common"
	"github.com/dmitrijs2005/securevault/internal/logging"
	"github.com/dmitrijs2005/securevault/internal/server/auth"
	"github.com/dmitrijs2005/securevault/internal/server/models"
	"github.com/google/uuid"
)

type Role string

const (
	RoleGuest Role = "guest"
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type Session struct {
	Identity string
	Role     Role
	CaptchaA int
	CaptchaB int

	// Challenge identifies the pending CAPTCHA. Each challenge can be
	// answered once.
	Challenge string
}

func (s Session) LoggedIn() bool {
	return s.Identity != ""
}

// Recorder receives best-effort audit records.
type Recorder interface {
	Record(ctx context.Context, userID, action, details string)
}

type Authenticator interface {
	Authenticate(ctx context.Context, userID, password string) (string, error)
}

type Manager struct {
	adminID  string
	secret   []byte
	ttl      time.Duration
	auth     Authenticator
	recorder Recorder
	logger   logging.Logger

	// operand returns a CAPTCHA operand in 1..9.
	operand func() int
	now     func() time.Time

	mu   sync.Mutex
	used map[string]time.Time // challenge -> time after which it can be forgotten
}

func NewManager(adminID string, secret []byte, ttl time.Duration, a Authenticator, r Recorder, logger logging.Logger) *Manager {
	return &Manager{
		adminID:  adminID,
		secret:   secret,
		ttl:      ttl,
		auth:     a,
		recorder: r,
		logger:   logger.With("module", "session"),
		operand:  func() int { return rand.IntN(9) + 1 },
		now:      time.Now,
		used:     make(map[string]time.Time),
	}
}

func (m *Manager) Begin() Session {
	return m.regenerate(Session{Role: RoleGuest})
}

func (m *Manager) Login(s Session, identity string) Session {
	s.Identity = identity
	s.Role = m.roleOf(identity)
	return s
}

func (m *Manager) Logout(ctx context.Context, s Session) Session {
	if s.LoggedIn() {
		m.recorder.Record(ctx, s.Identity, models.ActionLogout, "User logged out")
		m.logger.Info(ctx, "logged out", "userid", s.Identity)
	}
	return m.Begin()
}

func (m *Manager) IsAdmin(s Session) bool {
	return s.LoggedIn() && s.Identity == m.adminID
}

// VerifyCaptcha checks answer against the pending challenge. The challenge is
// spent whatever the outcome, so a token replayed after a failed login is
// rejected. On failure the returned session carries a fresh challenge.
func (m *Manager) VerifyCaptcha(s Session, answer string) (Session, error) {
	if !m.consume(s.Challenge) {
		return m.regenerate(s), common.ErrorIncorrectCaptcha
	}

	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil {
		return m.regenerate(s), common.ErrorInvalidCaptchaAnswer
	}
	if n != s.CaptchaA+s.CaptchaB {
		return m.regenerate(s), common.ErrorIncorrectCaptcha
	}
	return s, nil
}

// Attempt is the CAPTCHA-gated login. Credentials are only checked once the
// CAPTCHA is solved.
func (m *Manager) Attempt(ctx context.Context, s Session, userID, password, answer string) (Session, error) {
	s, err := m.VerifyCaptcha(s, answer)
	if err != nil {
		return s, err
	}

	id, err := m.auth.Authenticate(ctx, userID, password)
	if err != nil {
		return m.regenerate(s), err
	}

	return m.Login(m.regenerate(s), id), nil
}

func (m *Manager) Encode(s Session) (string, error) {
	c := auth.Claims{
		Identity: s.Identity,
		CaptchaA: s.CaptchaA,
		CaptchaB: s.CaptchaB,
	}
	c.ID = s.Challenge
	return auth.GenerateToken(c, m.secret, m.ttl)
}

// Decode restores a session from a token. The role is derived from the
// identity and never taken from the token.
func (m *Manager) Decode(token string) (Session, error) {
	if token == "" {
		return Session{}, common.ErrInvalidToken
	}
	c, err := auth.ParseToken(token, m.secret)
	if err != nil {
		return Session{}, err
	}
	return Session{
		Identity:  c.Identity,
		Role:      m.roleOf(c.Identity),
		CaptchaA:  c.CaptchaA,
		CaptchaB:  c.CaptchaB,
		Challenge: c.ID,
	}, nil
}

func (m *Manager) roleOf(identity string) Role {
	switch {
	case identity == "":
		return RoleGuest
	case identity == m.adminID:
		return RoleAdmin
	default:
		return RoleUser
	}
}

func (m *Manager) regenerate(s Session) Session {
	s.CaptchaA = m.operand()
	s.CaptchaB = m.operand()
	s.Challenge = uuid.NewString()
	return s
}

// consume marks challenge as spent and reports whether it was still open.
// A token carrying it expires within ttl, so entries older than that are
// dropped.
func (m *Manager) consume(challenge string) bool {
	if challenge == "" {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for id, until := range m.used {
		if now.After(until) {
			delete(m.used, id)
		}
	}

	if _, ok := m.used[challenge]; ok {
		return false
	}
	m.used[challenge] = now.Add(m.ttl)
	return true
}

type ctxKey struct{}

func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}
