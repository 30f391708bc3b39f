// Package session implements server-side per-client session state: a
// pluggable Store keyed by opaque identifiers, and a Manager bound to one
// client for the duration of a request.
package session

import (
	"github.com/google/uuid"

	"github.com/dkoval/companyportal/internal/server/models"
)

// State is everything kept server-side for one client. Flash, RedirectTo and
// SignupEmail are one-shot values: they are cleared when read.
type State struct {
	Identity    *models.Identity
	Flash       string
	RedirectTo  string
	SignupEmail string
}

// Store persists session state keyed by session id.
type Store interface {
	Get(id string) (State, bool)
	Put(id string, state State)
	Destroy(id string)
}

// Manager is the per-request view of one client's session. It is not safe
// for concurrent use; each request works with its own Manager.
type Manager struct {
	store Store
	id    string
	state State
}

func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Bind loads the state stored under id, if any. An unknown id is ignored so
// that stale cookies simply start a fresh anonymous session.
func (m *Manager) Bind(id string) {
	if id == "" {
		return
	}
	state, ok := m.store.Get(id)
	if !ok {
		return
	}
	m.id = id
	m.state = state
}

// ID returns the current session identifier, or "" when no state has been
// persisted yet (fresh anonymous client or after logout).
func (m *Manager) ID() string {
	return m.id
}

// Current returns the authenticated identity, or nil for anonymous sessions.
func (m *Manager) Current() *models.Identity {
	return m.state.Identity
}

// Login stores the identity under a brand-new session id. Regenerating the
// identifier on privilege change defeats session fixation.
func (m *Manager) Login(identity models.Identity) {
	old := m.id
	m.id = newSessionID()
	m.state.Identity = &identity
	m.store.Put(m.id, m.state)
	if old != "" {
		m.store.Destroy(old)
	}
}

// Logout clears all session state and invalidates the identifier. It is
// idempotent: calling it on an anonymous session is a no-op.
func (m *Manager) Logout() {
	if m.id != "" {
		m.store.Destroy(m.id)
	}
	m.id = ""
	m.state = State{}
}

func (m *Manager) SetFlash(msg string) {
	m.state.Flash = msg
	m.persist()
}

func (m *Manager) PopFlash() string {
	v := m.state.Flash
	if v != "" {
		m.state.Flash = ""
		m.persist()
	}
	return v
}

func (m *Manager) SetRedirectTo(target string) {
	m.state.RedirectTo = target
	m.persist()
}

func (m *Manager) PopRedirectTo() string {
	v := m.state.RedirectTo
	if v != "" {
		m.state.RedirectTo = ""
		m.persist()
	}
	return v
}

func (m *Manager) SetSignupEmail(email string) {
	m.state.SignupEmail = email
	m.persist()
}

func (m *Manager) PopSignupEmail() string {
	v := m.state.SignupEmail
	if v != "" {
		m.state.SignupEmail = ""
		m.persist()
	}
	return v
}

func (m *Manager) persist() {
	if m.id == "" {
		m.id = newSessionID()
	}
	m.store.Put(m.id, m.state)
}

func newSessionID() string {
	return uuid.NewString()
}
