package gateway

import "sync"

// Credentials is what a SessionSource hands back on Refresh
type Credentials struct {
	Tenant string
	Token  string
}

// SessionSource supplies fresh credentials, e.g. re-reading the config file after
// a login in another terminal.
type SessionSource interface {
	Credentials() (Credentials, error)
}

// Session holds the tenant and session token injected into every request.
// Values are read at request time, so SetTenant or Clear take effect on the next
// call without invalidating anything.
type Session struct {
	mu     sync.RWMutex
	tenant string
	token  string
	source SessionSource
}

// NewSession creates a session with initial credentials
func NewSession(tenant, token string) *Session {
	return &Session{tenant: tenant, token: token}
}

// NewSessionFromSource creates a session that can be refreshed from src
func NewSessionFromSource(src SessionSource) (*Session, error) {
	s := &Session{source: src}
	if err := s.Refresh(); err != nil {
		return nil, err
	}
	return s, nil
}

// Tenant returns the current tenant identifier
func (s *Session) Tenant() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tenant
}

// Token returns the current session token
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetTenant switches tenant for subsequent requests
func (s *Session) SetTenant(tenant string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenant = tenant
}

// SetToken replaces the session token for subsequent requests
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Clear drops both values (logout)
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenant = ""
	s.token = ""
}

// Refresh reloads credentials from the configured source. Sessions built with
// NewSession have no source and Refresh is a no-op.
func (s *Session) Refresh() error {
	if s.source == nil {
		return nil
	}
	creds, err := s.source.Credentials()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenant = creds.Tenant
	s.token = creds.Token
	return nil
}

// snapshot returns both values under one lock
func (s *Session) snapshot() (tenant, token string) {
	if s == nil {
		return "", ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tenant, s.token
}
