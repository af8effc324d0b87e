package google

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// refreshSkew is how close to expiry a token may get before Token refreshes
// it. A token expiring within this window is treated as already stale.
const refreshSkew = 5 * time.Minute

// refreshFunc trades a stale token for a fresh one. Injected in tests.
type refreshFunc func(ctx context.Context, tok *oauth2.Token) (*oauth2.Token, error)

// RefreshRecorder observes token refresh attempts for metrics. The
// instrumentation package's Metrics satisfies it.
type RefreshRecorder interface {
	RecordTokenRefresh(ctx context.Context, result string)
}

// Session owns the cached OAuth credentials. The rest of the system never
// reads token fields directly; it only ever asks for a currently valid token.
// Refresh is lazy: it happens on demand when the cached token is within the
// skew window, never in the background.
type Session struct {
	conf     *oauth2.Config
	store    *TokenStore
	refresh  refreshFunc
	recorder RefreshRecorder
	now      func() time.Time

	mu  sync.Mutex
	tok *oauth2.Token
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithRefreshRecorder enables refresh-attempt metrics recording.
func WithRefreshRecorder(r RefreshRecorder) SessionOption {
	return func(s *Session) { s.recorder = r }
}

// NewSession creates a session over the given config and store.
func NewSession(conf *oauth2.Config, store *TokenStore, opts ...SessionOption) *Session {
	s := &Session{
		conf:  conf,
		store: store,
		now:   time.Now,
	}
	s.refresh = s.refreshWithConfig
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Token returns a currently valid access token, refreshing first when the
// cached one expires within five minutes. A failed refresh clears all cached
// credentials, forcing the user back through sign-in, and propagates the
// error.
func (s *Session) Token(ctx context.Context) (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tok == nil {
		tok, err := s.store.Load()
		if err != nil {
			return nil, err
		}
		s.tok = tok
	}

	if s.tok.Expiry.After(s.now().Add(refreshSkew)) {
		return s.tok, nil
	}

	fresh, err := s.refresh(ctx, s.tok)
	s.recordRefresh(ctx, err)
	if err != nil {
		s.tok = nil
		if clearErr := s.store.Clear(); clearErr != nil {
			return nil, fmt.Errorf("token refresh failed (%w) and credentials could not be cleared: %v", err, clearErr)
		}
		return nil, fmt.Errorf("token refresh failed: %w", err)
	}

	// Google only returns the refresh token on the initial exchange.
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = s.tok.RefreshToken
	}

	s.tok = fresh
	if err := s.store.Save(fresh); err != nil {
		return nil, fmt.Errorf("failed to persist refreshed token: %w", err)
	}
	return fresh, nil
}

// Authorize stores a freshly exchanged token as the session credentials.
func (s *Session) Authorize(tok *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tok = tok
	return s.store.Save(tok)
}

// SignOut discards cached and stored credentials.
func (s *Session) SignOut() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tok = nil
	return s.store.Clear()
}

// HasCredentials reports whether any credentials are available.
func (s *Session) HasCredentials() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tok != nil || s.store.HasToken()
}

// TokenSource adapts the session to oauth2.TokenSource so it can back an
// HTTP client.
func (s *Session) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &sessionTokenSource{ctx: ctx, session: s}
}

func (s *Session) recordRefresh(ctx context.Context, err error) {
	if s.recorder == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	s.recorder.RecordTokenRefresh(ctx, result)
}

// refreshWithConfig performs a real refresh against the OAuth endpoint.
func (s *Session) refreshWithConfig(ctx context.Context, tok *oauth2.Token) (*oauth2.Token, error) {
	if tok.RefreshToken == "" {
		return nil, fmt.Errorf("no refresh token available")
	}
	// Force the token source to consider the token expired so it refreshes.
	stale := *tok
	stale.Expiry = time.Unix(1, 0)
	return s.conf.TokenSource(ctx, &stale).Token()
}

type sessionTokenSource struct {
	ctx     context.Context
	session *Session
}

func (ts *sessionTokenSource) Token() (*oauth2.Token, error) {
	return ts.session.Token(ts.ctx)
}
