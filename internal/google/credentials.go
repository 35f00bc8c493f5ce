package google

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/oauth2"

	"github.com/teemow/scriptsync/internal/instrumentation"
	"github.com/teemow/scriptsync/internal/logging"
)

// CredentialProvider yields a usable token, preferring the cached one,
// then a refresh, then the interactive flow.
type CredentialProvider struct {
	config     *oauth2.Config
	store      TokenStore
	authorizer Authorizer
	logger     logging.Logger
	metrics    *instrumentation.Metrics
}

// Option configures a CredentialProvider.
type Option func(*CredentialProvider)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger logging.Logger) Option {
	return func(p *CredentialProvider) {
		p.logger = logger
	}
}

// WithMetrics records OAuth metrics.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(p *CredentialProvider) {
		p.metrics = m
	}
}

// NewCredentialProvider creates a provider for config backed by store.
func NewCredentialProvider(config *oauth2.Config, store TokenStore, authorizer Authorizer, opts ...Option) *CredentialProvider {
	p := &CredentialProvider{
		config:     config,
		store:      store,
		authorizer: authorizer,
		logger:     logging.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Token returns a valid token. The interactive flow is only used when there is
// no cached token, the cached one cannot be refreshed, or it was granted
// fewer scopes than the configuration asks for.
func (p *CredentialProvider) Token(ctx context.Context) (*oauth2.Token, error) {
	cached, err := p.store.Load()
	if err == nil {
		if missing := missingScopes(cached, p.config.Scopes); len(missing) > 0 {
			p.logger.Info("cached token lacks required scopes, starting authorization flow", "missing", missing)
			return p.Authorize(ctx)
		}
	}

	switch {
	case err == nil && cached.Valid():
		p.logger.Debug("using cached token", "expiry", cached.Expiry)
		p.metrics.RecordOAuthAuth(ctx, instrumentation.TokenSourceCache, instrumentation.OAuthResultSuccess)
		return cached, nil

	case err != nil && !errors.Is(err, ErrNoToken):
		p.logger.Warn("ignoring unreadable token cache", logging.Err(err))
		cached = nil
	}

	if cached != nil && cached.RefreshToken != "" {
		token, err := p.refresh(ctx, cached)
		if err == nil {
			return token, nil
		}
		p.logger.Warn("token refresh failed, starting authorization flow", logging.Err(err))
	}

	return p.Authorize(ctx)
}

// Authorize runs the interactive flow unconditionally and persists the result.
func (p *CredentialProvider) Authorize(ctx context.Context) (*oauth2.Token, error) {
	if p.authorizer == nil {
		p.metrics.RecordOAuthAuth(ctx, instrumentation.TokenSourceInteractive, instrumentation.OAuthResultFailure)
		return nil, errors.New("no valid token and interactive authorization is not available")
	}

	token, err := p.authorizer.Authorize(ctx, p.config)
	if err != nil {
		p.metrics.RecordOAuthAuth(ctx, instrumentation.TokenSourceInteractive, instrumentation.OAuthResultFailure)
		return nil, fmt.Errorf("authorization failed: %w", err)
	}
	p.metrics.RecordOAuthAuth(ctx, instrumentation.TokenSourceInteractive, instrumentation.OAuthResultSuccess)

	p.persist(token)
	return token, nil
}

func (p *CredentialProvider) refresh(ctx context.Context, cached *oauth2.Token) (*oauth2.Token, error) {
	token, err := p.config.TokenSource(ctx, cached).Token()
	if err != nil {
		p.metrics.RecordOAuthTokenRefresh(ctx, instrumentation.OAuthResultFailure)
		return nil, err
	}
	p.metrics.RecordOAuthTokenRefresh(ctx, instrumentation.OAuthResultSuccess)
	p.metrics.RecordOAuthAuth(ctx, instrumentation.TokenSourceRefresh, instrumentation.OAuthResultSuccess)

	p.logger.Info("refreshed access token", "expiry", token.Expiry)
	p.logger.Debug("refreshed token", "access_token", logging.SanitizeToken(token.AccessToken))
	p.persist(token)
	return token, nil
}

func (p *CredentialProvider) persist(token *oauth2.Token) {
	if err := p.store.Save(token); err != nil {
		p.logger.Warn("failed to cache token", logging.Err(err))
	}
}

// TokenSource returns a token source starting from Token(ctx). Tokens
// refreshed later in the run are written back to the store.
func (p *CredentialProvider) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	token, err := p.Token(ctx)
	if err != nil {
		return nil, err
	}

	return oauth2.ReuseTokenSource(token, &persistingTokenSource{
		base:     p.config.TokenSource(ctx, token),
		provider: p,
		last:     token.AccessToken,
	}), nil
}

type persistingTokenSource struct {
	base     oauth2.TokenSource
	provider *CredentialProvider

	mu   sync.Mutex
	last string
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token.AccessToken != s.last {
		s.last = token.AccessToken
		s.provider.persist(token)
	}
	return token, nil
}
