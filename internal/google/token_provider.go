package google

import (
	"context"

	"golang.org/x/oauth2"
)

// TokenProvider supplies the token source used by the Google API clients.
type TokenProvider interface {
	TokenSource(ctx context.Context) (oauth2.TokenSource, error)
}
