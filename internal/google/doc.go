// Package google provides OAuth2 authentication and token management for Google APIs.
//
// A CredentialProvider loads the cached token from a TokenStore, refreshes it
// when it has expired, and falls back to an interactive Authorizer when no
// usable token exists. Every new token is written back to the store.
//
// The TokenProvider interface is what the API clients depend on, so tests can
// substitute a static token source.
package google
