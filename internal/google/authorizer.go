package google

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"runtime"
	"time"

	"golang.org/x/oauth2"

	"github.com/teemow/scriptsync/internal/logging"
)

var (
	// ErrStateMismatch is returned when the redirect carries an unexpected state value.
	ErrStateMismatch = errors.New("oauth state mismatch")

	// ErrAuthorizationDenied is returned when the user declines consent.
	ErrAuthorizationDenied = errors.New("authorization denied")
)

// Authorizer obtains a fresh token by asking the user for consent.
type Authorizer interface {
	Authorize(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error)
}

// LoopbackAuthorizer runs the installed-app flow: it listens on a loopback
// port, sends the user to the consent page and exchanges the returned code
// using PKCE.
type LoopbackAuthorizer struct {
	// ListenAddr defaults to 127.0.0.1:0
	ListenAddr string

	// Out receives the authorization URL. Defaults to os.Stderr.
	Out io.Writer

	// OpenBrowser is tried with the authorization URL. Failures are ignored.
	OpenBrowser func(url string) error

	Logger logging.Logger
}

// NewLoopbackAuthorizer returns an authorizer that prints the consent URL to
// out and tries to open it in the default browser.
func NewLoopbackAuthorizer(out io.Writer, logger logging.Logger) *LoopbackAuthorizer {
	return &LoopbackAuthorizer{
		Out:         out,
		OpenBrowser: openBrowser,
		Logger:      logger,
	}
}

type callbackResult struct {
	code string
	err  error
}

// Authorize implements Authorizer.
func (a *LoopbackAuthorizer) Authorize(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	addr := a.ListenAddr
	if addr == "" {
		addr = "127.0.0.1:0"
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to start loopback listener: %w", err)
	}

	cfg := *config
	cfg.RedirectURL = "http://" + ln.Addr().String() + "/"

	state := rand.Text()
	verifier := oauth2.GenerateVerifier()
	authURL := cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
		oauth2.S256ChallengeOption(verifier),
	)

	results := make(chan callbackResult, 1)
	deliver := func(r callbackResult) {
		select {
		case results <- r:
		default:
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()

		switch {
		case q.Get("error") != "":
			http.Error(w, "Authorization was not granted. You can close this window.", http.StatusForbidden)
			deliver(callbackResult{err: fmt.Errorf("%w: %s", ErrAuthorizationDenied, q.Get("error"))})

		case q.Get("state") != state:
			http.Error(w, "Invalid state parameter.", http.StatusBadRequest)
			deliver(callbackResult{err: ErrStateMismatch})

		case q.Get("code") == "":
			http.Error(w, "Missing authorization code.", http.StatusBadRequest)

		default:
			fmt.Fprintln(w, "Authorization complete. You can close this window.")
			deliver(callbackResult{code: q.Get("code")})
		}
	})

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			deliver(callbackResult{err: fmt.Errorf("loopback server failed: %w", err)})
		}
	}()
	defer srv.Shutdown(context.Background())

	out := a.Out
	if out == nil {
		out = os.Stderr
	}
	fmt.Fprintf(out, "Open the following URL in your browser to authorize access:\n\n%s\n\n", authURL)

	if a.OpenBrowser != nil {
		if err := a.OpenBrowser(authURL); err != nil && a.Logger != nil {
			a.Logger.Debug("could not open browser", logging.Err(err))
		}
	}

	var result callbackResult
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("authorization cancelled: %w", ctx.Err())
	case result = <-results:
	}

	if result.err != nil {
		return nil, result.err
	}

	token, err := cfg.Exchange(ctx, result.code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	return token, nil
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
