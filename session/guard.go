package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/andrejsstepanovs/collab/apperrors"
	"github.com/andrejsstepanovs/collab/models"
	"github.com/rs/zerolog"
)

// TokenStore persists the bearer token.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// Authenticator talks to the remote auth endpoints.
type Authenticator interface {
	SignIn(ctx context.Context, creds models.Credentials) (models.AuthResponse, error)
	SignUp(ctx context.Context, reg models.Registration) error
}

// Guard keeps the authentication state and gates navigation on it.
//
// Every event (navigation, sign in/out, a 401 from the API, the initial
// restore) runs Decide exactly once against the current location and issues
// at most one redirect.
type Guard struct {
	store TokenStore
	auth  Authenticator
	nav   Navigator
	log   zerolog.Logger

	mu            sync.Mutex
	authenticated bool
	location      Route
	nextID        int
	subscribers   map[int]func(bool)
}

func NewGuard(store TokenStore, auth Authenticator, nav Navigator, log zerolog.Logger) *Guard {
	return &Guard{
		store:       store,
		auth:        auth,
		nav:         nav,
		log:         log.With().Str("component", "session").Logger(),
		location:    RouteLanding,
		subscribers: map[int]func(bool){},
	}
}

// Restore reads the persisted token once at startup and evaluates the
// current location. A failing read leaves the session unauthenticated.
func (g *Guard) Restore(ctx context.Context, location Route) bool {
	token, err := g.store.Token(ctx)
	if err != nil {
		g.log.Error().Err(err).Msg("error checking auth state")
		token = ""
	}

	g.mu.Lock()
	g.location = location
	g.mu.Unlock()

	g.setAuthenticated(token != "")
	return g.Authenticated()
}

func (g *Guard) Authenticated() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.authenticated
}

// Location is the last location the guard knows of.
func (g *Guard) Location() Route {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.location
}

// Subscribe calls fn with the new value whenever the authentication state
// changes. The returned func removes the subscription.
func (g *Guard) Subscribe(fn func(authenticated bool)) func() {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.nextID
	g.nextID++
	g.subscribers[id] = fn

	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.subscribers, id)
	}
}

// Navigate records a navigation change and returns where the user ends up.
func (g *Guard) Navigate(route Route) Route {
	g.mu.Lock()
	g.location = route
	g.mu.Unlock()

	return g.evaluate()
}

// SignIn authenticates and persists the token.
func (g *Guard) SignIn(ctx context.Context, creds models.Credentials) error {
	return g.signIn(ctx, creds, "Login failed")
}

func (g *Guard) signIn(ctx context.Context, creds models.Credentials, fallback string) error {
	res, err := g.auth.SignIn(ctx, creds)
	if err != nil {
		g.log.Debug().Err(err).Str("username", creds.Username).Msg("error signing in")
		return &apperrors.AuthError{
			Kind:    apperrors.ErrAuthenticationFailed,
			Message: messageOr(err, fallback),
			Cause:   err,
		}
	}

	if strings.TrimSpace(res.Token) == "" {
		return &apperrors.AuthError{
			Kind:    apperrors.ErrAuthenticationFailed,
			Message: "No token received from server",
		}
	}

	if err := g.store.SetToken(ctx, res.Token); err != nil {
		return &apperrors.AuthError{
			Kind:    apperrors.ErrAuthenticationFailed,
			Message: fallback,
			Cause:   fmt.Errorf("failed to persist token: %w", err),
		}
	}

	g.setAuthenticated(true)
	return nil
}

// SignUp registers the account and then signs in with the same credentials.
// The returned *apperrors.AuthError tells which of the two steps failed.
func (g *Guard) SignUp(ctx context.Context, reg models.Registration) error {
	if err := g.auth.SignUp(ctx, reg); err != nil {
		g.log.Debug().Err(err).Str("username", reg.Username).Msg("error signing up")
		return &apperrors.AuthError{
			Kind:    apperrors.ErrRegistrationFailed,
			Message: messageOr(err, "Registration failed"),
			Cause:   err,
		}
	}

	err := g.signIn(ctx, reg.Credentials(), "Login failed after registration")
	if err != nil {
		g.log.Warn().Err(err).Str("username", reg.Username).Msg("registration successful but sign in failed")
	}
	return err
}

// SignOut clears the persisted token, then the in-memory state, and sends the
// user to the landing page. State is cleared even when the store fails; that
// failure is returned.
func (g *Guard) SignOut(ctx context.Context) error {
	clearErr := g.store.ClearToken(ctx)
	if clearErr != nil {
		g.log.Error().Err(clearErr).Msg("error clearing token on sign out")
	}

	g.mu.Lock()
	changed := g.authenticated
	g.authenticated = false
	g.location = RouteLanding
	subscribers := g.subscribersLocked()
	g.mu.Unlock()

	if changed {
		notify(subscribers, false)
	}
	g.nav.Replace(RouteLanding)

	if clearErr != nil {
		return fmt.Errorf("failed to clear session token: %w", clearErr)
	}
	return nil
}

// HandleUnauthorized reacts to a 401 from any API call: the session becomes
// unauthenticated and the location is re-evaluated like any other state change.
func (g *Guard) HandleUnauthorized() {
	if err := g.store.ClearToken(context.Background()); err != nil {
		g.log.Error().Err(err).Msg("error clearing token after unauthorized response")
	}
	g.log.Debug().Msg("unauthorized response, session cleared")
	g.setAuthenticated(false)
}

// setAuthenticated stores the new state and evaluates it once.
func (g *Guard) setAuthenticated(authenticated bool) {
	g.mu.Lock()
	changed := g.authenticated != authenticated
	g.authenticated = authenticated
	subscribers := g.subscribersLocked()
	g.mu.Unlock()

	if changed {
		notify(subscribers, authenticated)
	}
	g.evaluate()
}

// evaluate runs the transition function for the current state. Navigation
// happens outside the lock so a Navigator may call back into the guard.
func (g *Guard) evaluate() Route {
	g.mu.Lock()
	location := g.location
	target, redirect := Decide(location, g.authenticated)
	if redirect {
		g.location = target
	}
	g.mu.Unlock()

	if !redirect {
		return location
	}

	g.log.Debug().Str("from", string(location)).Str("to", string(target)).Msg("redirect")
	g.nav.Replace(target)
	return target
}

func (g *Guard) subscribersLocked() []func(bool) {
	fns := make([]func(bool), 0, len(g.subscribers))
	for _, fn := range g.subscribers {
		fns = append(fns, fn)
	}
	return fns
}

func notify(subscribers []func(bool), authenticated bool) {
	for _, fn := range subscribers {
		fn(authenticated)
	}
}

func messageOr(err error, fallback string) string {
	if msg := apperrors.ServerMessage(err); msg != "" {
		return msg
	}
	var authErr *apperrors.AuthError
	if errors.As(err, &authErr) {
		return authErr.Message
	}
	return fallback
}
