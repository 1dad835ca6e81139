package session

import (
	"strings"
	"sync"
)

// Route is a navigation location such as "/auth/login" or "/(tabs)/post".
type Route string

const (
	RouteLanding Route = "/"
	RouteLogin   Route = "/auth/login"
	RouteSignup  Route = "/auth/signup"
	RouteHome    Route = "/(tabs)"
)

// Area groups routes by who may see them.
type Area int

const (
	// AreaLanding is the public entry page.
	AreaLanding Area = iota
	// AreaAuth holds the sign-in and sign-up pages.
	AreaAuth
	// AreaProtected requires an authenticated session.
	AreaProtected
	// AreaOpen is public but not part of the auth flow.
	AreaOpen
)

func (a Area) String() string {
	switch a {
	case AreaLanding:
		return "landing"
	case AreaAuth:
		return "auth"
	case AreaProtected:
		return "protected"
	default:
		return "open"
	}
}

// Area classifies the route by its first path segment.
func (r Route) Area() Area {
	segments := strings.Split(strings.Trim(string(r), "/"), "/")
	switch segments[0] {
	case "":
		return AreaLanding
	case "auth":
		return AreaAuth
	case "(tabs)":
		return AreaProtected
	default:
		return AreaOpen
	}
}

// Decide is the guard's transition function. It returns the route to
// redirect to and true when the location and the authentication state
// disagree.
func Decide(route Route, authenticated bool) (Route, bool) {
	switch area := route.Area(); {
	case !authenticated && area == AreaProtected:
		return RouteLogin, true
	case authenticated && area == AreaAuth:
		return RouteHome, true
	default:
		return "", false
	}
}

// Navigator performs navigation commands issued by the guard.
type Navigator interface {
	Replace(route Route)
}

// Router is an in-memory Navigator that remembers where the user is.
type Router struct {
	mu      sync.Mutex
	current Route
	history []Route
}

func NewRouter(start Route) *Router {
	return &Router{current: start}
}

func (r *Router) Replace(route Route) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.current = route
	r.history = append(r.history, route)
}

func (r *Router) Current() Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// History returns every route the router was sent to, oldest first.
func (r *Router) History() []Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Route(nil), r.history...)
}
