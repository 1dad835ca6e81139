package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteArea(t *testing.T) {
	testCases := []struct {
		route    Route
		expected Area
	}{
		{route: "/", expected: AreaLanding},
		{route: "", expected: AreaLanding},
		{route: "/auth/login", expected: AreaAuth},
		{route: "/auth/signup", expected: AreaAuth},
		{route: "/(tabs)", expected: AreaProtected},
		{route: "/(tabs)/post", expected: AreaProtected},
		{route: "/users", expected: AreaOpen},
		{route: "/plagiarism", expected: AreaOpen},
		{route: "/authors", expected: AreaOpen},
	}

	for _, tc := range testCases {
		t.Run(string(tc.route), func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.route.Area())
		})
	}
}

func TestDecide(t *testing.T) {
	testCases := []struct {
		name          string
		route         Route
		authenticated bool
		target        Route
		redirect      bool
	}{
		{name: "guest on protected page", route: "/(tabs)/profile", authenticated: false, target: RouteLogin, redirect: true},
		{name: "guest on login", route: RouteLogin, authenticated: false},
		{name: "guest on landing", route: RouteLanding, authenticated: false},
		{name: "guest on open page", route: "/users", authenticated: false},
		{name: "user on login", route: RouteLogin, authenticated: true, target: RouteHome, redirect: true},
		{name: "user on signup", route: RouteSignup, authenticated: true, target: RouteHome, redirect: true},
		{name: "user on protected page", route: "/(tabs)/post", authenticated: true},
		{name: "user on landing", route: RouteLanding, authenticated: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			target, redirect := Decide(tc.route, tc.authenticated)
			assert.Equal(t, tc.redirect, redirect)
			assert.Equal(t, tc.target, target)

			if redirect {
				_, again := Decide(target, tc.authenticated)
				assert.False(t, again, "redirect target must be stable")
			}
		})
	}
}

func TestRouter(t *testing.T) {
	r := NewRouter(RouteLanding)
	assert.Equal(t, RouteLanding, r.Current())
	assert.Empty(t, r.History())

	r.Replace(RouteLogin)
	r.Replace(RouteHome)
	assert.Equal(t, RouteHome, r.Current())
	assert.Equal(t, []Route{RouteLogin, RouteHome}, r.History())
}
