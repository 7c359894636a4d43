package router

import (
	"net/url"

	authdto "rehab/internal/modules/auth/dto"
)

type Route string

const (
	Login      Route = "/login"
	Assessment Route = "/assessment"
	Chat       Route = "/chat"
	History    Route = "/assessment-history"
	Profile    Route = "/profile"
)

// Protected reports whether route needs a session.
func Protected(route Route) bool {
	return route == History || route == Profile
}

type Action int

const (
	Render Action = iota
	Loading
	Redirect
)

// Decision tells the UI what to show for a route. From is set on redirects so
// the login view can return there.
type Decision struct {
	Action Action
	Target Route
	From   Route
}

// Location is the redirect target with the original route as a query value.
func (d Decision) Location() string {
	if d.Action != Redirect {
		return string(d.Target)
	}
	return string(d.Target) + "?" + url.Values{"from": {string(d.From)}}.Encode()
}

// Decide never navigates while the profile check is in flight.
func Decide(session authdto.SessionOutput, route Route) Decision {
	if !Protected(route) {
		return Decision{Action: Render, Target: route}
	}
	if session.Checking {
		return Decision{Action: Loading, Target: route}
	}
	if !session.Authenticated {
		return Decision{Action: Redirect, Target: Login, From: route}
	}
	return Decision{Action: Render, Target: route}
}
