package annotation

import (
	"strings"

	"github.com/vvka-141/arkroute/pkg/arkroute"
)

// State is the phase of the open route candidate of one file.
type State int

const (
	// StateIdle means no Route annotation is open.
	StateIdle State = iota
	// StateRouteMatched means a route name was captured and a page identifier is awaited.
	StateRouteMatched
	// StateComplete means both parts are known and the match can be emitted.
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRouteMatched:
		return "route-matched"
	case StateComplete:
		return "complete"
	}
	return "unknown"
}

// Candidate is the partial match carried from one top-level node to the next.
// It is a value; every transition returns a new Candidate.
type Candidate struct {
	routeName   string
	description string
	page        string
}

// State derives the phase from the captured fields.
func (c Candidate) State() State {
	switch {
	case c.routeName == "":
		return StateIdle
	case c.page == "":
		return StateRouteMatched
	default:
		return StateComplete
	}
}

// OnRoute replaces the candidate with a freshly opened route. A blank name
// leaves the candidate idle.
func (c Candidate) OnRoute(name, description string) Candidate {
	if strings.TrimSpace(name) == "" {
		name = ""
	}
	return Candidate{routeName: name, description: description}
}

// OnIdentifier records the page identifier of an open route. It is ignored
// while idle and for the struct keyword.
func (c Candidate) OnIdentifier(id string) Candidate {
	if c.routeName == "" || id == "" || id == arkroute.ReservedStructKey {
		return c
	}
	c.page = id
	return c
}

// Settle emits a complete candidate unless a match for the same page was
// already emitted in this file, in which case the candidate stays open.
func (c Candidate) Settle(emitted map[string]bool) (Candidate, arkroute.PageMatch, bool) {
	if c.State() != StateComplete || emitted[c.page] {
		return c, arkroute.PageMatch{}, false
	}
	return Candidate{}, c.Match(), true
}

// Match returns the candidate's fields as a PageMatch.
func (c Candidate) Match() arkroute.PageMatch {
	return arkroute.PageMatch{
		RouteName:      c.routeName,
		Description:    c.description,
		PageIdentifier: c.page,
	}
}
