package client

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Route is the closed set of navigable views.
type Route interface {
	isRoute()
}

type HomeRoute struct{}

type AboutRoute struct{}

type ShowPostRoute struct {
	ID int64
}

type NotFoundRoute struct{}

func (HomeRoute) isRoute()     {}
func (AboutRoute) isRoute()    {}
func (ShowPostRoute) isRoute() {}
func (NotFoundRoute) isRoute() {}

var ErrBadLocation = errors.New("client: unresolvable location")

// ResolveRoute maps a location path to a Route. Locations come from the
// environment's navigation primitive and carry already-validated paths, so
// a post segment without an integer id is not a NotFoundRoute but an
// ErrBadLocation the caller treats as unrecoverable.
func ResolveRoute(location string) (Route, error) {
	segments := splitPath(location)
	switch {
	case len(segments) == 0:
		return HomeRoute{}, nil
	case len(segments) == 1 && segments[0] == "about":
		return AboutRoute{}, nil
	case len(segments) == 2 && segments[0] == "post":
		id, err := strconv.ParseInt(segments[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad post id %q in %q", ErrBadLocation, segments[1], location)
		}
		return ShowPostRoute{ID: id}, nil
	default:
		return NotFoundRoute{}, nil
	}
}

func splitPath(location string) []string {
	if i := strings.IndexAny(location, "?#"); i >= 0 {
		location = location[:i]
	}
	trimmed := strings.Trim(location, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
