package client

import (
	"errors"
	"fmt"
	"strings"

	"microblog"
)

// Model is the whole client state. It is created once when the program
// starts and mutated only by the update loop, one message at a time. It is
// never persisted; a restart rebuilds it by refetching.
type Model struct {
	Route      Route
	Posts      []microblog.Post
	TitleDraft string
	BodyDraft  string
}

// Msg is the closed set of inputs to the update loop. User input and
// completed network effects both arrive as messages.
type Msg interface {
	isMsg()
}

// RouteChanged reports a navigation resolved by ResolveRoute.
type RouteChanged struct {
	Route Route
}

// GotPosts delivers the outcome of a list-posts effect. A non-nil Err stops
// the program: an unreachable backend is treated as unrecoverable.
type GotPosts struct {
	Posts []microblog.Post
	Err   error
}

// TitleUpdated and BodyUpdated carry form input into the drafts.
type TitleUpdated struct {
	Value string
}

type BodyUpdated struct {
	Value string
}

// SubmitPost asks for a create-post effect built from the current drafts.
type SubmitPost struct{}

// PostCreated delivers the outcome of a create-post effect. The list is
// refetched either way.
type PostCreated struct {
	Err error
}

func (RouteChanged) isMsg() {}
func (GotPosts) isMsg()     {}
func (TitleUpdated) isMsg() {}
func (BodyUpdated) isMsg()  {}
func (SubmitPost) isMsg()   {}
func (PostCreated) isMsg()  {}

var ErrPostNotFound = errors.New("client: no such post")

// Render produces the plain-text view of the current route. It is a pure
// function of the model. Showing a post that is not in the model errors,
// which stops the program when rendering happens inside the loop.
func (m *Model) Render() (string, error) {
	switch route := m.Route.(type) {
	case HomeRoute:
		var b strings.Builder
		b.WriteString("Posts\n")
		for _, p := range m.Posts {
			fmt.Fprintf(&b, "- [%d] %s\n", p.ID, p.Title)
		}
		return b.String(), nil
	case AboutRoute:
		return "A minimal blog.\n", nil
	case ShowPostRoute:
		for _, p := range m.Posts {
			if p.ID == route.ID {
				return fmt.Sprintf("%s\n\n%s\n", p.Title, p.Body), nil
			}
		}
		return "", fmt.Errorf("%w: id %d", ErrPostNotFound, route.ID)
	case NotFoundRoute:
		return "Not found.\n", nil
	default:
		return "", fmt.Errorf("%w: unknown route %T", ErrBadLocation, m.Route)
	}
}
