package client

import (
	"context"
	"fmt"
	"log/slog"

	"microblog"
)

// PostService is what the update loop needs from the backend.
type PostService interface {
	ListPosts(ctx context.Context) ([]microblog.Post, error)
	CreatePost(ctx context.Context, draft microblog.CreatePostRequest) error
}

// locationFailed is an internal message carrying an unresolvable location;
// it ends the loop with the resolver's error.
type locationFailed struct {
	err error
}

func (locationFailed) isMsg() {}

// Program owns the Model and runs the update loop. Messages are processed
// strictly one at a time; effects run in their own goroutines and re-enter
// the loop as completion messages, so model mutation stays sequential.
// In-flight effects are never cancelled by navigation: a stale completion
// still lands in the loop.
type Program struct {
	api      PostService
	env      Environment
	logger   *slog.Logger
	msgs     chan Msg
	model    Model
	onUpdate func(Model) error
}

func NewProgram(api PostService, env Environment) *Program {
	return &Program{
		api:    api,
		env:    env,
		logger: slog.Default(),
		msgs:   make(chan Msg, 16),
	}
}

// SetLogger replaces the logger used for non-fatal effect failures.
func (p *Program) SetLogger(logger *slog.Logger) {
	if logger != nil {
		p.logger = logger
	}
}

// OnUpdate registers fn to run inside the loop after every processed
// message with a copy of the model. An error from fn stops the program;
// rendering belongs here.
func (p *Program) OnUpdate(fn func(Model) error) {
	p.onUpdate = fn
}

// Dispatch queues msg for the update loop.
func (p *Program) Dispatch(msg Msg) {
	p.msgs <- msg
}

// Run seeds the model from the current location, issues the initial post
// fetch, subscribes to navigation, and processes messages until ctx is done
// or a fatal message arrives.
func (p *Program) Run(ctx context.Context) error {
	route, err := ResolveRoute(p.env.Location())
	if err != nil {
		return err
	}
	p.model = Model{Route: route}

	go p.fetchPosts(ctx)
	go p.watchLocations(ctx)

	if err := p.notify(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-p.msgs:
			if err := p.update(ctx, msg); err != nil {
				return err
			}
			if err := p.notify(); err != nil {
				return err
			}
		}
	}
}

func (p *Program) notify() error {
	if p.onUpdate == nil {
		return nil
	}
	return p.onUpdate(p.model)
}

func (p *Program) update(ctx context.Context, msg Msg) error {
	switch msg := msg.(type) {
	case RouteChanged:
		p.model.Route = msg.Route
	case GotPosts:
		if msg.Err != nil {
			return fmt.Errorf("fetch posts: %w", msg.Err)
		}
		p.model.Posts = msg.Posts
	case TitleUpdated:
		p.model.TitleDraft = msg.Value
	case BodyUpdated:
		p.model.BodyDraft = msg.Value
	case SubmitPost:
		draft := microblog.CreatePostRequest{
			Title: p.model.TitleDraft,
			Body:  p.model.BodyDraft,
		}
		go p.createPost(ctx, draft)
	case PostCreated:
		if msg.Err != nil {
			p.logger.Warn("create post failed", "err", msg.Err)
		}
		go p.fetchPosts(ctx)
	case locationFailed:
		return msg.err
	}
	return nil
}

func (p *Program) fetchPosts(ctx context.Context) {
	posts, err := p.api.ListPosts(ctx)
	p.msgs <- GotPosts{Posts: posts, Err: err}
}

func (p *Program) createPost(ctx context.Context, draft microblog.CreatePostRequest) {
	p.msgs <- PostCreated{Err: p.api.CreatePost(ctx, draft)}
}

func (p *Program) watchLocations(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case location, ok := <-p.env.Locations():
			if !ok {
				return
			}
			route, err := ResolveRoute(location)
			if err != nil {
				p.msgs <- locationFailed{err}
				return
			}
			p.msgs <- RouteChanged{Route: route}
		}
	}
}
