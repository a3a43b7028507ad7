package client_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"microblog"
	"microblog/client"
)

type stubPostService struct {
	mu        sync.Mutex
	posts     []microblog.Post
	listErr   error
	createErr error
	listCalls int
	created   []microblog.CreatePostRequest
}

func (s *stubPostService) ListPosts(ctx context.Context) ([]microblog.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	posts := make([]microblog.Post, len(s.posts))
	copy(posts, s.posts)
	return posts, nil
}

func (s *stubPostService) CreatePost(ctx context.Context, draft microblog.CreatePostRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, draft)
	return nil
}

func (s *stubPostService) listCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listCalls
}

func (s *stubPostService) createdDrafts() []microblog.CreatePostRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	drafts := make([]microblog.CreatePostRequest, len(s.created))
	copy(drafts, s.created)
	return drafts
}

// startProgram runs a program against api from location, feeding every model
// snapshot into the returned channel and the final error into errc.
func startProgram(t testing.TB, api client.PostService, location string) (*client.Program, *client.LocationFeed, <-chan client.Model, <-chan error) {
	t.Helper()

	env := client.NewLocationFeed(location)
	program := client.NewProgram(api, env)
	models := make(chan client.Model, 64)
	program.OnUpdate(func(m client.Model) error {
		models <- m
		_, err := m.Render()
		return err
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	errc := make(chan error, 1)
	go func() {
		errc <- program.Run(ctx)
	}()
	return program, env, models, errc
}

func waitForModel(t testing.TB, models <-chan client.Model, ok func(client.Model) bool) client.Model {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case m := <-models:
			if ok(m) {
				return m
			}
		case <-deadline:
			t.Fatal("timed out waiting for the expected model")
			return client.Model{}
		}
	}
}

func waitForError(t testing.TB, errc <-chan error) error {
	t.Helper()

	select {
	case err := <-errc:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the program to stop")
		return nil
	}
}

func hasPosts(m client.Model) bool { return len(m.Posts) > 0 }

func TestProgramStartup(t *testing.T) {
	t.Run("seeds the route and fetches the post list", func(t *testing.T) {
		api := &stubPostService{posts: []microblog.Post{{ID: 0, Title: "Hello", Body: "hi"}}}

		_, _, models, _ := startProgram(t, api, "/about")

		got := waitForModel(t, models, hasPosts)
		if got.Route != (client.AboutRoute{}) {
			t.Errorf("got route %v, want the about route", got.Route)
		}
		if got.Posts[0].Title != "Hello" {
			t.Errorf("got posts %v, want the fetched ones", got.Posts)
		}
	})

	t.Run("stops right away on an unresolvable startup location", func(t *testing.T) {
		api := &stubPostService{}
		env := client.NewLocationFeed("/post/latest")
		program := client.NewProgram(api, env)

		err := program.Run(context.Background())

		if !errors.Is(err, client.ErrBadLocation) {
			t.Fatalf("got error %v, want %v", err, client.ErrBadLocation)
		}
	})

	t.Run("treats a failed initial fetch as fatal", func(t *testing.T) {
		listErr := errors.New("backend is down")
		api := &stubPostService{listErr: listErr}

		_, _, _, errc := startProgram(t, api, "/")

		if err := waitForError(t, errc); !errors.Is(err, listErr) {
			t.Fatalf("got error %v, want %v", err, listErr)
		}
	})
}

func TestProgramNavigation(t *testing.T) {
	t.Run("route changes land in the model", func(t *testing.T) {
		api := &stubPostService{posts: []microblog.Post{{ID: 0, Title: "Hello", Body: "hi"}}}

		_, env, models, _ := startProgram(t, api, "/")
		waitForModel(t, models, hasPosts)

		env.Navigate("/about")

		waitForModel(t, models, func(m client.Model) bool {
			return m.Route == client.Route(client.AboutRoute{})
		})
	})

	t.Run("navigating to a loaded post renders it", func(t *testing.T) {
		api := &stubPostService{posts: []microblog.Post{{ID: 3, Title: "Third", Body: "the third body"}}}

		_, env, models, _ := startProgram(t, api, "/")
		waitForModel(t, models, hasPosts)

		env.Navigate("/post/3")

		got := waitForModel(t, models, func(m client.Model) bool {
			return m.Route == client.Route(client.ShowPostRoute{ID: 3})
		})
		out, err := got.Render()
		if err != nil {
			t.Fatalf("didn't expect an error but got %v", err)
		}
		if out == "" {
			t.Error("rendered an empty post view")
		}
	})

	t.Run("navigating to a missing post stops the program", func(t *testing.T) {
		api := &stubPostService{posts: []microblog.Post{{ID: 0, Title: "Hello", Body: "hi"}}}

		_, env, models, errc := startProgram(t, api, "/")
		waitForModel(t, models, hasPosts)

		env.Navigate("/post/7")

		if err := waitForError(t, errc); !errors.Is(err, client.ErrPostNotFound) {
			t.Fatalf("got error %v, want %v", err, client.ErrPostNotFound)
		}
	})

	t.Run("an unresolvable navigation stops the program", func(t *testing.T) {
		api := &stubPostService{}

		_, env, _, errc := startProgram(t, api, "/")

		env.Navigate("/post/not-a-number")

		if err := waitForError(t, errc); !errors.Is(err, client.ErrBadLocation) {
			t.Fatalf("got error %v, want %v", err, client.ErrBadLocation)
		}
	})
}

func TestProgramCreatePost(t *testing.T) {
	t.Run("submit sends the drafts and refetches", func(t *testing.T) {
		api := &stubPostService{}

		program, _, models, _ := startProgram(t, api, "/")

		program.Dispatch(client.TitleUpdated{Value: "A title"})
		program.Dispatch(client.BodyUpdated{Value: "a body"})
		waitForModel(t, models, func(m client.Model) bool {
			return m.TitleDraft == "A title" && m.BodyDraft == "a body"
		})

		program.Dispatch(client.SubmitPost{})

		deadline := time.After(2 * time.Second)
		for api.listCount() < 2 {
			select {
			case <-deadline:
				t.Fatal("timed out waiting for the refetch")
			case <-time.After(10 * time.Millisecond):
			}
		}
		drafts := api.createdDrafts()
		if len(drafts) != 1 {
			t.Fatalf("got %d create calls, want 1", len(drafts))
		}
		want := microblog.CreatePostRequest{Title: "A title", Body: "a body"}
		if drafts[0] != want {
			t.Errorf("got draft %+v, want %+v", drafts[0], want)
		}
	})

	t.Run("a failed create still refetches", func(t *testing.T) {
		api := &stubPostService{createErr: errors.New("storage broke")}

		program, _, _, errc := startProgram(t, api, "/")

		program.Dispatch(client.SubmitPost{})

		deadline := time.After(2 * time.Second)
		for api.listCount() < 2 {
			select {
			case <-deadline:
				t.Fatal("timed out waiting for the refetch")
			case <-time.After(10 * time.Millisecond):
			}
		}
		select {
		case err := <-errc:
			t.Fatalf("program stopped on a failed create, %v", err)
		default:
		}
	})
}
