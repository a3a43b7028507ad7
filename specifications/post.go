package specifications

import (
	"context"
	"reflect"
	"testing"

	"microblog"
)

// PostDriver is how a specification talks to a running system.
type PostDriver interface {
	ListPosts(ctx context.Context) ([]microblog.Post, error)
	CreatePost(ctx context.Context, draft microblog.CreatePostRequest) error
}

// CreatingAPostSpecification creates a post and expects it to show up at the
// end of the list with an id equal to the previous list length.
func CreatingAPostSpecification(t testing.TB, driver PostDriver) {
	t.Helper()
	ctx := context.Background()

	before, err := driver.ListPosts(ctx)
	if err != nil {
		t.Fatalf("failed specification test, %v", err)
	}

	draft := microblog.CreatePostRequest{Title: "Test Post", Body: "Some content"}
	if err := driver.CreatePost(ctx, draft); err != nil {
		t.Fatalf("failed specification test, %v", err)
	}

	after, err := driver.ListPosts(ctx)
	if err != nil {
		t.Fatalf("failed specification test, %v", err)
	}

	if len(after) != len(before)+1 {
		t.Fatalf("got %d posts after creating one among %d", len(after), len(before))
	}
	got := after[len(after)-1]
	want := microblog.Post{ID: int64(len(before)), Title: draft.Title, Body: draft.Body}
	if got != want {
		t.Fatalf("got post %+v, but want %+v", got, want)
	}
}

// ListingPostsSpecification expects two consecutive listings with no create
// in between to return identical sequences.
func ListingPostsSpecification(t testing.TB, driver PostDriver) {
	t.Helper()
	ctx := context.Background()

	first, err := driver.ListPosts(ctx)
	if err != nil {
		t.Fatalf("failed specification test, %v", err)
	}
	second, err := driver.ListPosts(ctx)
	if err != nil {
		t.Fatalf("failed specification test, %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("got different listings, %v and %v", first, second)
	}
}
