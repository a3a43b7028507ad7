package microblog

import "errors"

// Storage is the persistence contract for posts. Implementations keep
// insertion order and assign each new post an id equal to the number of
// posts already stored.
type Storage interface {
	GetPosts() ([]Post, error)
	CreatePost(draft CreatePostRequest) (Post, error)
}

var (
	ErrReadFailure  = errors.New("ERR_STORAGE_READ")
	ErrWriteFailure = errors.New("ERR_STORAGE_WRITE")
)
