package microblog

import "sync"

// InMemoryStorage implements Storage without touching disk, with the same
// id rule as the file-backed storage. It backs tests and the -memory mode
// of cmd/httpserver.
type InMemoryStorage struct {
	mu    sync.Mutex
	posts []Post
}

func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{}
}

func (s *InMemoryStorage) GetPosts() ([]Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	posts := make([]Post, len(s.posts))
	copy(posts, s.posts)
	return posts, nil
}

func (s *InMemoryStorage) CreatePost(draft CreatePostRequest) (Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	post := Post{ID: int64(len(s.posts)), Title: draft.Title, Body: draft.Body}
	s.posts = append(s.posts, post)
	return post, nil
}
