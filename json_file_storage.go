package microblog

import (
	"fmt"
	"os"
	"sync"
)

// JSONFileStorage keeps the whole post collection in a single JSON file.
// The file is the only durable state: every read parses it in full and
// every create rewrites it in full. The mutex serializes the
// read-append-write of CreatePost so that two concurrent creates cannot
// observe the same length and hand out the same id. Writers in other
// processes are not guarded against.
type JSONFileStorage struct {
	mu   sync.Mutex
	path string
}

func NewJSONFileStorage(path string) *JSONFileStorage {
	return &JSONFileStorage{path: path}
}

// Init writes an empty collection when the backing file does not exist yet.
// An existing file is left alone.
func (s *JSONFileStorage) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", ErrReadFailure, err)
	}
	return s.writeAll(nil)
}

func (s *JSONFileStorage) readAll() ([]Post, error) {
	text, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadFailure, err)
	}
	return DecodePosts(text)
}

// writeAll truncates the file and writes the encoded collection in place.
func (s *JSONFileStorage) writeAll(posts []Post) error {
	text, err := EncodePosts(posts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, text, 0644); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	return nil
}

func (s *JSONFileStorage) GetPosts() ([]Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAll()
}

// CreatePost appends a post whose id is the number of posts already stored
// and rewrites the whole file.
func (s *JSONFileStorage) CreatePost(draft CreatePostRequest) (Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	posts, err := s.readAll()
	if err != nil {
		return Post{}, err
	}
	post := Post{ID: int64(len(posts)), Title: draft.Title, Body: draft.Body}
	if err := s.writeAll(append(posts, post)); err != nil {
		return Post{}, err
	}
	return post, nil
}
