package microblog

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrSchemaMismatch = errors.New("ERR_SCHEMA_MISMATCH")

// postRecord mirrors Post with pointer fields so that absent keys can be
// told apart from zero values during decoding.
type postRecord struct {
	ID    *int64  `json:"id"`
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

// DecodePosts parses text as a JSON array of post objects. Every element
// must carry an integer id and string title and body. A missing field, a
// wrong type, a negative id or a non-array top level rejects the whole
// document; there is no partial recovery of valid entries.
func DecodePosts(text []byte) ([]Post, error) {
	var records []postRecord
	if err := json.Unmarshal(text, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	if records == nil {
		return nil, fmt.Errorf("%w: top level is not an array", ErrSchemaMismatch)
	}
	posts := make([]Post, 0, len(records))
	for i, record := range records {
		if record.ID == nil || record.Title == nil || record.Body == nil {
			return nil, fmt.Errorf("%w: entry %d is missing id, title or body", ErrSchemaMismatch, i)
		}
		if *record.ID < 0 {
			return nil, fmt.Errorf("%w: entry %d has negative id %d", ErrSchemaMismatch, i, *record.ID)
		}
		posts = append(posts, Post{ID: *record.ID, Title: *record.Title, Body: *record.Body})
	}
	return posts, nil
}

// EncodePosts serializes posts as a JSON array with fields in id, title,
// body order. Encoding the same sequence always yields the same bytes, and
// DecodePosts(EncodePosts(posts)) gives posts back.
func EncodePosts(posts []Post) ([]byte, error) {
	if posts == nil {
		posts = []Post{}
	}
	text, err := json.Marshal(posts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	return text, nil
}

type createRecord struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

// DecodeCreatePostRequest parses the body of a create request. Both title
// and body must be present as strings.
func DecodeCreatePostRequest(text []byte) (CreatePostRequest, error) {
	var record createRecord
	if err := json.Unmarshal(text, &record); err != nil {
		return CreatePostRequest{}, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	if record.Title == nil || record.Body == nil {
		return CreatePostRequest{}, fmt.Errorf("%w: missing title or body", ErrSchemaMismatch)
	}
	return CreatePostRequest{Title: *record.Title, Body: *record.Body}, nil
}
