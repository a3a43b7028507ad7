package microblog

// Post is the persisted blog record. Ids are assigned by the storage at
// creation time and are stable once written.
type Post struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

func NewPost(id int64, title, body string) *Post {
	return &Post{
		ID:    id,
		Title: title,
		Body:  body,
	}
}

// CreatePostRequest carries the fields of a post about to be created. It is
// never persisted as its own record.
type CreatePostRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}
