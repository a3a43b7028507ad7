package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"microblog"
)

// API issues the network effects against the backend and decodes responses
// with the shared codec. It also serves as the driver for the
// specifications package.
type API struct {
	BaseURL string
	Client  *http.Client
}

func NewAPI(baseURL string) *API {
	return &API{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *API) ListPosts(ctx context.Context) ([]microblog.Post, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.BaseURL+"/posts", nil)
	if err != nil {
		return nil, err
	}
	res, err := a.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list posts: unexpected status %d", res.StatusCode)
	}
	text, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return microblog.DecodePosts(text)
}

func (a *API) CreatePost(ctx context.Context, draft microblog.CreatePostRequest) error {
	body, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+"/posts", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := a.Client.Do(req)
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("create post: unexpected status %d", res.StatusCode)
	}
	return nil
}
