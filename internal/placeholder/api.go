// Package placeholder fetches posts from the JSONPlaceholder REST API.
package placeholder

import (
	"context"
	"fmt"
	"log/slog"
	"maps"

	httputil "github.com/lepinkainen/postboard/pkg/http"
	"github.com/lepinkainen/postboard/pkg/viewmodel"
)

// PostsURL is the public posts endpoint
const PostsURL = "https://jsonplaceholder.typicode.com/posts"

// Client implements viewmodel.PostSource for a posts endpoint
type Client struct {
	http *httputil.Client
	url  string
}

var _ viewmodel.PostSource = (*Client)(nil)

// NewClient creates a posts client. An empty url uses PostsURL, a nil config the HTTP defaults.
func NewClient(url string, config *httputil.ClientConfig) *Client {
	if url == "" {
		url = PostsURL
	}
	if config == nil {
		config = httputil.DefaultConfig()
	}

	// the caller's config stays untouched
	cfg := *config
	cfg.Headers = maps.Clone(config.Headers)
	if cfg.Headers == nil {
		cfg.Headers = make(map[string]string)
	}
	cfg.Headers["Accept"] = "application/json"

	return &Client{
		http: httputil.NewClient(&cfg),
		url:  url,
	}
}

// URL returns the endpoint the client fetches from
func (c *Client) URL() string {
	return c.url
}

// FetchPosts issues one GET and decodes the JSON array of posts
func (c *Client) FetchPosts(ctx context.Context) ([]viewmodel.RemotePost, error) {
	slog.Debug("Fetching posts from API", "url", c.url)

	resp, err := c.http.GetWithContext(ctx, c.url)
	if err != nil {
		return nil, fmt.Errorf("error fetching posts: %w", err)
	}

	var posts []viewmodel.RemotePost
	if err := httputil.DecodeJSONResponse(resp, &posts); err != nil {
		return nil, fmt.Errorf("error reading posts: %w", err)
	}

	slog.Debug("Successfully fetched posts", "count", len(posts))
	return posts, nil
}
