package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"xuyenblog/models"
)

// Client talks to the resource store over its REST surface. Each method maps
// to a single round-trip; multi-step consistency sequences live in the
// engagement package, not here.
type Client struct {
	base string
	http *http.Client
}

var _ Store = (*Client)(nil)

func NewClient(baseURL string) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// Ping checks that the store is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.base + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400:
		return fmt.Errorf("%w: %s %s returned %d", ErrUnavailable, method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decoding %s response: %v", ErrUnavailable, path, err)
		}
	}
	return nil
}

// Users

func (c *Client) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/users/"+id, nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) ListUsers(ctx context.Context, filter url.Values) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, http.MethodGet, "/users", filter, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) CreateUser(ctx context.Context, u *models.User) error {
	return c.do(ctx, http.MethodPost, "/users", nil, u, u)
}

func (c *Client) UpdateUser(ctx context.Context, u *models.User) error {
	return c.do(ctx, http.MethodPut, "/users/"+u.ID, nil, u, u)
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+id, nil, nil, nil)
}

// Posts

func (c *Client) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var p models.Post
	if err := c.do(ctx, http.MethodGet, "/posts/"+id, nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) ListPosts(ctx context.Context, filter url.Values) ([]models.Post, error) {
	var posts []models.Post
	if err := c.do(ctx, http.MethodGet, "/posts", filter, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) CreatePost(ctx context.Context, p *models.Post) error {
	return c.do(ctx, http.MethodPost, "/posts", nil, p, p)
}

func (c *Client) UpdatePost(ctx context.Context, p *models.Post) error {
	return c.do(ctx, http.MethodPut, "/posts/"+p.ID, nil, p, p)
}

func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/posts/"+id, nil, nil, nil)
}

// Comments

func (c *Client) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	var cm models.Comment
	if err := c.do(ctx, http.MethodGet, "/comments/"+id, nil, nil, &cm); err != nil {
		return nil, err
	}
	return &cm, nil
}

func (c *Client) ListComments(ctx context.Context, filter url.Values) ([]models.Comment, error) {
	var comments []models.Comment
	if err := c.do(ctx, http.MethodGet, "/comments", filter, nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (c *Client) CreateComment(ctx context.Context, cm *models.Comment) error {
	return c.do(ctx, http.MethodPost, "/comments", nil, cm, cm)
}

func (c *Client) DeleteComment(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/comments/"+id, nil, nil, nil)
}

// Likes

func (c *Client) ListLikes(ctx context.Context, filter url.Values) ([]models.Like, error) {
	var likes []models.Like
	if err := c.do(ctx, http.MethodGet, "/likes", filter, nil, &likes); err != nil {
		return nil, err
	}
	return likes, nil
}

func (c *Client) CreateLike(ctx context.Context, l *models.Like) error {
	return c.do(ctx, http.MethodPost, "/likes", nil, l, l)
}

func (c *Client) DeleteLike(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/likes/"+id, nil, nil, nil)
}
