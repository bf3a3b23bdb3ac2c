package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gitforum/gitforum.go/pkg/models"
)

// PostFilters narrows ListPosts results. Zero-valued fields are omitted from
// the query string.
type PostFilters struct {
	Page           int
	Language       string
	Search         string
	Ordering       string
	AuthorUsername string
}

func (f PostFilters) query() string {
	params := url.Values{}
	if f.Page > 0 {
		params.Set("page", strconv.Itoa(f.Page))
	}
	if f.Language != "" {
		params.Set("language", f.Language)
	}
	if f.Search != "" {
		params.Set("search", f.Search)
	}
	if f.Ordering != "" {
		params.Set("ordering", f.Ordering)
	}
	if f.AuthorUsername != "" {
		params.Set("author__username", f.AuthorUsername)
	}
	if len(params) == 0 {
		return ""
	}
	return "?" + params.Encode()
}

// LikeResult is the counter snapshot returned by the like endpoints.
type LikeResult struct {
	LikesCount int  `json:"likes_count"`
	IsLiked    bool `json:"is_liked"`
}

// TrendingPeriod selects the window for Trending.
type TrendingPeriod string

const (
	TrendingToday TrendingPeriod = "today"
	TrendingWeek  TrendingPeriod = "week"
	TrendingMonth TrendingPeriod = "month"
)

// ListPosts returns one page of posts matching the filters.
func (c *Client) ListPosts(ctx context.Context, filters PostFilters) (*models.Page[models.Post], error) {
	var page models.Page[models.Post]
	if err := c.do(ctx, http.MethodGet, "/posts/"+filters.query(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetPost fetches a single post with its full code body.
func (c *Client) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/posts/%s/", id), nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// CreatePost publishes a new snippet.
func (c *Client) CreatePost(ctx context.Context, req models.CreatePostRequest) (*models.Post, error) {
	if err := c.checkRequest(req); err != nil {
		return nil, err
	}
	var post models.Post
	if err := c.do(ctx, http.MethodPost, "/posts/", req, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// EditPost applies a partial update; a non-empty CommitMessage records a
// revision history entry.
func (c *Client) EditPost(ctx context.Context, id string, req models.EditPostRequest) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/posts/%s/", id), req, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost removes a post owned by the current user.
func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/posts/%s/", id), nil, nil)
}

// LikePost marks the post liked by the current user.
func (c *Client) LikePost(ctx context.Context, id string) (*LikeResult, error) {
	var result LikeResult
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/posts/%s/like/", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UnlikePost removes the current user's like.
func (c *Client) UnlikePost(ctx context.Context, id string) (*LikeResult, error) {
	var result LikeResult
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/posts/%s/like/", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// BookmarkPost adds the post to the current user's bookmarks.
func (c *Client) BookmarkPost(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/posts/%s/bookmark/", id), nil, nil)
}

// UnbookmarkPost removes the post from the current user's bookmarks.
func (c *Client) UnbookmarkPost(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/posts/%s/bookmark/", id), nil, nil)
}

// Bookmarks returns one page of the current user's bookmarked posts.
func (c *Client) Bookmarks(ctx context.Context) (*models.Page[models.Post], error) {
	var page models.Page[models.Post]
	if err := c.do(ctx, http.MethodGet, "/bookmarks/", nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Trending returns the trending posts for the period. widget asks the
// backend for the trimmed sidebar-widget variant.
func (c *Client) Trending(ctx context.Context, period TrendingPeriod, widget bool) ([]models.Post, error) {
	if period == "" {
		period = TrendingWeek
	}
	params := url.Values{"period": {string(period)}}
	if widget {
		params.Set("widget", "true")
	}
	var posts []models.Post
	if err := c.do(ctx, http.MethodGet, "/trending/?"+params.Encode(), nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Stats returns the platform-wide counters.
func (c *Client) Stats(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats
	if err := c.do(ctx, http.MethodGet, "/stats/", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Revisions returns a post's edit history. The endpoint has shipped both
// bare-array and paginated shapes; both are accepted.
func (c *Client) Revisions(ctx context.Context, id string) ([]models.PostRevision, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/posts/%s/revisions/", id), nil, &raw); err != nil {
		return nil, err
	}
	return decodeArrayOrPage[models.PostRevision](raw)
}

// decodeArrayOrPage accepts either a bare JSON array or a pagination
// envelope, returning the results either way.
func decodeArrayOrPage[T any](raw json.RawMessage) ([]T, error) {
	var items []T
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}
	var page models.Page[T]
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return page.Results, nil
}
