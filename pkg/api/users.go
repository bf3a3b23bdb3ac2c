package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gitforum/gitforum.go/pkg/models"
)

// Me returns the current user's own profile.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/users/me/", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Profile returns another user's public profile.
func (c *Client) Profile(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%s/", username), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies a partial profile update.
func (c *Client) UpdateProfile(ctx context.Context, username string, req models.UpdateProfileRequest) (*models.User, error) {
	if err := c.checkRequest(req); err != nil {
		return nil, err
	}
	var user models.User
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/users/%s/", username), req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UserPosts returns one page of a user's posts.
func (c *Client) UserPosts(ctx context.Context, username string) (*models.Page[models.Post], error) {
	var page models.Page[models.Post]
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%s/posts/", username), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Follow subscribes the current user to username's posts.
func (c *Client) Follow(ctx context.Context, username string) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/users/%s/follow/", username), nil, nil)
}

// Unfollow removes the subscription.
func (c *Client) Unfollow(ctx context.Context, username string) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%s/follow/", username), nil, nil)
}

// Followers returns one page of the users following username.
func (c *Client) Followers(ctx context.Context, username string) (*models.Page[models.User], error) {
	var page models.Page[models.User]
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%s/followers/", username), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Following returns one page of the users username follows.
func (c *Client) Following(ctx context.Context, username string) (*models.Page[models.User], error) {
	var page models.Page[models.User]
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%s/following/", username), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// TopContributors returns the most active authors.
func (c *Client) TopContributors(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, http.MethodGet, "/users/top-contributors/", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SearchUsers finds users by name fragment.
func (c *Client) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	var raw json.RawMessage
	path := "/users/search/?q=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	return decodeArrayOrPage[models.User](raw)
}
