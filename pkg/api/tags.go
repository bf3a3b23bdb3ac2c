package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gitforum/gitforum.go/pkg/models"
)

// ListTags returns the popular tags.
func (c *Client) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := c.do(ctx, http.MethodGet, "/tags/", nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// TagPosts returns one page of the posts carrying the named tag.
func (c *Client) TagPosts(ctx context.Context, name string) (*models.Page[models.Post], error) {
	var page models.Page[models.Post]
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/tags/%s/posts/", name), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
