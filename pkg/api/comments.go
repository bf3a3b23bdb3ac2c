package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gitforum/gitforum.go/pkg/models"
)

// ListComments returns one page of a post's comment tree. Top-level comments
// arrive with their reply subtrees nested.
func (c *Client) ListComments(ctx context.Context, postID string) (*models.Page[models.Comment], error) {
	var page models.Page[models.Comment]
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/posts/%s/comments/", postID), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// AddComment posts a comment on postID. parent is nil for a top-level
// comment, or the id of the comment being replied to.
func (c *Client) AddComment(ctx context.Context, postID, content string, parent *string) (*models.Comment, error) {
	req := models.AddCommentRequest{Content: content, Parent: parent}
	if err := c.checkRequest(req); err != nil {
		return nil, err
	}
	var comment models.Comment
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/posts/%s/comments/", postID), req, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes a comment owned by the current user. The backend
// cascades to its replies.
func (c *Client) DeleteComment(ctx context.Context, commentID string) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/comments/%s/", commentID), nil, nil)
}
