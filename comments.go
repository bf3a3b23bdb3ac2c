package gitforum

import (
	"context"
	"sync"

	"github.com/gitforum/gitforum.go/pkg/api"
	"github.com/gitforum/gitforum.go/pkg/commenttree"
	"github.com/gitforum/gitforum.go/pkg/models"
)

// Comments is the thread state for one post's comment tree.
//
// Mutations are confirmed by the server first and applied to the local tree
// afterward, so the tree only ever contains comments the backend accepted.
// The tree itself is immutable: every mutation swaps in a freshly built tree
// from pkg/commenttree, leaving snapshots handed out earlier untouched.
type Comments struct {
	client *api.Client
	postID string

	mu       sync.Mutex
	comments []models.Comment
}

// NewComments prepares the thread for postID. Call Load before anything
// else.
func NewComments(client *api.Client, postID string) *Comments {
	return &Comments{client: client, postID: postID}
}

// Load fetches the first page of the thread, replacing local state.
func (c *Comments) Load(ctx context.Context) error {
	page, err := c.client.ListComments(ctx, c.postID)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.comments = page.Results
	return nil
}

// Add submits a top-level comment and appends the server's version of it to
// the thread.
func (c *Comments) Add(ctx context.Context, content string) (*models.Comment, error) {
	comment, err := c.client.AddComment(ctx, c.postID, content, nil)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.comments = append(c.comments[:len(c.comments):len(c.comments)], *comment)
	return comment, nil
}

// Reply submits a reply under parentID and inserts the server's version of
// it into the tree. If the parent vanished from the local tree in the
// meantime the insertion is a no-op; Load brings the thread back in sync.
func (c *Comments) Reply(ctx context.Context, parentID, content string) (*models.Comment, error) {
	reply, err := c.client.AddComment(ctx, c.postID, content, &parentID)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.comments = commenttree.InsertReply(c.comments, parentID, *reply)
	return reply, nil
}

// Delete removes a comment server-side and drops it, with its whole reply
// subtree, from the local tree.
func (c *Comments) Delete(ctx context.Context, commentID string) error {
	if err := c.client.DeleteComment(ctx, commentID); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.comments = commenttree.RemoveNode(c.comments, commentID)
	return nil
}

// Tree returns the current comment tree. Treat it as read-only; mutations go
// through the methods above.
func (c *Comments) Tree() []models.Comment {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.comments
}
