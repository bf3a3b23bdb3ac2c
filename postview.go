package gitforum

import (
	"context"
	"sync"

	"github.com/gitforum/gitforum.go/pkg/api"
	"github.com/gitforum/gitforum.go/pkg/models"
	"github.com/gitforum/gitforum.go/pkg/optimistic"
)

// PostView is a single loaded post with its interactive like and bookmark
// state.
//
// Both interactions update the local counter/flag pair optimistically
// through an explicit pending state. Likes reconcile against a post re-fetch
// after the server confirms, so the counters match what other users see;
// bookmarks keep the optimistic value on success. A failed round trip rolls
// the pair back to its pre-toggle snapshot.
type PostView struct {
	client *api.Client
	id     string

	mu        sync.Mutex
	post      *models.Post
	likes     *optimistic.Counter
	bookmarks *optimistic.Counter
}

// NewPostView prepares a view of the post with the given id. Call Load
// before anything else.
func NewPostView(client *api.Client, id string) *PostView {
	return &PostView{client: client, id: id}
}

// Load fetches the post and seeds the interaction counters from it.
func (v *PostView) Load(ctx context.Context) error {
	post, err := v.client.GetPost(ctx, v.id)
	if err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.post = post
	v.likes = optimistic.NewCounter(post.LikesCount, post.IsLiked)
	v.bookmarks = optimistic.NewCounter(post.BookmarksCount, post.IsBookmarked)
	return nil
}

// Refresh is Load under its pull-to-refresh name.
func (v *PostView) Refresh(ctx context.Context) error {
	return v.Load(ctx)
}

// Like marks the post liked, optimistically first, then reconciled against
// a re-fetch of the post.
func (v *PostView) Like(ctx context.Context) error {
	return v.toggleLike(ctx, true)
}

// Unlike removes the like, with the same optimistic-then-reconcile shape.
func (v *PostView) Unlike(ctx context.Context) error {
	return v.toggleLike(ctx, false)
}

func (v *PostView) toggleLike(ctx context.Context, liked bool) error {
	v.mu.Lock()
	likes := v.likes
	v.mu.Unlock()
	if likes == nil {
		return ErrNotLoaded
	}

	toggled, err := likes.Begin(liked)
	if err != nil {
		return err
	}
	if !toggled {
		return nil
	}

	if liked {
		_, err = v.client.LikePost(ctx, v.id)
	} else {
		_, err = v.client.UnlikePost(ctx, v.id)
	}
	if err != nil {
		_ = likes.Rollback()
		return err
	}

	// Re-fetch for authoritative counters; keep the optimistic value if the
	// re-fetch itself fails, the toggle did succeed.
	post, err := v.client.GetPost(ctx, v.id)
	if err != nil {
		_ = likes.Confirm()
		return nil
	}
	_ = likes.Reconcile(post.LikesCount, post.IsLiked)
	v.mu.Lock()
	v.post = post
	v.bookmarks = optimistic.NewCounter(post.BookmarksCount, post.IsBookmarked)
	v.mu.Unlock()
	return nil
}

// Bookmark saves the post for the current user, keeping the optimistic
// counter on success.
func (v *PostView) Bookmark(ctx context.Context) error {
	return v.toggleBookmark(ctx, true)
}

// Unbookmark removes the saved post.
func (v *PostView) Unbookmark(ctx context.Context) error {
	return v.toggleBookmark(ctx, false)
}

func (v *PostView) toggleBookmark(ctx context.Context, saved bool) error {
	v.mu.Lock()
	bookmarks := v.bookmarks
	v.mu.Unlock()
	if bookmarks == nil {
		return ErrNotLoaded
	}

	toggled, err := bookmarks.Begin(saved)
	if err != nil {
		return err
	}
	if !toggled {
		return nil
	}

	if saved {
		err = v.client.BookmarkPost(ctx, v.id)
	} else {
		err = v.client.UnbookmarkPost(ctx, v.id)
	}
	if err != nil {
		_ = bookmarks.Rollback()
		return err
	}
	return bookmarks.Confirm()
}

// Post returns a snapshot of the post with the interaction counters folded
// in, or nil before Load.
func (v *PostView) Post() *models.Post {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.post == nil {
		return nil
	}
	snapshot := *v.post
	snapshot.LikesCount, snapshot.IsLiked = v.likes.Value()
	snapshot.BookmarksCount, snapshot.IsBookmarked = v.bookmarks.Value()
	return &snapshot
}
