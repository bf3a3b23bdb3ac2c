// Package commenttree implements pure transformations over a post's nested
// comment tree.
//
// A tree is a []models.Comment of top-level comments, each carrying its
// replies recursively. Both operations return a freshly built tree and never
// mutate their input: every node on a changed path is a new value, so callers
// comparing old and new state see the change, while untouched subtrees may be
// shared. Operations are O(n) in the node count, which is fine at comment
// scale (dozens per post, not millions).
package commenttree

import (
	"slices"

	"github.com/gitforum/gitforum.go/pkg/models"
)

// InsertReply appends reply to the replies of the node with id parentID,
// wherever it sits in the tree, and increments that node's RepliesCount.
// When parentID is absent from the tree (for example the parent was deleted
// between render and submit), the tree is returned unchanged; issuing the
// reply call in that situation is the caller's mistake, not an error here.
func InsertReply(tree []models.Comment, parentID string, reply models.Comment) []models.Comment {
	out := make([]models.Comment, len(tree))
	for i, c := range tree {
		if c.ID == parentID {
			c.Replies = append(slices.Clone(c.Replies), reply)
			c.RepliesCount++
		} else if len(c.Replies) > 0 {
			c.Replies = InsertReply(c.Replies, parentID, reply)
		}
		out[i] = c
	}
	return out
}

// RemoveNode drops the node with id nodeID from the tree at any depth,
// together with its whole reply subtree. Removing an id that is not present
// returns an equivalent tree and is safe to repeat.
func RemoveNode(tree []models.Comment, nodeID string) []models.Comment {
	out := make([]models.Comment, 0, len(tree))
	for _, c := range tree {
		if c.ID == nodeID {
			continue
		}
		if len(c.Replies) > 0 {
			c.Replies = RemoveNode(c.Replies, nodeID)
		}
		out = append(out, c)
	}
	return out
}

// Find returns a pointer to the node with the given id, searching depth
// first, or nil when absent. The pointer aliases the passed tree; treat it
// as read-only.
func Find(tree []models.Comment, id string) *models.Comment {
	for i := range tree {
		if tree[i].ID == id {
			return &tree[i]
		}
		if found := Find(tree[i].Replies, id); found != nil {
			return found
		}
	}
	return nil
}

// Count returns the total number of nodes in the tree, replies included.
func Count(tree []models.Comment) int {
	n := 0
	for i := range tree {
		n += 1 + Count(tree[i].Replies)
	}
	return n
}
