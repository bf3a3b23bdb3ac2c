// Package models defines the entities exchanged with the GitForum REST API.
//
// All entities mirror the backend's JSON representation: field names are
// snake_case on the wire, timestamps are RFC 3339 strings parsed into
// time.Time, and optional relations are pointers. The same structs are used
// by the client, the session controller, and the test fixtures, so there is a
// single source of truth for the API contract on the Go side.
package models

import "time"

// User is a GitForum account as returned by the users and auth endpoints.
//
// Counter fields (followers, following, posts) are maintained by the backend;
// the client never computes them locally. IsFollowing reflects the requesting
// user's relationship to this profile and is only meaningful on authenticated
// requests.
type User struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email,omitempty"`
	DisplayName     string    `json:"display_name"`
	Bio             string    `json:"bio"`
	Avatar          *string   `json:"avatar"`
	Location        string    `json:"location"`
	Website         string    `json:"website"`
	GithubUsername  string    `json:"github_username"`
	TwitterUsername string    `json:"twitter_username"`
	IsVerified      bool      `json:"is_verified"`
	FollowersCount  int       `json:"followers_count"`
	FollowingCount  int       `json:"following_count"`
	PostsCount      int       `json:"posts_count"`
	DateJoined      time.Time `json:"date_joined"`
	IsFollowing     bool      `json:"is_following,omitempty"`
}

// Tag labels posts. UsageCount is how many public posts carry the tag.
type Tag struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	UsageCount int    `json:"usage_count"`
}

// Post is a published code snippet.
//
// Code is only populated on detail responses; list responses carry
// CodePreview instead. IsLiked and IsBookmarked reflect the requesting user's
// relationship to the post and must move in lockstep with the corresponding
// counters under optimistic updates.
type Post struct {
	ID             string    `json:"id"`
	Author         User      `json:"author"`
	Title          string    `json:"title"`
	Filename       string    `json:"filename"`
	Language       string    `json:"language"`
	Code           string    `json:"code,omitempty"`
	CodePreview    string    `json:"code_preview,omitempty"`
	Description    string    `json:"description"`
	IsPublic       bool      `json:"is_public"`
	Tags           []Tag     `json:"tags"`
	Views          int       `json:"views"`
	LikesCount     int       `json:"likes_count"`
	CommentsCount  int       `json:"comments_count"`
	BookmarksCount int       `json:"bookmarks_count"`
	ForksCount     int       `json:"forks_count,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at,omitempty"`
	IsLiked        bool      `json:"is_liked"`
	IsBookmarked   bool      `json:"is_bookmarked"`
}

// Comment is a single node of a post's comment tree. Parent is nil for
// top-level comments. Replies holds the already-fetched children in insertion
// order; RepliesCount is the server-side total and may exceed len(Replies).
type Comment struct {
	ID           string    `json:"id"`
	Author       User      `json:"author"`
	Parent       *string   `json:"parent"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	RepliesCount int       `json:"replies_count"`
	Replies      []Comment `json:"replies,omitempty"`
}

// PostRevision is one entry of a post's edit history.
type PostRevision struct {
	ID             string    `json:"id"`
	Author         User      `json:"author"`
	RevisionNumber int       `json:"revision_number"`
	Title          string    `json:"title"`
	Code           string    `json:"code"`
	Description    string    `json:"description"`
	CommitMessage  string    `json:"commit_message"`
	CreatedAt      time.Time `json:"created_at"`
}

// NotificationType enumerates the events the backend notifies about.
type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationFollow  NotificationType = "follow"
	NotificationMention NotificationType = "mention"
)

// Notification is a single inbox entry.
type Notification struct {
	ID        string           `json:"id"`
	Sender    User             `json:"sender"`
	Type      NotificationType `json:"notification_type"`
	PostID    *string          `json:"post_id"`
	PostTitle *string          `json:"post_title"`
	Message   string           `json:"message"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}

// Stats is the platform-wide counters block shown on the landing page.
type Stats struct {
	TotalLikes    int `json:"total_likes"`
	TotalComments int `json:"total_comments"`
	TotalViews    int `json:"total_views"`
	TodayLikes    int `json:"today_likes"`
	TodayComments int `json:"today_comments"`
	TotalPosts    int `json:"total_posts"`
	TotalUsers    int `json:"total_users"`
}

// Page is the backend's pagination envelope. Next and Previous are absolute
// URLs of the adjacent pages, or nil at either end of the collection. Whether
// more data exists is derived strictly from Next.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// HasMore reports whether the server indicated a further page.
func (p *Page[T]) HasMore() bool {
	return p.Next != nil
}
