// Package fakeforum provides an in-process fake of the GitForum REST backend
// for tests.
//
// The fake speaks the same JSON surface the real backend does: token-based
// auth with access/refresh pairs, paginated collections, nested comment
// trees, and the live notification socket. Tests script it through seeding
// helpers and failure switches (expiring access tokens, revoking refresh
// tokens) to exercise the client's retry and sign-out paths.
//
// State lives in memory under one mutex; the server is cheap enough to build
// per test.
package fakeforum

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/gitforum/gitforum.go/pkg/models"
)

// PageSize is the fake's fixed page length, small so pagination tests stay
// short.
const PageSize = 2

type userRecord struct {
	user     models.User
	password string
}

// Server is the fake backend. Construct with New, stop with Close.
type Server struct {
	httpServer *httptest.Server
	upgrader   websocket.Upgrader
	closeOnce  sync.Once

	mu            sync.Mutex
	users         map[string]*userRecord // by email
	posts         []models.Post
	comments      map[string][]models.Comment // by post id
	notifications []models.Notification
	accessTokens  map[string]string // token -> email
	refreshTokens map[string]string // token -> email
	requestCounts map[string]int    // "METHOD path" -> hits
	live          chan models.Notification
}

// New starts the fake on a random local port.
func New() *Server {
	s := &Server{
		users:         make(map[string]*userRecord),
		comments:      make(map[string][]models.Comment),
		accessTokens:  make(map[string]string),
		refreshTokens: make(map[string]string),
		requestCounts: make(map[string]int),
		live:          make(chan models.Notification, 16),
	}

	r := mux.NewRouter()
	r.Use(s.countRequests)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/login/", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/registration/", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout/", s.handleLogout).Methods(http.MethodPost)
	api.HandleFunc("/auth/user/", s.handleCurrentUser).Methods(http.MethodGet)
	api.HandleFunc("/auth/token/refresh/", s.handleRefresh).Methods(http.MethodPost)

	api.HandleFunc("/posts/", s.handleListPosts).Methods(http.MethodGet)
	api.HandleFunc("/posts/{id}/", s.handleGetPost).Methods(http.MethodGet)
	api.HandleFunc("/posts/{id}/like/", s.handleLike).Methods(http.MethodPost, http.MethodDelete)
	api.HandleFunc("/posts/{id}/bookmark/", s.handleBookmark).Methods(http.MethodPost, http.MethodDelete)
	api.HandleFunc("/posts/{id}/comments/", s.handleListComments).Methods(http.MethodGet)
	api.HandleFunc("/posts/{id}/comments/", s.handleAddComment).Methods(http.MethodPost)
	api.HandleFunc("/comments/{id}/", s.handleDeleteComment).Methods(http.MethodDelete)

	api.HandleFunc("/trending/", s.handleTrending).Methods(http.MethodGet)
	api.HandleFunc("/stats/", s.handleStats).Methods(http.MethodGet)
	api.HandleFunc("/notifications/", s.handleListNotifications).Methods(http.MethodGet)
	api.HandleFunc("/notifications/read-all/", s.handleReadAll).Methods(http.MethodPost)
	api.HandleFunc("/notifications/{id}/read/", s.handleReadOne).Methods(http.MethodPost)

	r.HandleFunc("/ws/notifications/", s.handleLiveSocket)

	s.httpServer = httptest.NewServer(r)
	return s
}

// Close shuts the fake down. Safe to call more than once; PushLive must not
// be called afterwards.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		s.httpServer.Close()
		close(s.live)
	})
}

// URL returns the REST base, including the /api prefix.
func (s *Server) URL() string {
	return s.httpServer.URL + "/api"
}

// WSEndpoint returns the live notification socket URL.
func (s *Server) WSEndpoint() string {
	return "ws" + s.httpServer.URL[len("http"):] + "/ws/notifications/"
}

// RequestCount reports how many requests hit the given method and path.
func (s *Server) RequestCount(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requestCounts[method+" "+path]
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requestCounts[r.Method+" "+r.URL.Path]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// --- seeding and failure switches ---

// AddUser registers an account directly, bypassing the HTTP surface.
func (s *Server) AddUser(username, email, password string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := models.User{
		ID:          uuid.NewString(),
		Username:    username,
		Email:       email,
		DisplayName: username,
		DateJoined:  time.Now().UTC(),
	}
	s.users[email] = &userRecord{user: user, password: password}
	return user
}

// AddPost seeds a post authored by the given user.
func (s *Server) AddPost(author models.User, title, language string) models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	post := models.Post{
		ID:        uuid.NewString(),
		Author:    author,
		Title:     title,
		Filename:  "snippet.go",
		Language:  language,
		Code:      "package main\n",
		IsPublic:  true,
		CreatedAt: time.Now().UTC(),
	}
	s.posts = append(s.posts, post)
	return post
}

// AddComment seeds a comment; parent is nil for a top-level one. Nested
// parents are located anywhere in the post's tree.
func (s *Server) AddComment(postID string, author models.User, content string, parent *string) models.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertComment(postID, author, content, parent)
}

// AddNotification seeds an inbox entry.
func (s *Server) AddNotification(sender models.User, typ models.NotificationType, message string) models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := models.Notification{
		ID:        uuid.NewString(),
		Sender:    sender,
		Type:      typ,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	s.notifications = append(s.notifications, n)
	return n
}

// PushLive delivers a notification over the live socket.
func (s *Server) PushLive(n models.Notification) {
	s.live <- n
}

// ExpireAccessTokens invalidates every issued access token while keeping
// refresh tokens valid, forcing clients through the refresh path.
func (s *Server) ExpireAccessTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessTokens = make(map[string]string)
}

// RevokeRefreshTokens invalidates every refresh token, so the next refresh
// attempt fails and the client signs out.
func (s *Server) RevokeRefreshTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshTokens = make(map[string]string)
}

// --- internals ---

func newID() string {
	return uuid.NewString()
}

func (s *Server) issueTokens(email string) models.TokenPair {
	pair := models.TokenPair{
		Access:  "access-" + uuid.NewString(),
		Refresh: "refresh-" + uuid.NewString(),
	}
	s.accessTokens[pair.Access] = email
	s.refreshTokens[pair.Refresh] = email
	return pair
}

// authedUser resolves the bearer token, or nil.
func (s *Server) authedUser(r *http.Request) *userRecord {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		return nil
	}
	email, ok := s.accessTokens[header[len(prefix):]]
	if !ok {
		return nil
	}
	return s.users[email]
}

func (s *Server) insertComment(postID string, author models.User, content string, parent *string) models.Comment {
	comment := models.Comment{
		ID:        uuid.NewString(),
		Author:    author,
		Parent:    parent,
		Content:   content,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	tree := s.comments[postID]
	if parent == nil {
		s.comments[postID] = append(tree, comment)
	} else {
		s.comments[postID] = attachReply(tree, *parent, comment)
	}
	return comment
}

func attachReply(tree []models.Comment, parentID string, reply models.Comment) []models.Comment {
	for i := range tree {
		if tree[i].ID == parentID {
			tree[i].Replies = append(tree[i].Replies, reply)
			tree[i].RepliesCount++
			return tree
		}
		tree[i].Replies = attachReply(tree[i].Replies, parentID, reply)
	}
	return tree
}

func dropComment(tree []models.Comment, id string) ([]models.Comment, bool) {
	removed := false
	out := tree[:0]
	for _, c := range tree {
		if c.ID == id {
			removed = true
			continue
		}
		var sub bool
		c.Replies, sub = dropComment(c.Replies, id)
		removed = removed || sub
		out = append(out, c)
	}
	return out, removed
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
