package fakeforum

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/gitforum/gitforum.go/pkg/models"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[req.Email]
	if !ok || rec.password != req.Password {
		writeError(w, http.StatusUnauthorized, "Invalid credentials.")
		return
	}
	writeJSON(w, http.StatusOK, s.issueTokens(req.Email))
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[req.Email]; exists {
		writeJSON(w, http.StatusBadRequest, map[string][]string{
			"email": {"A user is already registered with this e-mail address."},
		})
		return
	}
	if req.Password1 != req.Password2 {
		writeJSON(w, http.StatusBadRequest, map[string][]string{
			"password2": {"The two password fields didn't match."},
		})
		return
	}
	s.users[req.Email] = &userRecord{
		user: models.User{
			ID:          newID(),
			Username:    req.Username,
			Email:       req.Email,
			DisplayName: req.Username,
			DateJoined:  time.Now().UTC(),
		},
		password: req.Password1,
	}
	writeJSON(w, http.StatusCreated, s.issueTokens(req.Email))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// The real backend blacklists the refresh token; dropping every token for
	// the caller's account is close enough for tests.
	if rec := s.authedUser(r); rec != nil {
		for token, email := range s.accessTokens {
			if email == rec.user.Email {
				delete(s.accessTokens, token)
			}
		}
		for token, email := range s.refreshTokens {
			if email == rec.user.Email {
				delete(s.refreshTokens, token)
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"detail": "Successfully logged out."})
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.authedUser(r)
	if rec == nil {
		writeError(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return
	}
	writeJSON(w, http.StatusOK, rec.user)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Refresh string `json:"refresh"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.refreshTokens[req.Refresh]
	if !ok {
		writeError(w, http.StatusUnauthorized, "Token is invalid or expired")
		return
	}
	access := "access-" + newID()
	s.accessTokens[access] = email
	writeJSON(w, http.StatusOK, map[string]string{"access": access})
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matching := make([]models.Post, 0, len(s.posts))
	q := r.URL.Query()
	for _, p := range s.posts {
		if lang := q.Get("language"); lang != "" && p.Language != lang {
			continue
		}
		if search := q.Get("search"); search != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(search)) {
			continue
		}
		if author := q.Get("author__username"); author != "" && p.Author.Username != author {
			continue
		}
		matching = append(matching, p)
	}

	page := 1
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		page = n
	}
	start := (page - 1) * PageSize
	if start > len(matching) {
		start = len(matching)
	}
	end := start + PageSize
	if end > len(matching) {
		end = len(matching)
	}

	envelope := models.Page[models.Post]{
		Count:   len(matching),
		Results: matching[start:end],
	}
	if end < len(matching) {
		next := s.httpServer.URL + "/api/posts/?page=" + strconv.Itoa(page+1)
		envelope.Next = &next
	}
	if page > 1 {
		prev := s.httpServer.URL + "/api/posts/?page=" + strconv.Itoa(page-1)
		envelope.Previous = &prev
	}
	writeJSON(w, http.StatusOK, envelope)
}

func (s *Server) findPost(id string) *models.Post {
	for i := range s.posts {
		if s.posts[i].ID == id {
			return &s.posts[i]
		}
	}
	return nil
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	post := s.findPost(mux.Vars(r)["id"])
	if post == nil {
		writeError(w, http.StatusNotFound, "Not found.")
		return
	}
	post.Views++
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleLike(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.authedUser(r) == nil {
		writeError(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return
	}
	post := s.findPost(mux.Vars(r)["id"])
	if post == nil {
		writeError(w, http.StatusNotFound, "Not found.")
		return
	}
	if r.Method == http.MethodPost && !post.IsLiked {
		post.IsLiked = true
		post.LikesCount++
	} else if r.Method == http.MethodDelete && post.IsLiked {
		post.IsLiked = false
		post.LikesCount--
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"likes_count": post.LikesCount,
		"is_liked":    post.IsLiked,
	})
}

func (s *Server) handleBookmark(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.authedUser(r) == nil {
		writeError(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return
	}
	post := s.findPost(mux.Vars(r)["id"])
	if post == nil {
		writeError(w, http.StatusNotFound, "Not found.")
		return
	}
	if r.Method == http.MethodPost && !post.IsBookmarked {
		post.IsBookmarked = true
		post.BookmarksCount++
	} else if r.Method == http.MethodDelete && post.IsBookmarked {
		post.IsBookmarked = false
		post.BookmarksCount--
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tree := s.comments[mux.Vars(r)["id"]]
	if tree == nil {
		tree = []models.Comment{}
	}
	writeJSON(w, http.StatusOK, models.Page[models.Comment]{
		Count:   len(tree),
		Results: tree,
	})
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req models.AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.authedUser(r)
	if rec == nil {
		writeError(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return
	}
	postID := mux.Vars(r)["id"]
	if s.findPost(postID) == nil {
		writeError(w, http.StatusNotFound, "Not found.")
		return
	}
	comment := s.insertComment(postID, rec.user, req.Content, req.Parent)
	writeJSON(w, http.StatusCreated, comment)
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.authedUser(r) == nil {
		writeError(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return
	}
	id := mux.Vars(r)["id"]
	for postID, tree := range s.comments {
		if pruned, removed := dropComment(tree, id); removed {
			s.comments[postID] = pruned
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Not found.")
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Trending order is likes-desc in the real backend; seeded order is fine
	// for tests. The endpoint answers with a bare array, not an envelope.
	posts := s.posts
	if posts == nil {
		posts = []models.Post{}
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := models.Stats{
		TotalPosts: len(s.posts),
		TotalUsers: len(s.users),
	}
	for _, p := range s.posts {
		stats.TotalLikes += p.LikesCount
		stats.TotalViews += p.Views
	}
	for _, tree := range s.comments {
		stats.TotalComments += countComments(tree)
	}
	writeJSON(w, http.StatusOK, stats)
}

func countComments(tree []models.Comment) int {
	n := 0
	for _, c := range tree {
		n += 1 + countComments(c.Replies)
	}
	return n
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.authedUser(r) == nil {
		writeError(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return
	}
	out := s.notifications
	if out == nil {
		out = []models.Notification{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleReadAll(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		s.notifications[i].IsRead = true
	}
	writeJSON(w, http.StatusOK, map[string]string{"detail": "ok"})
}

func (s *Server) handleReadOne(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := mux.Vars(r)["id"]
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].IsRead = true
			writeJSON(w, http.StatusOK, map[string]string{"detail": "ok"})
			return
		}
	}
	writeError(w, http.StatusNotFound, "Not found.")
}

func (s *Server) handleLiveSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	for n := range s.live {
		if err := conn.WriteJSON(n); err != nil {
			return
		}
	}
}
