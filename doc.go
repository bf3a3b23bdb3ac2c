// Package gitforum is the Go client SDK for the GitForum code-sharing
// platform.
//
// The root package holds the session-level building blocks an application
// embeds directly:
//
//   - [Session]: the authentication lifecycle (login, registration, logout,
//     restore from persisted tokens, OAuth token hand-off)
//   - [Guard]: route gating derived from session state
//   - [PostView]: a single post with optimistic like/bookmark interactions
//   - [Comments]: a post's comment thread built on the pure tree operations
//     in pkg/commenttree
//
// Transport, models, pagination, preferences, and the live notification
// stream live in the pkg subpackages. A minimal setup:
//
//	store, err := storage.NewFile(filepath.Join(stateDir, "state.json"))
//	if err != nil { ... }
//	client := api.NewClient("http://localhost:8000/api", tokens.NewStore(store))
//	session := gitforum.NewSession(client)
//	if err := session.Restore(ctx); err != nil { ... }
//
//	if session.IsAuthenticated() {
//		fmt.Println("signed in as", session.CurrentUser().Username)
//	}
package gitforum
