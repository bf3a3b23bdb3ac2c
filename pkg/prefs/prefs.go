// Package prefs manages the user preference blobs the client caches locally:
// code editor appearance and notification toggles.
//
// Both blobs live as JSON documents under fixed keys in the client storage,
// exactly like the web client keeps them in localStorage. They are
// best-effort caches: a corrupt or missing blob silently falls back to
// defaults, and nothing is synchronized to the server.
package prefs

import (
	"encoding/json"

	"github.com/gitforum/gitforum.go/pkg/storage"
)

const (
	codeSettingsKey  = "gitforum-code-settings"
	notificationsKey = "gitforum-notifications"
)

// CodeSettings controls how snippets are rendered.
type CodeSettings struct {
	Theme       string  `json:"theme"`
	Font        string  `json:"font"`
	FontSize    int     `json:"fontSize"`
	LineHeight  float64 `json:"lineHeight"`
	LineNumbers bool    `json:"lineNumbers"`
	WordWrap    bool    `json:"wordWrap"`
}

// DefaultCodeSettings are the out-of-the-box rendering settings.
func DefaultCodeSettings() CodeSettings {
	return CodeSettings{
		Theme:       "github-dark",
		Font:        "jetbrains-mono",
		FontSize:    14,
		LineHeight:  1.4,
		LineNumbers: true,
		WordWrap:    false,
	}
}

// NotificationSettings are the per-channel notification toggles.
type NotificationSettings struct {
	EmailLikes     bool `json:"emailLikes"`
	EmailComments  bool `json:"emailComments"`
	EmailFollowers bool `json:"emailFollowers"`
	EmailMentions  bool `json:"emailMentions"`
	EmailDigest    bool `json:"emailDigest"`
	PushLikes      bool `json:"pushLikes"`
	PushComments   bool `json:"pushComments"`
	PushFollowers  bool `json:"pushFollowers"`
	PushMentions   bool `json:"pushMentions"`
}

// DefaultNotificationSettings mirror the web client's initial toggles.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		EmailLikes:     true,
		EmailComments:  true,
		EmailFollowers: false,
		EmailMentions:  true,
		EmailDigest:    true,
		PushLikes:      false,
		PushComments:   true,
		PushFollowers:  true,
		PushMentions:   true,
	}
}

// Store reads and writes preference blobs in a storage.Storage.
type Store struct {
	storage storage.Storage
}

// NewStore wraps st.
func NewStore(st storage.Storage) *Store {
	return &Store{storage: st}
}

// CodeSettings returns the stored settings, with defaults filling anything
// missing or unreadable.
func (s *Store) CodeSettings() CodeSettings {
	settings := DefaultCodeSettings()
	loadJSON(s.storage, codeSettingsKey, &settings)
	return settings
}

// SetCodeSettings persists the settings blob.
func (s *Store) SetCodeSettings(settings CodeSettings) error {
	return saveJSON(s.storage, codeSettingsKey, settings)
}

// NotificationSettings returns the stored toggles, with defaults filling
// anything missing or unreadable.
func (s *Store) NotificationSettings() NotificationSettings {
	settings := DefaultNotificationSettings()
	loadJSON(s.storage, notificationsKey, &settings)
	return settings
}

// SetNotificationSettings persists the toggles blob.
func (s *Store) SetNotificationSettings(settings NotificationSettings) error {
	return saveJSON(s.storage, notificationsKey, settings)
}

// loadJSON merges the stored document into out, leaving out untouched when
// the key is absent or the document does not parse.
func loadJSON(st storage.Storage, key string, out any) {
	raw, err := st.Get(key)
	if err != nil {
		return
	}
	_ = json.Unmarshal([]byte(raw), out)
}

func saveJSON(st storage.Storage, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return st.Set(key, string(raw))
}
