// Package prefs persists small per-user preferences outside the database.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/mpetrou/curio/internal/appstate"
	"github.com/mpetrou/curio/internal/store"
)

const sessionFile = "session.json"

// Session is the state restored across runs.
type Session struct {
	PageName   string `json:"page_name"`
	ChannelID  string `json:"channel_id"`
	TopicID    string `json:"topic_id"`
	SearchTerm string `json:"search_term"`
}

func sessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir = filepath.Join(dir, "curio")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, sessionFile), nil
}

func SaveSession(s Session) error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func LoadSession() (Session, error) {
	var s Session
	path, err := sessionPath()
	if err != nil {
		return s, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, err
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, err
	}
	return s, nil
}

// Watch subscribes to the application store and persists the session after
// every commit, best effort. The returned function stops watching.
func Watch(st *store.Store, location func() (channelID, topicID string)) func() {
	return st.Subscribe(func(snap store.State) {
		s := Session{
			PageName:   appstate.PageNameOf(snap),
			SearchTerm: appstate.PageStateOf(snap).SearchTerm,
		}
		if location != nil {
			s.ChannelID, s.TopicID = location()
		}
		_ = SaveSession(s)
	})
}
