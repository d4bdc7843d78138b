package session

import (
	"encoding/json"
	"errors"
	"os"
	"sync"

	"github.com/dysebot/dashboard/internal/discord"
	"github.com/dysebot/dashboard/internal/log"
)

// Storage keys. A session restores only when all three are present.
const (
	KeyUser   = "discord_user"
	KeyGuilds = "discord_guilds"
	KeyToken  = "discord_token"
)

// Store persists a session across restarts. Load returns false when no
// complete, well-formed session is stored.
type Store interface {
	Load() (Session, bool)
	Save(Session) error
	Clear()
}

// decode rebuilds a session from the three stored values. Any missing
// or malformed value discards the whole snapshot.
func decode(values map[string]string) (Session, bool) {
	userJSON, okUser := values[KeyUser]
	guildsJSON, okGuilds := values[KeyGuilds]
	token, okToken := values[KeyToken]
	if !okUser || !okGuilds || !okToken {
		return Session{}, false
	}

	var user discord.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return Session{}, false
	}
	var guilds []discord.Guild
	if err := json.Unmarshal([]byte(guildsJSON), &guilds); err != nil {
		return Session{}, false
	}

	return Session{User: &user, Guilds: guilds, AccessToken: token}, true
}

func encode(s Session) (map[string]string, error) {
	userJSON, err := json.Marshal(s.User)
	if err != nil {
		return nil, err
	}
	guildsJSON, err := json.Marshal(s.Guilds)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		KeyUser:   string(userJSON),
		KeyGuilds: string(guildsJSON),
		KeyToken:  s.AccessToken,
	}, nil
}

// MemoryStore keeps the session in process memory only
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Load() (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return decode(m.values)
}

func (m *MemoryStore) Save(s Session) error {
	values, err := encode(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.values = values
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear() {
	m.mu.Lock()
	m.values = make(map[string]string)
	m.mu.Unlock()
}

// FileStore persists the session as a small JSON file, the server-side
// stand-in for the browser's local storage. Concurrent writers from
// separate processes are not coordinated; last write wins.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Load() (Session, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.LogWarn("Failed to read session file %s: %v", f.path, err)
		}
		return Session{}, false
	}

	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil {
		log.LogWarn("Discarding malformed session file %s: %v", f.path, err)
		return Session{}, false
	}
	return decode(values)
}

func (f *FileStore) Save(s Session) error {
	values, err := encode(s)
	if err != nil {
		return err
	}
	data, err := json.Marshal(values)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return os.WriteFile(f.path, data, 0600)
}

func (f *FileStore) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.LogWarn("Failed to remove session file %s: %v", f.path, err)
	}
}
