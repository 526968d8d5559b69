// /internal/storage/storage.go
package storage

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"server-warden/datastore"
)

const commandHistoryLimit int = 20

type Storage struct {
	ds *datastore.DataStore
	mu sync.Mutex // serialises read-modify-write of guild records
}

type Warning struct {
	UserID   string    `json:"user_id"`
	Username string    `json:"username"`
	WarnedBy string    `json:"warned_by"`
	Reason   string    `json:"reason,omitempty"`
	Date     time.Time `json:"date"`
}

type Ban struct {
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	BannedBy     string    `json:"banned_by"`
	Reason       string    `json:"reason,omitempty"`
	WarningCount int       `json:"warning_count"`
	Date         time.Time `json:"date"`
}

type CommandRecord struct {
	ChannelID string    `json:"channel_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Command   string    `json:"command"`
	Content   string    `json:"content"`
	Datetime  time.Time `json:"datetime"`
}

type Record struct {
	Warnings       map[string][]Warning `json:"warnings"` // key = userID
	Bans           []Ban                `json:"bans"`
	CommandHistory []CommandRecord      `json:"cmd_history"`
}

func New(filePath string) (*Storage, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

func (s *Storage) Close() error {
	return s.ds.Close()
}

// Guilds returns the IDs of all guilds with a stored record.
func (s *Storage) Guilds() []string {
	keys := s.ds.Keys()
	sort.Strings(keys)
	return keys
}

func (s *Storage) getOrCreateGuildRecord(guildID string) (*Record, error) {
	var record Record
	if _, err := s.ds.Get(guildID, &record); err != nil {
		return nil, fmt.Errorf("error loading guild %s: %w", guildID, err)
	}

	if record.Warnings == nil {
		record.Warnings = make(map[string][]Warning)
	}
	if len(record.CommandHistory) > commandHistoryLimit {
		record.CommandHistory = record.CommandHistory[len(record.CommandHistory)-commandHistoryLimit:]
	}
	return &record, nil
}

// update loads the guild record, applies fn and stores the result when fn succeeds.
func (s *Storage) update(guildID string, fn func(*Record) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}
	if err := fn(record); err != nil {
		return err
	}
	return s.ds.Put(guildID, record)
}

func (s *Storage) view(guildID string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateGuildRecord(guildID)
}
