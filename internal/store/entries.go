package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pbaille/nomi/internal/domain"
	"go.uber.org/zap"
)

// ErrEmptyContent is returned by Append for blank content. Nothing is saved.
var ErrEmptyContent = errors.New("entry content is empty")

// Store holds the entry collection in memory and mirrors it to a Backend
// on every save.
type Store struct {
	backend Backend
	logger  *zap.Logger
	now     func() time.Time

	mu      sync.RWMutex
	entries []domain.Entry
	lastID  int64
}

// New creates an empty Store. Call Load to read the persisted collection.
func New(backend Backend, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		backend: backend,
		logger:  logger,
		now:     time.Now,
	}
}

// Load replaces the in-memory collection with the persisted one. A missing or
// unreadable value loads as an empty collection; the failure is only logged.
func (s *Store) Load() []domain.Entry {
	entries, err := s.read()
	if err != nil {
		s.logger.Warn("no previous entries loaded", zap.String("key", EntriesKey), zap.Error(err))
		entries = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = entries
	s.lastID = 0
	for _, e := range entries {
		if e.ID > s.lastID {
			s.lastID = e.ID
		}
	}
	return cloneEntries(s.entries)
}

func (s *Store) read() ([]domain.Entry, error) {
	data, err := s.backend.Get(EntriesKey)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []domain.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode entries: %w", err)
	}
	return entries, nil
}

// Append saves a new entry for date (today when empty) and persists the full
// collection. The in-memory collection only changes if persisting succeeds.
func (s *Store) Append(content, date string) (domain.Entry, error) {
	if strings.TrimSpace(content) == "" {
		return domain.Entry{}, ErrEmptyContent
	}

	now := s.now()
	if date == "" {
		date = now.Format(domain.DateLayout)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}

	entry := domain.Entry{
		ID:        id,
		Date:      date,
		Content:   content,
		Timestamp: now.UTC().Format(domain.TimestampLayout),
	}

	updated := append(cloneEntries(s.entries), entry)
	data, err := json.Marshal(updated)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("encode entries: %w", err)
	}
	if err := s.backend.Set(EntriesKey, data); err != nil {
		return domain.Entry{}, fmt.Errorf("save entries: %w", err)
	}

	s.entries = updated
	s.lastID = id
	return entry, nil
}

// Entries returns a copy of the collection in insertion order.
func (s *Store) Entries() []domain.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneEntries(s.entries)
}

// Recent returns up to n of the most recently saved entries, oldest first.
func (s *Store) Recent(n int) []domain.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n <= 0 {
		return nil
	}
	start := len(s.entries) - n
	if start < 0 {
		start = 0
	}
	return cloneEntries(s.entries[start:])
}

// Len reports how many entries are stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func cloneEntries(entries []domain.Entry) []domain.Entry {
	if len(entries) == 0 {
		return []domain.Entry{}
	}
	out := make([]domain.Entry, len(entries))
	copy(out, entries)
	return out
}
