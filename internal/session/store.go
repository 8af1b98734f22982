// Package session keeps per-browser state for the dashboard: the uploaded
// workbook and a short history of comparisons.
package session

import (
	"sync"
	"time"

	"snookerviz/internal/clock"
	"snookerviz/internal/filter"
	"snookerviz/internal/snooker"
	"snookerviz/internal/utils"

	"github.com/google/uuid"
)

// HistoryEntry is one comparison shown to a session.
type HistoryEntry struct {
	At       time.Time       `json:"at"`
	PlayerA  string          `json:"playerA"`
	PlayerB  string          `json:"playerB"`
	Criteria filter.Criteria `json:"criteria"`
	Games    int             `json:"games"`
}

// Session is a snapshot of the state kept for one token.
type Session struct {
	Token      string
	Dataset    *snooker.Dataset
	FileName   string
	UploadedAt time.Time
}

type entry struct {
	session  Session
	history  *utils.RingBuffer[HistoryEntry]
	lastSeen time.Time
}

// Store is a concurrency-safe session store. Sessions not seen for longer
// than the TTL are removed by Serve.
//
//	store := session.NewStore(10, 2*time.Hour, &clock.DefaultClock{})
//	go store.Serve()
//	defer store.Stop()
type Store struct {
	historyLen int
	ttl        time.Duration
	clock      clock.Clock

	sessions map[string]*entry
	fallback *snooker.Dataset
	mu       sync.RWMutex

	done     chan struct{}
	stopOnce sync.Once
}

// NewStore creates a store keeping historyLen comparisons per session.
func NewStore(historyLen int, ttl time.Duration, c clock.Clock) *Store {
	return &Store{
		historyLen: historyLen,
		ttl:        ttl,
		clock:      c,
		sessions:   make(map[string]*entry),
		done:       make(chan struct{}),
	}
}

// NewToken returns a fresh opaque session token.
func NewToken() string {
	return uuid.NewString()
}

// ValidToken reports whether token looks like one produced by NewToken.
func ValidToken(token string) bool {
	return uuid.Validate(token) == nil
}

// SetDefault sets the dataset used by sessions that have not uploaded one.
func (s *Store) SetDefault(ds *snooker.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fallback = ds
}

// Put stores ds as the dataset of token, creating the session if needed.
// An earlier upload is replaced; the history is kept.
func (s *Store) Put(token string, ds *snooker.Dataset, fileName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entryLocked(token)
	e.session.Dataset = ds
	e.session.FileName = fileName
	e.session.UploadedAt = e.lastSeen
}

// Get returns the session for token and refreshes its last-seen time.
func (s *Store) Get(token string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, found := s.sessions[token]
	if !found {
		return Session{}, false
	}
	e.lastSeen = s.clock.Now()
	return e.session, true
}

// Dataset returns the dataset visible to token: its own upload, or the
// default dataset. It is nil when neither exists.
func (s *Store) Dataset(token string) *snooker.Dataset {
	sess, found := s.Get(token)
	if found && sess.Dataset != nil {
		return sess.Dataset
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fallback
}

// Remember appends a comparison to the history of token.
func (s *Store) Remember(token string, h HistoryEntry) {
	s.mu.Lock()
	e := s.entryLocked(token)
	s.mu.Unlock()
	e.history.Push(h)
}

// History returns the comparisons of token, oldest first.
func (s *Store) History(token string) []HistoryEntry {
	s.mu.RLock()
	e, found := s.sessions[token]
	s.mu.RUnlock()
	if !found {
		return []HistoryEntry{}
	}
	return e.history.ToSlice()
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Serve evicts idle sessions once a minute until Stop is called.
// It blocks and should run in its own goroutine.
func (s *Store) Serve() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.evict(s.clock.Now())
		case <-s.done:
			return
		}
	}
}

// Stop ends Serve. It is safe to call more than once, or without Serve.
func (s *Store) Stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

func (s *Store) evict(now time.Time) int {
	var outdated []string

	s.mu.RLock()
	for token, e := range s.sessions {
		if now.Sub(e.lastSeen) > s.ttl {
			outdated = append(outdated, token)
		}
	}
	s.mu.RUnlock()

	if len(outdated) == 0 {
		return 0
	}
	evicted := 0
	s.mu.Lock()
	for _, token := range outdated {
		// recheck, the session may have been touched since the scan
		if e, found := s.sessions[token]; found && now.Sub(e.lastSeen) > s.ttl {
			delete(s.sessions, token)
			evicted++
		}
	}
	s.mu.Unlock()
	return evicted
}

// entryLocked returns the entry of token, creating it. Callers hold mu.
func (s *Store) entryLocked(token string) *entry {
	now := s.clock.Now()
	e, found := s.sessions[token]
	if !found {
		e = &entry{
			session: Session{Token: token},
			history: utils.NewRingBuffer[HistoryEntry](s.historyLen),
		}
		s.sessions[token] = e
	}
	e.lastSeen = now
	return e
}
