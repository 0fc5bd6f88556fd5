package memory

import (
	"sync"

	"ai-docchat-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository is the in-memory session store. Sessions never
// expire and are lost on restart. All mutations go through repository
// methods under a single lock so a handler and a background job cannot
// interleave writes on the same session.
type SessionRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	c := cache.New(cache.NoExpiration, 0)
	return &SessionRepository{
		cache: c,
	}
}

// GetOrCreate returns a snapshot of the session, creating an empty one
// for a never-seen token.
func (r *SessionRepository) GetOrCreate(sessionId string) *store.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if x, found := r.cache.Get(sessionId); found {
		return snapshot(x.(*store.Session))
	}
	session := &store.Session{
		ID:       sessionId,
		Messages: []store.Message{},
	}
	r.cache.Set(sessionId, session, cache.NoExpiration)
	return snapshot(session)
}

// Get returns a snapshot of the session, or false if the token is unknown.
func (r *SessionRepository) Get(sessionId string) (*store.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	x, found := r.cache.Get(sessionId)
	if !found {
		return nil, false
	}
	return snapshot(x.(*store.Session)), true
}

// BeginProcessing marks the session as owned by a background job.
// Returns false if the session is unknown or a job is already in
// flight, so callers can reject concurrent work per session.
func (r *SessionRepository) BeginProcessing(sessionId string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	x, found := r.cache.Get(sessionId)
	if !found {
		return false
	}
	session := x.(*store.Session)
	if session.IsProcessing {
		return false
	}
	session.IsProcessing = true
	return true
}

// EndProcessing releases the session's processing flag. Safe to call on
// an unknown token (the job may outlive nothing else).
func (r *SessionRepository) EndProcessing(sessionId string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if x, found := r.cache.Get(sessionId); found {
		x.(*store.Session).IsProcessing = false
	}
}

// SetExtracted overwrites the session's document content wholesale.
// segments is nil for PDF uploads.
func (r *SessionRepository) SetExtracted(sessionId, text string, segments []store.Segment) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if x, found := r.cache.Get(sessionId); found {
		session := x.(*store.Session)
		session.ExtractedText = text
		session.Segments = segments
	}
}

// AppendMessage appends one transcript entry.
func (r *SessionRepository) AppendMessage(sessionId, role, content string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if x, found := r.cache.Get(sessionId); found {
		session := x.(*store.Session)
		session.Messages = append(session.Messages, store.Message{Role: role, Content: content})
	}
}

func snapshot(s *store.Session) *store.Session {
	copied := *s
	// Keep Messages non-nil so an empty transcript serializes as [].
	copied.Messages = append([]store.Message{}, s.Messages...)
	if s.Segments != nil {
		copied.Segments = append([]store.Segment(nil), s.Segments...)
	}
	return &copied
}
