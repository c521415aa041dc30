package services

import (
	"fmt"
	"hash/fnv"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/guzotech/guzobus-backend/internal/models"
	"github.com/guzotech/guzobus-backend/internal/storage"
)

// SessionTimeout is the sliding expiry window. Every successful turn pushes
// the session's expiry this far into the future.
const SessionTimeout = 15 * time.Minute

const phoneLockStripes = 64

// SessionManager manages conversation sessions with sliding expiry
type SessionManager struct {
	repo storage.SessionRepository
	now  func() time.Time

	// Writers for the same phone are serialized through these stripes.
	// Every path that reads a session and writes it back (the inbound turn
	// loop, the payment settlement webhook) must hold the phone's lock for
	// the whole read-modify-write, or one writer silently undoes the other.
	locks [phoneLockStripes]sync.Mutex
}

// NewSessionManager creates a new session manager
func NewSessionManager(repo storage.SessionRepository) *SessionManager {
	return &SessionManager{
		repo: repo,
		now:  time.Now,
	}
}

// LockPhone acquires the stripe lock for the phone and returns the unlock.
// Different phones stay fully parallel.
func (sm *SessionManager) LockPhone(phone string) func() {
	h := fnv.New32a()
	h.Write([]byte(phone))
	mu := &sm.locks[h.Sum32()%phoneLockStripes]
	mu.Lock()
	return mu.Unlock
}

// GetOrCreate returns the newest non-expired session for the phone, or creates
// a fresh one in IDLE with English as the provisional language.
func (sm *SessionManager) GetOrCreate(phone string) (*models.Session, error) {
	now := sm.now()

	session, err := sm.repo.GetActiveSessionByPhone(phone, now)
	if err == nil {
		return session, nil
	}

	session = &models.Session{
		SessionID:     uuid.NewString(),
		Phone:         phone,
		State:         models.StateIdle,
		Language:      models.LanguageEnglish,
		LastMessageAt: now,
		ExpiresAt:     now.Add(SessionTimeout),
	}

	created, err := sm.repo.CreateSession(session)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.Printf("Session created for %s (%s)", phone, created.SessionID)
	return created, nil
}

// Update persists the session after a turn: last activity moves to now, the
// expiry window slides forward and the turn counter increments. Fails with
// not-found if the row has been swept in the meantime.
func (sm *SessionManager) Update(session *models.Session) error {
	now := sm.now()

	session.LastMessageAt = now
	session.ExpiresAt = now.Add(SessionTimeout)
	session.MessageCount++

	if err := sm.repo.SaveSession(session); err != nil {
		return fmt.Errorf("failed to update session %s: %w", session.SessionID, err)
	}
	return nil
}

// CleanupExpired deletes all sessions past their expiry. Intended for the
// periodic sweep job, not per-request use.
func (sm *SessionManager) CleanupExpired() (int64, error) {
	count, err := sm.repo.DeleteExpiredSessions(sm.now())
	if err != nil {
		return 0, fmt.Errorf("failed to clean up sessions: %w", err)
	}
	return count, nil
}

// Stats returns the monitoring aggregate
func (sm *SessionManager) Stats() (*models.SessionStats, error) {
	return sm.repo.SessionStats(sm.now())
}
