package services

import (
	"testing"
	"time"

	"github.com/guzotech/guzobus-backend/internal/models"
	"github.com/guzotech/guzobus-backend/internal/storage"
)

// testClock is a settable clock for driving expiry behavior.
type testClock struct {
	current time.Time
}

func (c *testClock) Now() time.Time { return c.current }

func (c *testClock) Advance(d time.Duration) { c.current = c.current.Add(d) }

func newTestSessionManager() (*SessionManager, *testClock) {
	clock := &testClock{current: time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)}
	sm := NewSessionManager(storage.NewMemoryStore())
	sm.now = clock.Now
	return sm, clock
}

func TestGetOrCreateNewSession(t *testing.T) {
	sm, clock := newTestSessionManager()

	session, err := sm.GetOrCreate("+251911234567")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if session.SessionID == "" {
		t.Fatal("new session has empty SessionID")
	}
	if session.State != models.StateIdle {
		t.Fatalf("new session state = %q, want IDLE", session.State)
	}
	if session.Language != models.LanguageEnglish {
		t.Fatalf("new session language = %q, want EN", session.Language)
	}
	if want := clock.Now().Add(SessionTimeout); !session.ExpiresAt.Equal(want) {
		t.Fatalf("ExpiresAt = %v, want %v", session.ExpiresAt, want)
	}
}

func TestGetOrCreateReturnsActiveSession(t *testing.T) {
	sm, clock := newTestSessionManager()

	first, _ := sm.GetOrCreate("+251911234567")
	clock.Advance(5 * time.Minute)

	second, err := sm.GetOrCreate("+251911234567")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if second.SessionID != first.SessionID {
		t.Fatalf("got a new session %s, want the existing %s", second.SessionID, first.SessionID)
	}
}

func TestUpdateSlidesExpiry(t *testing.T) {
	sm, clock := newTestSessionManager()

	session, _ := sm.GetOrCreate("+251911234567")
	before := session.ExpiresAt

	clock.Advance(10 * time.Minute)
	if err := sm.Update(session); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if !session.ExpiresAt.After(before) {
		t.Fatalf("expiry did not slide forward: %v -> %v", before, session.ExpiresAt)
	}
	if want := clock.Now().Add(SessionTimeout); !session.ExpiresAt.Equal(want) {
		t.Fatalf("ExpiresAt = %v, want %v", session.ExpiresAt, want)
	}
	if session.MessageCount != 1 {
		t.Fatalf("MessageCount = %d, want 1", session.MessageCount)
	}
}

func TestExpiredSessionIsReplaced(t *testing.T) {
	sm, clock := newTestSessionManager()

	first, _ := sm.GetOrCreate("+251911234567")
	first.State = models.StateConfirmBooking
	if err := sm.Update(first); err != nil {
		t.Fatalf("Update: %v", err)
	}

	// Exactly at the expiry instant the session is already gone.
	clock.Advance(SessionTimeout)

	second, err := sm.GetOrCreate("+251911234567")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if second.SessionID == first.SessionID {
		t.Fatal("expired session was returned instead of a fresh one")
	}
	if second.State != models.StateIdle {
		t.Fatalf("replacement session state = %q, want IDLE", second.State)
	}
}

func TestUpdateFailsAfterSweep(t *testing.T) {
	sm, clock := newTestSessionManager()

	session, _ := sm.GetOrCreate("+251911234567")

	clock.Advance(20 * time.Minute)
	swept, err := sm.CleanupExpired()
	if err != nil {
		t.Fatalf("CleanupExpired: %v", err)
	}
	if swept != 1 {
		t.Fatalf("swept = %d, want 1", swept)
	}

	if err := sm.Update(session); err == nil {
		t.Fatal("Update succeeded on a swept session")
	}
}

func TestStats(t *testing.T) {
	sm, clock := newTestSessionManager()

	sm.GetOrCreate("+251911111111")
	clock.Advance(20 * time.Minute)
	sm.GetOrCreate("+251922222222")

	stats, err := sm.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalSessions != 2 {
		t.Fatalf("TotalSessions = %d, want 2", stats.TotalSessions)
	}
	if stats.ActiveSessions != 1 {
		t.Fatalf("ActiveSessions = %d, want 1", stats.ActiveSessions)
	}
}
