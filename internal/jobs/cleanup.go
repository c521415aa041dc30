package jobs

import (
	"log"
	"time"

	"github.com/guzotech/guzobus-backend/internal/services"
)

// CleanupJob sweeps expired sessions on a fixed interval. Expiry itself is
// enforced on read; the sweep only reclaims storage.
type CleanupJob struct {
	sessions  *services.SessionManager
	interval  time.Duration
	isRunning bool
	stop      chan struct{}
}

// NewCleanupJob creates a new session cleanup job
func NewCleanupJob(sessions *services.SessionManager) *CleanupJob {
	return &CleanupJob{
		sessions: sessions,
		interval: 5 * time.Minute,
		stop:     make(chan struct{}),
	}
}

// Start begins the periodic sweep
func (j *CleanupJob) Start() {
	if j.isRunning {
		log.Println("Session cleanup job already running")
		return
	}
	j.isRunning = true
	log.Println("Starting session cleanup job...")

	go j.run()
}

// Stop halts the sweep
func (j *CleanupJob) Stop() {
	if !j.isRunning {
		return
	}
	j.isRunning = false
	close(j.stop)
	log.Println("Stopping session cleanup job...")
}

func (j *CleanupJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			count, err := j.sessions.CleanupExpired()
			if err != nil {
				log.Printf("Session cleanup failed: %v", err)
				continue
			}
			if count > 0 {
				log.Printf("Cleaned up %d expired sessions", count)
			}
		case <-j.stop:
			return
		}
	}
}
