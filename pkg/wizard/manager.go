package wizard

import (
	"context"
	"sync"
	"time"

	"github.com/robinjoseph08/golib/logger"
)

// Manager owns one live session per user and runs the autosave loop. Sessions
// are created lazily on first access and live until Shutdown.
type Manager struct {
	mu       sync.Mutex
	sessions map[int]*Session

	collab          Collaborators
	coverCreditCost int
	interval        time.Duration
	log             logger.Logger

	shutdown chan struct{}
	done     chan struct{}
}

func NewManager(collab Collaborators, coverCreditCost int, autosaveInterval time.Duration) *Manager {
	return &Manager{
		sessions:        map[int]*Session{},
		collab:          collab,
		coverCreditCost: coverCreditCost,
		interval:        autosaveInterval,
		log:             logger.New(),
		shutdown:        make(chan struct{}),
		done:            make(chan struct{}),
	}
}

// Session returns the user's live session, creating one on first access.
func (m *Manager) Session(userID int) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[userID]
	if !ok {
		sess = NewSession(userID, m.collab, m.coverCreditCost)
		m.sessions[userID] = sess
	}
	return sess
}

// Drop discards a user's live session. The next access starts fresh.
func (m *Manager) Drop(userID int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

// Start launches the autosave loop.
func (m *Manager) Start() {
	go m.autosaveLoop()
}

func (m *Manager) autosaveLoop() {
	timer := time.NewTimer(m.interval)

	for {
		select {
		case <-m.shutdown:
			m.saveAll()
			m.done <- struct{}{}
			return
		case <-timer.C:
			m.saveAll()
			timer.Reset(m.interval)
		}
	}
}

func (m *Manager) saveAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		sessions = append(sessions, sess)
	}
	m.mu.Unlock()

	ctx := m.log.WithContext(context.Background())
	for _, sess := range sessions {
		sess.AutoSave(ctx)
	}
}

// Shutdown stops the autosave loop after one final save pass.
func (m *Manager) Shutdown() {
	close(m.shutdown)
	<-m.done
}
