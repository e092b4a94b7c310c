package wizard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/inkdraft/inkdraft/pkg/generation"
	"github.com/inkdraft/inkdraft/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

// Credits charged when a chapter generation succeeds. Cover credits come from
// the provider's response, with a configured fallback.
const CreditsPerChapter = 8

// Collaborators are the injected services a session delegates to. Every
// external call a session makes goes through one of these, so tests can swap
// in fakes.
type Collaborators struct {
	Titles    generation.TitleGenerator
	Outlines  generation.OutlineGenerator
	Content   generation.ContentGenerator
	Covers    generation.CoverGenerator
	Store     Store
	Documents DocumentLoader
}

// DocumentLoader resolves stored document ids back into full records when a
// session is restored.
type DocumentLoader interface {
	DocumentsByIDs(ctx context.Context, userID int, ids []string) ([]*models.Document, error)
}

// Session is the single writer for one user's ebook-in-progress. All reads
// and mutations go through its methods; the mutex makes that safe even though
// requests and the autosave loop touch it from different goroutines.
type Session struct {
	mu sync.Mutex

	// saveMu serializes Save so a fresh session is inserted at most once
	// even when a manual save races the autosave tick.
	saveMu sync.Mutex

	userID          int
	ebook           *models.Ebook
	titleOptions    *models.TitleOptions
	progress        models.GenerationProgress
	activeTab       string
	selectedChapter string
	documents       []*models.Document
	instructions    string
	sessionID       string
	lastSavedAt     *time.Time
	dirty           bool

	collab          Collaborators
	coverCreditCost int
}

func NewSession(userID int, collab Collaborators, coverCreditCost int) *Session {
	return &Session{
		userID:          userID,
		ebook:           newEbook(),
		progress:        models.InitialProgress(),
		activeTab:       models.StepTopic,
		collab:          collab,
		coverCreditCost: coverCreditCost,
	}
}

func newEbook() *models.Ebook {
	now := time.Now()
	return &models.Ebook{
		ID:        uuid.NewString(),
		Status:    models.EbookStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// touch refreshes the ebook's updated_at and marks the session for autosave.
// Callers must hold the mutex.
func (s *Session) touch() {
	s.ebook.UpdatedAt = time.Now()
	s.dirty = true
}

// View is the read model handlers serialize into responses. Everything in it
// is a deep copy of session state.
type View struct {
	SessionID       string                    `json:"session_id,omitempty"`
	Ebook           *models.Ebook             `json:"ebook"`
	TitleOptions    *models.TitleOptions      `json:"title_options,omitempty"`
	Progress        models.GenerationProgress `json:"progress"`
	ActiveTab       string                    `json:"active_tab"`
	SelectedChapter string                    `json:"selected_chapter_id,omitempty"`
	Documents       []*models.Document        `json:"documents"`
	Instructions    string                    `json:"instructions,omitempty"`
	LastSavedAt     *time.Time                `json:"last_saved_at,omitempty"`
}

func (s *Session) View() *View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() *View {
	docs := make([]*models.Document, len(s.documents))
	copy(docs, s.documents)

	var savedAt *time.Time
	if s.lastSavedAt != nil {
		t := *s.lastSavedAt
		savedAt = &t
	}

	return &View{
		SessionID:       s.sessionID,
		Ebook:           s.ebook.Clone(),
		TitleOptions:    s.titleOptions.Clone(),
		Progress:        s.progress.Clone(),
		ActiveTab:       s.activeTab,
		SelectedChapter: s.selectedChapter,
		Documents:       docs,
		Instructions:    s.instructions,
		LastSavedAt:     savedAt,
	}
}

// snapshotLocked builds the persistence projection. Callers must hold the
// mutex.
func (s *Session) snapshotLocked() *models.Snapshot {
	docIDs := make([]string, 0, len(s.documents))
	for _, doc := range s.documents {
		docIDs = append(docIDs, doc.ID)
	}

	return &models.Snapshot{
		EbookID:       s.ebook.ID,
		Topic:         s.ebook.Topic,
		Title:         s.ebook.Title,
		Status:        s.ebook.Status,
		TitleOptions:  s.titleOptions.Clone(),
		Outline:       s.ebook.Outline.Clone(),
		Cover:         s.ebook.Cover.Clone(),
		DocumentIDs:   docIDs,
		Instructions:  s.instructions,
		ActiveTab:     s.activeTab,
		CurrentStep:   s.progress.CurrentStep,
		TotalProgress: s.progress.TotalProgress,
		CreditsUsed:   s.progress.CreditsUsed,
		CreatedAt:     s.ebook.CreatedAt,
		UpdatedAt:     s.ebook.UpdatedAt,
	}
}

// Save persists the current snapshot through the store and records the
// returned session id and save time.
func (s *Session) Save(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	snap := s.snapshotLocked()
	sessionID := s.sessionID
	s.mu.Unlock()

	saved, err := s.collab.Store.SaveSession(ctx, s.userID, sessionID, snap)
	if err != nil {
		return errors.WithStack(err)
	}

	now := time.Now()
	s.mu.Lock()
	s.sessionID = saved.ID
	s.lastSavedAt = &now
	s.dirty = false
	s.mu.Unlock()

	return nil
}

// AutoSave saves only when there is something worth saving and the session
// has changed since the last save. Failures are logged, never returned; a
// missed autosave just means the next tick tries again.
func (s *Session) AutoSave(ctx context.Context) {
	s.mu.Lock()
	skip := !s.dirty || s.ebook.Topic == ""
	s.mu.Unlock()
	if skip {
		return
	}

	if err := s.Save(ctx); err != nil {
		logger.FromContext(ctx).Err(err).Warn("autosave failed")
	}
}

// Load replaces the session's state with the user's latest saved session. A
// missing saved session is not an error; the session just stays as it is.
func (s *Session) Load(ctx context.Context) (bool, error) {
	stored, err := s.collab.Store.LoadSession(ctx, s.userID)
	if err != nil {
		return false, errors.WithStack(err)
	}
	if stored == nil || stored.SnapshotParsed == nil {
		return false, nil
	}
	snap := stored.SnapshotParsed

	var docs []*models.Document
	if len(snap.DocumentIDs) > 0 && s.collab.Documents != nil {
		docs, err = s.collab.Documents.DocumentsByIDs(ctx, s.userID, snap.DocumentIDs)
		if err != nil {
			logger.FromContext(ctx).Err(err).Warn("failed to restore session documents")
			docs = nil
		}
	}

	now := time.Now()
	createdAt := snap.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	updatedAt := snap.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = now
	}

	status := snap.Status
	if status == "" {
		status = models.EbookStatusDraft
	}
	step := snap.CurrentStep
	if step == "" {
		step = models.StepTopic
	}
	activeTab := snap.ActiveTab
	if activeTab == "" {
		activeTab = step
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ebook = &models.Ebook{
		ID:        snap.EbookID,
		Topic:     snap.Topic,
		Title:     snap.Title,
		Outline:   snap.Outline.Clone(),
		Cover:     snap.Cover.Clone(),
		Status:    status,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
	if s.ebook.ID == "" {
		s.ebook.ID = uuid.NewString()
	}
	s.titleOptions = snap.TitleOptions.Clone()
	s.progress = models.GenerationProgress{
		CurrentStep:   step,
		TotalProgress: snap.TotalProgress,
		CreditsUsed:   snap.CreditsUsed,
	}
	s.activeTab = activeTab
	s.selectedChapter = ""
	s.documents = docs
	s.instructions = snap.Instructions
	s.sessionID = stored.ID
	s.lastSavedAt = stored.SavedAt
	s.dirty = false

	return true, nil
}

// ClearCurrentProject deletes the remote session best-effort and always
// resets local state to a fresh project. A failed remote delete is logged and
// does not block the reset.
func (s *Session) ClearCurrentProject(ctx context.Context) {
	s.mu.Lock()
	ebookID := s.ebook.ID
	s.mu.Unlock()

	if err := s.collab.Store.ClearSession(ctx, s.userID, ebookID); err != nil {
		logger.FromContext(ctx).Err(err).Warn("failed to delete remote session, resetting locally anyway")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ebook = newEbook()
	s.titleOptions = nil
	s.progress = models.InitialProgress()
	s.activeTab = models.StepTopic
	s.selectedChapter = ""
	s.documents = nil
	s.instructions = ""
	s.sessionID = ""
	s.lastSavedAt = nil
	s.dirty = false
}

// MarkExported records a completed export.
func (s *Session) MarkExported() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ebook.Status = models.EbookStatusExported
	s.progress.CurrentStep = models.StepExport
	s.progress.TotalProgress = models.ProgressExported
	s.progress.StepProgress = 100
	s.touch()
}
