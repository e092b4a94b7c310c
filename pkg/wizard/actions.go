package wizard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/inkdraft/inkdraft/pkg/errcodes"
	"github.com/inkdraft/inkdraft/pkg/generation"
	"github.com/inkdraft/inkdraft/pkg/models"
)

// beginGenerationLocked guards the single in-flight generation slot. Callers
// must hold the mutex.
func (s *Session) beginGenerationLocked() error {
	if s.progress.IsGenerating {
		return errcodes.ValidationError("Another generation is already in progress.")
	}
	s.progress.IsGenerating = true
	return nil
}

// failGenerationLocked records a collaborator failure. The error message
// stays until the next failure overwrites it or ClearError removes it.
func (s *Session) failGenerationLocked(err error) {
	msg := err.Error()
	s.progress.ErrorMessage = &msg
	s.progress.IsGenerating = false
}

// SetTopic sets the project topic and resets the title candidates. Editing
// the topic after later artifacts exist intentionally leaves them in place;
// regenerating is the user's call.
func (s *Session) SetTopic(topic string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ebook.Topic = topic
	s.titleOptions = nil
	s.progress.CurrentStep = models.StepTitle
	s.progress.TotalProgress = models.ProgressTopicSet
	s.progress.StepProgress = 0
	s.touch()
}

// SetInstructions stores free-text guidance passed along to every generation
// call.
func (s *Session) SetInstructions(instructions string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instructions = instructions
	s.dirty = true
}

// AttachDocuments replaces the session's reference documents.
func (s *Session) AttachDocuments(docs []*models.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = docs
	s.dirty = true
}

// RemoveDocument drops a reference document from the session. The stored
// file itself is untouched.
func (s *Session) RemoveDocument(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.documents[:0]
	for _, doc := range s.documents {
		if doc.ID != id {
			kept = append(kept, doc)
		}
	}
	s.documents = kept
	s.dirty = true
}

// GenerateTitles asks the title collaborator for candidates based on the
// topic, instructions, and attached documents.
func (s *Session) GenerateTitles(ctx context.Context) error {
	s.mu.Lock()
	if s.ebook.Topic == "" {
		s.mu.Unlock()
		return errcodes.ValidationError("Set a topic before generating titles.")
	}
	if err := s.beginGenerationLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	req := generation.TitleRequest{
		Topic:        s.ebook.Topic,
		Instructions: s.instructions,
		Documents:    append([]*models.Document(nil), s.documents...),
	}
	s.mu.Unlock()

	titles, err := s.collab.Titles.GenerateTitles(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.failGenerationLocked(err)
		return err
	}

	s.progress.IsGenerating = false
	s.titleOptions = &models.TitleOptions{Options: titles}
	s.progress.CurrentStep = models.StepTitle
	s.progress.TotalProgress = models.ProgressTitlesGenerated
	s.progress.StepProgress = 100
	s.touch()
	return nil
}

// SelectTitle commits one of the generated candidates as the ebook title.
func (s *Session) SelectTitle(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.titleOptions == nil {
		return errcodes.ValidationError("Generate titles before selecting one.")
	}
	if index < 0 || index >= len(s.titleOptions.Options) {
		return errcodes.IndexOutOfRange("title options", index)
	}

	s.titleOptions.SelectedIndex = &index
	s.titleOptions.CustomTitle = nil
	s.ebook.Title = s.titleOptions.Options[index]
	s.progress.CurrentStep = models.StepOutline
	s.progress.TotalProgress = models.ProgressTitleSelected
	s.progress.StepProgress = 0
	s.touch()
	return nil
}

// SetCustomTitle commits a user-written title, superseding any selected
// candidate.
func (s *Session) SetCustomTitle(title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if title == "" {
		return errcodes.ValidationError("Title can't be empty.")
	}

	if s.titleOptions == nil {
		s.titleOptions = &models.TitleOptions{}
	}
	s.titleOptions.CustomTitle = &title
	s.titleOptions.SelectedIndex = nil
	s.ebook.Title = title
	s.progress.CurrentStep = models.StepOutline
	s.progress.TotalProgress = models.ProgressTitleSelected
	s.progress.StepProgress = 0
	s.touch()
	return nil
}

// GenerateOutline asks the outline collaborator for a chapter structure and
// replaces the ebook's outline wholesale.
func (s *Session) GenerateOutline(ctx context.Context, prefs generation.OutlinePreferences) error {
	s.mu.Lock()
	if s.ebook.Title == "" {
		s.mu.Unlock()
		return errcodes.ValidationError("Choose a title before generating an outline.")
	}
	if err := s.beginGenerationLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	req := generation.OutlineRequest{
		Topic:        s.ebook.Topic,
		Title:        s.ebook.Title,
		Instructions: s.instructions,
		Documents:    append([]*models.Document(nil), s.documents...),
		Preferences:  prefs,
	}
	s.mu.Unlock()

	outline, err := s.collab.Outlines.GenerateOutline(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.failGenerationLocked(err)
		return err
	}

	s.progress.IsGenerating = false
	s.ebook.Outline = outline
	s.progress.CurrentStep = models.StepContent
	s.progress.TotalProgress = models.ProgressOutlineGenerated
	s.progress.StepProgress = 0
	s.touch()
	return nil
}

// UpdateChapterOptions carries the editable chapter fields; nil means leave
// unchanged.
type UpdateChapterOptions struct {
	Title       *string
	Description *string
}

func (s *Session) UpdateChapter(chapterID string, opts UpdateChapterOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ebook.Outline == nil {
		return nil
	}
	ch := s.ebook.Outline.Chapter(chapterID)
	if ch == nil {
		return errcodes.NotFound("Chapter")
	}

	if opts.Title != nil {
		ch.Title = *opts.Title
	}
	if opts.Description != nil {
		ch.Description = opts.Description
	}
	s.touch()
	return nil
}

const (
	PositionBefore = "before"
	PositionAfter  = "after"
	PositionAppend = "append"
)

// AddChapterOptions places a new empty chapter relative to an existing one,
// or appends when Position is empty or "append".
type AddChapterOptions struct {
	Title       string
	Description *string
	Position    string
	TargetID    string
}

func (s *Session) AddChapter(opts AddChapterOptions) (*models.Chapter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ebook.Outline == nil {
		return nil, nil
	}

	ch := &models.Chapter{
		ID:          uuid.NewString(),
		Title:       opts.Title,
		Description: opts.Description,
		Subsections: []*models.Subsection{},
		Content:     models.EmptyContent(),
		Status:      models.ChapterStatusPending,
	}

	chapters := s.ebook.Outline.Chapters
	switch opts.Position {
	case PositionBefore, PositionAfter:
		idx := -1
		for i, existing := range chapters {
			if existing.ID == opts.TargetID {
				idx = i
				break
			}
		}
		if idx == -1 {
			return nil, errcodes.NotFound("Chapter")
		}
		if opts.Position == PositionAfter {
			idx++
		}
		chapters = append(chapters, nil)
		copy(chapters[idx+1:], chapters[idx:])
		chapters[idx] = ch
		s.ebook.Outline.Chapters = chapters
	default:
		s.ebook.Outline.Chapters = append(chapters, ch)
	}

	s.touch()
	return ch.Clone(), nil
}

func (s *Session) RemoveChapter(chapterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ebook.Outline == nil {
		return nil
	}

	chapters := s.ebook.Outline.Chapters
	for i, ch := range chapters {
		if ch.ID == chapterID {
			s.ebook.Outline.Chapters = append(chapters[:i], chapters[i+1:]...)
			if s.selectedChapter == chapterID {
				s.selectedChapter = ""
			}
			s.touch()
			return nil
		}
	}
	return errcodes.NotFound("Chapter")
}

// ReorderChapters moves the chapter at from to position to, shifting the
// ones in between.
func (s *Session) ReorderChapters(from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ebook.Outline == nil {
		return nil
	}

	chapters := s.ebook.Outline.Chapters
	if from < 0 || from >= len(chapters) {
		return errcodes.IndexOutOfRange("chapters", from)
	}
	if to < 0 || to >= len(chapters) {
		return errcodes.IndexOutOfRange("chapters", to)
	}
	if from == to {
		return nil
	}

	ch := chapters[from]
	chapters = append(chapters[:from], chapters[from+1:]...)
	chapters = append(chapters, nil)
	copy(chapters[to+1:], chapters[to:])
	chapters[to] = ch
	s.ebook.Outline.Chapters = chapters

	s.touch()
	return nil
}

func (s *Session) AddSubsection(chapterID, title, hint string) (*models.Subsection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ebook.Outline == nil {
		return nil, nil
	}
	ch := s.ebook.Outline.Chapter(chapterID)
	if ch == nil {
		return nil, errcodes.NotFound("Chapter")
	}

	sub := &models.Subsection{
		ID:     uuid.NewString(),
		Title:  title,
		Hint:   hint,
		Status: models.ChapterStatusPending,
	}
	ch.Subsections = append(ch.Subsections, sub)
	s.touch()
	return sub.Clone(), nil
}

func (s *Session) RemoveSubsection(chapterID, subsectionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ebook.Outline == nil {
		return nil
	}
	ch := s.ebook.Outline.Chapter(chapterID)
	if ch == nil {
		return errcodes.NotFound("Chapter")
	}

	for i, sub := range ch.Subsections {
		if sub.ID == subsectionID {
			ch.Subsections = append(ch.Subsections[:i], ch.Subsections[i+1:]...)
			s.touch()
			return nil
		}
	}
	return errcodes.NotFound("Subsection")
}

// GenerateChapterContent generates text for a single chapter. Failures are
// chapter-scoped: the failing chapter gets status error and its own message,
// everything else is untouched.
func (s *Session) GenerateChapterContent(ctx context.Context, chapterID string) error {
	s.mu.Lock()
	if s.ebook.Outline == nil {
		s.mu.Unlock()
		return errcodes.ValidationError("Generate an outline before writing chapters.")
	}
	ch := s.ebook.Outline.Chapter(chapterID)
	if ch == nil {
		s.mu.Unlock()
		return errcodes.NotFound("Chapter")
	}
	if ch.Content.IsSkipped() {
		s.mu.Unlock()
		return errcodes.ValidationError("This chapter is skipped. Unskip it to generate content.")
	}
	if err := s.beginGenerationLocked(); err != nil {
		s.mu.Unlock()
		return err
	}

	ch.Status = models.ChapterStatusGenerating
	ch.ErrorMessage = nil

	subsections := make([]*models.Subsection, len(ch.Subsections))
	for i, sub := range ch.Subsections {
		subsections[i] = sub.Clone()
	}
	req := generation.ChapterRequest{
		ChapterTitle:       ch.Title,
		ChapterDescription: ch.Description,
		Subsections:        subsections,
		EbookTitle:         s.ebook.Title,
		Topic:              s.ebook.Topic,
		TargetWordCount:    generation.TargetWordCount(s.ebook.Outline.WordCountLevel),
		Tone:               s.ebook.Outline.WritingTone,
		Documents:          append([]*models.Document(nil), s.documents...),
	}
	s.mu.Unlock()

	content, err := s.collab.Content.GenerateChapterContent(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress.IsGenerating = false

	// The outline may have been edited while the call was out; re-resolve.
	ch = s.ebook.Outline.Chapter(chapterID)
	if ch == nil {
		return nil
	}

	if err != nil {
		msg := err.Error()
		ch.Status = models.ChapterStatusError
		ch.ErrorMessage = &msg
		s.touch()
		return err
	}

	ch.Content = models.TextContent(content)
	ch.Status = models.ChapterStatusCompleted
	ch.ErrorMessage = nil
	s.progress.CreditsUsed += CreditsPerChapter
	s.updateContentProgressLocked()
	s.touch()
	return nil
}

// UpdateChapterContent overwrites a chapter's text directly. Non-empty text
// marks the chapter completed; clearing it puts the chapter back to pending.
func (s *Session) UpdateChapterContent(chapterID, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ebook.Outline == nil {
		return nil
	}
	ch := s.ebook.Outline.Chapter(chapterID)
	if ch == nil {
		return errcodes.NotFound("Chapter")
	}

	ch.Content = models.TextContent(content)
	if ch.Content.HasText() {
		ch.Status = models.ChapterStatusCompleted
	} else {
		ch.Status = models.ChapterStatusPending
	}
	ch.ErrorMessage = nil
	s.updateContentProgressLocked()
	s.touch()
	return nil
}

// ToggleChapterSkip marks a chapter as intentionally skipped or restores it.
// Any written text survives a skip-unskip round trip.
func (s *Session) ToggleChapterSkip(chapterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ebook.Outline == nil {
		return nil
	}
	ch := s.ebook.Outline.Chapter(chapterID)
	if ch == nil {
		return errcodes.NotFound("Chapter")
	}

	if ch.Content.IsSkipped() {
		ch.Content = models.TextContent(ch.Content.Text)
		if ch.Content.HasText() {
			ch.Status = models.ChapterStatusCompleted
		} else {
			ch.Status = models.ChapterStatusPending
		}
	} else {
		ch.Content = models.ChapterContent{Kind: models.ContentKindSkipped, Text: ch.Content.Text}
		ch.Status = models.ChapterStatusCompleted
	}
	s.updateContentProgressLocked()
	s.touch()
	return nil
}

// updateContentProgressLocked recomputes step progress for the content step
// from the live chapter list. Callers must hold the mutex.
func (s *Session) updateContentProgressLocked() {
	total := s.ebook.Outline.TotalChapters()
	if total == 0 || s.progress.CurrentStep != models.StepContent {
		return
	}
	done := s.ebook.Outline.CompletedChapters() + s.ebook.Outline.SkippedChapters()
	s.progress.StepProgress = done * 100 / total
}

// CoverOptions are the user-chosen cover parameters.
type CoverOptions struct {
	Style       string
	ColorScheme string
	FontStyle   string
	AuthorName  string
	Subtitle    *string
}

// GenerateCover asks the cover collaborator for art and replaces the ebook's
// cover wholesale.
func (s *Session) GenerateCover(ctx context.Context, opts CoverOptions) error {
	s.mu.Lock()
	if s.ebook.Title == "" {
		s.mu.Unlock()
		return errcodes.ValidationError("Choose a title before generating a cover.")
	}
	if err := s.beginGenerationLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	req := generation.CoverRequest{
		Title:       s.ebook.Title,
		Subtitle:    opts.Subtitle,
		AuthorName:  opts.AuthorName,
		Topic:       s.ebook.Topic,
		Style:       opts.Style,
		ColorScheme: opts.ColorScheme,
		FontStyle:   opts.FontStyle,
		UserID:      s.userID,
	}
	s.mu.Unlock()

	result, err := s.collab.Covers.GenerateCover(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.failGenerationLocked(err)
		return err
	}

	s.progress.IsGenerating = false
	s.ebook.Cover = &models.Cover{
		ID:          uuid.NewString(),
		ImageURL:    result.ImageURL,
		Style:       opts.Style,
		ColorScheme: opts.ColorScheme,
		FontStyle:   opts.FontStyle,
		AuthorName:  opts.AuthorName,
		Subtitle:    opts.Subtitle,
		GeneratedAt: time.Now(),
	}

	credits := result.CreditsUsed
	if credits <= 0 {
		credits = s.coverCreditCost
	}
	s.progress.CreditsUsed += credits

	s.progress.CurrentStep = models.StepExport
	s.progress.TotalProgress = models.ProgressCoverGenerated
	s.progress.StepProgress = 100
	s.touch()
	return nil
}

// SetActiveTab records which wizard tab the user is looking at. Pure focus
// state; it never gates transitions.
func (s *Session) SetActiveTab(tab string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeTab = tab
	s.dirty = true
}

func (s *Session) SetSelectedChapter(chapterID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedChapter = chapterID
}

// ClearError drops the last recorded generation error.
func (s *Session) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress.ErrorMessage = nil
}
