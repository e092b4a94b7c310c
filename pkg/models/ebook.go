package models

import (
	"strings"
	"time"
)

const (
	EbookStatusDraft      = "draft"
	EbookStatusInProgress = "in_progress"
	EbookStatusCompleted  = "completed"
	EbookStatusExported   = "exported"
)

const (
	ChapterStatusPending    = "pending"
	ChapterStatusGenerating = "generating"
	ChapterStatusCompleted  = "completed"
	ChapterStatusError      = "error"
)

const (
	ContentKindEmpty   = "empty"
	ContentKindContent = "content"
	ContentKindSkipped = "skipped"
)

// ChapterContent is the tri-state body of a chapter: not written yet, written
// text, or intentionally skipped. A tagged value instead of a sentinel string
// so every reader doesn't have to know a magic marker.
type ChapterContent struct {
	Kind string `json:"kind"`
	Text string `json:"text,omitempty"`
}

func EmptyContent() ChapterContent {
	return ChapterContent{Kind: ContentKindEmpty}
}

func TextContent(text string) ChapterContent {
	if text == "" {
		return EmptyContent()
	}
	return ChapterContent{Kind: ContentKindContent, Text: text}
}

func SkippedContent() ChapterContent {
	return ChapterContent{Kind: ContentKindSkipped}
}

func (c ChapterContent) IsEmpty() bool {
	return c.Kind == ContentKindEmpty || c.Kind == ""
}

func (c ChapterContent) IsSkipped() bool {
	return c.Kind == ContentKindSkipped
}

func (c ChapterContent) HasText() bool {
	return c.Kind == ContentKindContent && c.Text != ""
}

// WordCount returns the whitespace-split word count of written content.
func (c ChapterContent) WordCount() int {
	if !c.HasText() {
		return 0
	}
	return len(strings.Fields(c.Text))
}

type Subsection struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Hint    string  `json:"hint,omitempty"`
	Content *string `json:"content,omitempty"`
	Status  string  `json:"status"`
}

type Chapter struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  *string        `json:"description,omitempty"`
	Subsections  []*Subsection  `json:"subsections"`
	Content      ChapterContent `json:"content"`
	Status       string         `json:"status"`
	ErrorMessage *string        `json:"error_message,omitempty"`
}

// Outline holds the ordered chapters plus the generation preferences fixed at
// outline-creation time. Chapter number is position; there is no stored
// chapter count or word count to drift out of sync — both are derived.
type Outline struct {
	Chapters        []*Chapter `json:"chapters"`
	WordCountLevel  string     `json:"word_count_level,omitempty"`
	ComplexityLevel string     `json:"complexity_level,omitempty"`
	WritingTone     string     `json:"writing_tone,omitempty"`
	TargetAudience  string     `json:"target_audience,omitempty"`
	IncludeImages   bool       `json:"include_images"`
	IncludeCTAs     bool       `json:"include_ctas"`
}

func (o *Outline) TotalChapters() int {
	if o == nil {
		return 0
	}
	return len(o.Chapters)
}

func (o *Outline) EstimatedWordCount() int {
	if o == nil {
		return 0
	}
	total := 0
	for _, ch := range o.Chapters {
		total += ch.Content.WordCount()
	}
	return total
}

func (o *Outline) CompletedChapters() int {
	if o == nil {
		return 0
	}
	count := 0
	for _, ch := range o.Chapters {
		if ch.Status == ChapterStatusCompleted && ch.Content.HasText() {
			count++
		}
	}
	return count
}

func (o *Outline) SkippedChapters() int {
	if o == nil {
		return 0
	}
	count := 0
	for _, ch := range o.Chapters {
		if ch.Content.IsSkipped() {
			count++
		}
	}
	return count
}

// Chapter returns the chapter with the given id, or nil.
func (o *Outline) Chapter(id string) *Chapter {
	if o == nil {
		return nil
	}
	for _, ch := range o.Chapters {
		if ch.ID == id {
			return ch
		}
	}
	return nil
}

type Cover struct {
	ID          string    `json:"id"`
	ImageURL    string    `json:"image_url"`
	Style       string    `json:"style"`
	ColorScheme string    `json:"color_scheme"`
	FontStyle   string    `json:"font_style"`
	AuthorName  string    `json:"author_name"`
	Subtitle    *string   `json:"subtitle,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Ebook is the root record for one ebook project, mutated only through the
// wizard session's methods.
type Ebook struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic"`
	Title     string    `json:"title"`
	Outline   *Outline  `json:"outline,omitempty"`
	Cover     *Cover    `json:"cover,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
