package generation

import (
	"context"

	"github.com/inkdraft/inkdraft/pkg/models"
)

// Word count levels accepted by outline preferences, mapped to per-chapter
// target word counts.
const (
	WordCountShort    = "short"
	WordCountStandard = "standard"
	WordCountLong     = "long"
)

var targetWordCounts = map[string]int{
	WordCountShort:    1500,
	WordCountStandard: 3000,
	WordCountLong:     5000,
}

// TargetWordCount resolves a word count level to a per-chapter target,
// defaulting to the standard length for unknown levels.
func TargetWordCount(level string) int {
	if count, ok := targetWordCounts[level]; ok {
		return count
	}
	return targetWordCounts[WordCountStandard]
}

type TitleRequest struct {
	Topic        string
	Instructions string
	Documents    []*models.Document
}

type OutlinePreferences struct {
	WordCountLevel  string `json:"word_count_level"`
	ComplexityLevel string `json:"complexity_level"`
	WritingTone     string `json:"writing_tone"`
	TargetAudience  string `json:"target_audience"`
	IncludeImages   bool   `json:"include_images"`
	IncludeCTAs     bool   `json:"include_ctas"`
}

type OutlineRequest struct {
	Topic        string
	Title        string
	Instructions string
	Documents    []*models.Document
	Preferences  OutlinePreferences
}

type ChapterRequest struct {
	ChapterTitle       string
	ChapterDescription *string
	Subsections        []*models.Subsection
	EbookTitle         string
	Topic              string
	TargetWordCount    int
	Tone               string
	Documents          []*models.Document
}

type CoverRequest struct {
	Title       string
	Subtitle    *string
	AuthorName  string
	Topic       string
	Style       string
	ColorScheme string
	FontStyle   string
	UserID      int
}

type CoverResult struct {
	ImageURL    string
	CreditsUsed int
}

// The wizard session depends on these interfaces rather than concrete
// services so tests can inject fakes and production can swap providers.

type TitleGenerator interface {
	GenerateTitles(ctx context.Context, req TitleRequest) ([]string, error)
}

type OutlineGenerator interface {
	GenerateOutline(ctx context.Context, req OutlineRequest) (*models.Outline, error)
}

type ContentGenerator interface {
	GenerateChapterContent(ctx context.Context, req ChapterRequest) (string, error)
}

type CoverGenerator interface {
	GenerateCover(ctx context.Context, req CoverRequest) (*CoverResult, error)
}
