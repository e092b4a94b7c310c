package generation

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/inkdraft/inkdraft/pkg/config"
	"github.com/inkdraft/inkdraft/pkg/models"
	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

// Client calls the generation gateway over HTTP. Every endpoint responds with
// a {success, ..., error} envelope; failures reported in the envelope are
// normalized into Go errors so callers see a single failure path.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:    cfg.GenerationBaseURL,
		apiKey:     cfg.GenerationAPIKey,
		httpClient: &http.Client{Timeout: cfg.GenerationTimeout},
	}
}

type documentRef struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	FileType   string `json:"file_type"`
	TokenCount int    `json:"token_count"`
}

func documentRefs(docs []*models.Document) []documentRef {
	refs := make([]documentRef, 0, len(docs))
	for _, doc := range docs {
		refs = append(refs, documentRef{
			ID:         doc.ID,
			Filename:   doc.Filename,
			FileType:   doc.FileType,
			TokenCount: doc.TokenCount,
		})
	}
	return refs
}

func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.WithStack(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WithStack(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Errorf("generation gateway returned %d for %s", resp.StatusCode, path)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return errors.Wrapf(err, "failed to decode response from %s", path)
	}
	return nil
}

type titlesResponse struct {
	Success         bool     `json:"success"`
	GeneratedTitles []string `json:"generated_titles"`
	Error           string   `json:"error"`
}

func (c *Client) GenerateTitles(ctx context.Context, req TitleRequest) ([]string, error) {
	payload := struct {
		Topic        string        `json:"topic"`
		Instructions string        `json:"instructions,omitempty"`
		Documents    []documentRef `json:"uploaded_documents"`
	}{req.Topic, req.Instructions, documentRefs(req.Documents)}

	out := titlesResponse{}
	if err := c.post(ctx, "/v1/titles", payload, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, errors.New(out.Error)
	}
	return out.GeneratedTitles, nil
}

type wireSubsection struct {
	Title string `json:"title"`
	Hint  string `json:"hint"`
}

type wireChapter struct {
	Title       string           `json:"title"`
	Description *string          `json:"description"`
	Subsections []wireSubsection `json:"subsections"`
}

type outlineResponse struct {
	Success bool `json:"success"`
	Outline *struct {
		Chapters []wireChapter `json:"chapters"`
	} `json:"outline"`
	Error string `json:"error"`
}

func (c *Client) GenerateOutline(ctx context.Context, req OutlineRequest) (*models.Outline, error) {
	payload := struct {
		Topic        string             `json:"topic"`
		Title        string             `json:"title"`
		Instructions string             `json:"instructions,omitempty"`
		Documents    []documentRef      `json:"uploaded_documents"`
		Preferences  OutlinePreferences `json:"content_preferences"`
	}{req.Topic, req.Title, req.Instructions, documentRefs(req.Documents), req.Preferences}

	out := outlineResponse{}
	if err := c.post(ctx, "/v1/outline", payload, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, errors.New(out.Error)
	}
	if out.Outline == nil {
		return nil, errors.New("gateway returned no outline")
	}

	outline := &models.Outline{
		Chapters:        make([]*models.Chapter, 0, len(out.Outline.Chapters)),
		WordCountLevel:  req.Preferences.WordCountLevel,
		ComplexityLevel: req.Preferences.ComplexityLevel,
		WritingTone:     req.Preferences.WritingTone,
		TargetAudience:  req.Preferences.TargetAudience,
		IncludeImages:   req.Preferences.IncludeImages,
		IncludeCTAs:     req.Preferences.IncludeCTAs,
	}
	for _, wc := range out.Outline.Chapters {
		chapter := &models.Chapter{
			ID:          uuid.NewString(),
			Title:       wc.Title,
			Description: wc.Description,
			Subsections: make([]*models.Subsection, 0, len(wc.Subsections)),
			Content:     models.EmptyContent(),
			Status:      models.ChapterStatusPending,
		}
		for _, ws := range wc.Subsections {
			chapter.Subsections = append(chapter.Subsections, &models.Subsection{
				ID:     uuid.NewString(),
				Title:  ws.Title,
				Hint:   ws.Hint,
				Status: models.ChapterStatusPending,
			})
		}
		outline.Chapters = append(outline.Chapters, chapter)
	}
	return outline, nil
}

type chapterResponse struct {
	Success bool   `json:"success"`
	Content string `json:"content"`
	Error   string `json:"error"`
}

func (c *Client) GenerateChapterContent(ctx context.Context, req ChapterRequest) (string, error) {
	subsections := make([]wireSubsection, 0, len(req.Subsections))
	for _, sub := range req.Subsections {
		subsections = append(subsections, wireSubsection{Title: sub.Title, Hint: sub.Hint})
	}

	payload := struct {
		ChapterTitle       string           `json:"chapter_title"`
		ChapterDescription *string          `json:"chapter_description"`
		Subsections        []wireSubsection `json:"subsections"`
		EbookTitle         string           `json:"ebook_title"`
		Topic              string           `json:"topic"`
		TargetWordCount    int              `json:"target_word_count"`
		Tone               string           `json:"tone"`
		Documents          []documentRef    `json:"uploaded_documents"`
	}{req.ChapterTitle, req.ChapterDescription, subsections, req.EbookTitle, req.Topic, req.TargetWordCount, req.Tone, documentRefs(req.Documents)}

	out := chapterResponse{}
	if err := c.post(ctx, "/v1/chapter", payload, &out); err != nil {
		return "", err
	}
	if !out.Success {
		return "", errors.New(out.Error)
	}
	return out.Content, nil
}

type coverResponse struct {
	Success     bool   `json:"success"`
	CoverURL    string `json:"cover_url"`
	CreditsUsed int    `json:"credits_used"`
	Error       string `json:"error"`
}

func (c *Client) GenerateCover(ctx context.Context, req CoverRequest) (*CoverResult, error) {
	payload := struct {
		Title       string  `json:"title"`
		Subtitle    *string `json:"subtitle,omitempty"`
		AuthorName  string  `json:"author_name,omitempty"`
		Topic       string  `json:"topic"`
		Style       string  `json:"style"`
		ColorScheme string  `json:"color_scheme"`
		FontStyle   string  `json:"font_style"`
		UserID      int     `json:"user_id"`
	}{req.Title, req.Subtitle, req.AuthorName, req.Topic, req.Style, req.ColorScheme, req.FontStyle, req.UserID}

	out := coverResponse{}
	if err := c.post(ctx, "/v1/cover", payload, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, errors.New(out.Error)
	}
	return &CoverResult{ImageURL: out.CoverURL, CreditsUsed: out.CreditsUsed}, nil
}
