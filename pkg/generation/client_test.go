package generation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/inkdraft/inkdraft/pkg/models"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(srv *httptest.Server) *Client {
	return &Client{
		baseURL:    srv.URL,
		apiKey:     "test-key",
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestGenerateTitles(t *testing.T) {
	t.Run("returns generated titles", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/titles", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			body := map[string]interface{}{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "gardening for beginners", body["topic"])

			json.NewEncoder(w).Encode(map[string]interface{}{
				"success":          true,
				"generated_titles": []string{"The Green Thumb", "Dig In", "Grow Anything"},
			})
		}))
		defer srv.Close()

		titles, err := newTestClient(srv).GenerateTitles(context.Background(), TitleRequest{
			Topic: "gardening for beginners",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"The Green Thumb", "Dig In", "Grow Anything"}, titles)
	})

	t.Run("surfaces envelope errors", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": false,
				"error":   "topic too vague",
			})
		}))
		defer srv.Close()

		_, err := newTestClient(srv).GenerateTitles(context.Background(), TitleRequest{Topic: "x"})
		require.Error(t, err)
		assert.Equal(t, "topic too vague", err.Error())
	})

	t.Run("errors on non-2xx responses", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := newTestClient(srv).GenerateTitles(context.Background(), TitleRequest{Topic: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
	})
}

func TestGenerateOutline(t *testing.T) {
	t.Run("mints ids and pending statuses", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/outline", r.URL.Path)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": true,
				"outline": map[string]interface{}{
					"chapters": []map[string]interface{}{
						{
							"title":       "Getting Started",
							"description": "Tools and soil basics",
							"subsections": []map[string]interface{}{
								{"title": "Choosing Tools", "hint": "hand tools only"},
								{"title": "Soil Types", "hint": ""},
							},
						},
						{"title": "First Plants", "subsections": []map[string]interface{}{}},
					},
				},
			})
		}))
		defer srv.Close()

		outline, err := newTestClient(srv).GenerateOutline(context.Background(), OutlineRequest{
			Topic: "gardening",
			Title: "The Green Thumb",
			Preferences: OutlinePreferences{
				WordCountLevel: WordCountStandard,
				WritingTone:    "friendly",
			},
		})
		require.NoError(t, err)
		require.Len(t, outline.Chapters, 2)

		first := outline.Chapters[0]
		assert.NotEmpty(t, first.ID)
		assert.Equal(t, "Getting Started", first.Title)
		require.NotNil(t, first.Description)
		assert.Equal(t, "Tools and soil basics", *first.Description)
		assert.Equal(t, models.ChapterStatusPending, first.Status)
		assert.True(t, first.Content.IsEmpty())
		require.Len(t, first.Subsections, 2)
		assert.NotEmpty(t, first.Subsections[0].ID)
		assert.NotEqual(t, first.Subsections[0].ID, first.Subsections[1].ID)

		assert.Equal(t, WordCountStandard, outline.WordCountLevel)
		assert.Equal(t, "friendly", outline.WritingTone)
	})

	t.Run("errors when outline missing", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
		}))
		defer srv.Close()

		_, err := newTestClient(srv).GenerateOutline(context.Background(), OutlineRequest{Topic: "x", Title: "y"})
		require.Error(t, err)
	})
}

func TestGenerateChapterContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chapter", r.URL.Path)

		body := map[string]interface{}{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Getting Started", body["chapter_title"])
		assert.Equal(t, float64(3000), body["target_word_count"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"content": "# Getting Started\n\nEvery garden begins with good soil.",
		})
	}))
	defer srv.Close()

	content, err := newTestClient(srv).GenerateChapterContent(context.Background(), ChapterRequest{
		ChapterTitle:    "Getting Started",
		EbookTitle:      "The Green Thumb",
		Topic:           "gardening",
		TargetWordCount: 3000,
	})
	require.NoError(t, err)
	assert.Contains(t, content, "good soil")
}

func TestGenerateCover(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/cover", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":      true,
			"cover_url":    "https://cdn.example.com/covers/abc.png",
			"credits_used": 10,
		})
	}))
	defer srv.Close()

	result, err := newTestClient(srv).GenerateCover(context.Background(), CoverRequest{
		Title: "The Green Thumb",
		Topic: "gardening",
		Style: "minimal",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/covers/abc.png", result.ImageURL)
	assert.Equal(t, 10, result.CreditsUsed)
}

func TestTargetWordCount(t *testing.T) {
	assert.Equal(t, 1500, TargetWordCount(WordCountShort))
	assert.Equal(t, 3000, TargetWordCount(WordCountStandard))
	assert.Equal(t, 5000, TargetWordCount(WordCountLong))
	assert.Equal(t, 3000, TargetWordCount("nonsense"))
}
