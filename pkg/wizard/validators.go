package wizard

// Payloads for wizard endpoints.
type SetTopicPayload struct {
	Topic        string  `json:"topic" mod:"trim" validate:"required,min=1,max=500"`
	Instructions *string `json:"instructions,omitempty" mod:"trim" validate:"omitempty,max=5000"`
}

type SetInstructionsPayload struct {
	Instructions string `json:"instructions" mod:"trim" validate:"max=5000"`
}

type AttachDocumentsPayload struct {
	DocumentIDs []string `json:"document_ids" validate:"max=20,dive,uuid"`
}

type SelectTitlePayload struct {
	Index *int `json:"index" validate:"required,min=0"`
}

type CustomTitlePayload struct {
	Title string `json:"title" mod:"trim" validate:"required,min=1,max=300"`
}

type GenerateOutlinePayload struct {
	WordCountLevel  string `json:"word_count_level" default:"standard" validate:"oneof=short standard long"`
	ComplexityLevel string `json:"complexity_level,omitempty" validate:"omitempty,oneof=beginner intermediate advanced"`
	WritingTone     string `json:"writing_tone,omitempty" mod:"trim" validate:"omitempty,max=100"`
	TargetAudience  string `json:"target_audience,omitempty" mod:"trim" validate:"omitempty,max=200"`
	IncludeImages   bool   `json:"include_images"`
	IncludeCTAs     bool   `json:"include_ctas"`
}

type UpdateChapterPayload struct {
	Title       *string `json:"title,omitempty" mod:"trim" validate:"omitempty,min=1,max=300"`
	Description *string `json:"description,omitempty" mod:"trim" validate:"omitempty,max=2000"`
}

type AddChapterPayload struct {
	Title       string  `json:"title" mod:"trim" validate:"required,min=1,max=300"`
	Description *string `json:"description,omitempty" mod:"trim" validate:"omitempty,max=2000"`
	Position    string  `json:"position,omitempty" validate:"omitempty,oneof=before after append"`
	TargetID    string  `json:"target_id,omitempty" validate:"omitempty,uuid"`
}

type ReorderChaptersPayload struct {
	From *int `json:"from" validate:"required,min=0"`
	To   *int `json:"to" validate:"required,min=0"`
}

type AddSubsectionPayload struct {
	Title string `json:"title" mod:"trim" validate:"required,min=1,max=300"`
	Hint  string `json:"hint,omitempty" mod:"trim" validate:"omitempty,max=1000"`
}

type UpdateChapterContentPayload struct {
	Content string `json:"content" validate:"max=200000"`
}

type GenerateCoverPayload struct {
	Style       string  `json:"style" default:"modern" validate:"max=100"`
	ColorScheme string  `json:"color_scheme,omitempty" validate:"omitempty,max=100"`
	FontStyle   string  `json:"font_style,omitempty" validate:"omitempty,max=100"`
	AuthorName  string  `json:"author_name,omitempty" mod:"trim" validate:"omitempty,max=200"`
	Subtitle    *string `json:"subtitle,omitempty" mod:"trim" validate:"omitempty,max=300"`
}

type SetActiveTabPayload struct {
	Tab string `json:"tab" validate:"required,step"`
}

type SelectChapterPayload struct {
	ChapterID string `json:"chapter_id,omitempty" validate:"omitempty,uuid"`
}
