package models

import "time"

// Snapshot is the serializable projection of a wizard session used for
// persistence and resume. It is a value copy; the persistence layer never
// holds references into live session state.
type Snapshot struct {
	EbookID       string        `json:"ebook_id,omitempty"`
	Topic         string        `json:"topic,omitempty"`
	Title         string        `json:"title,omitempty"`
	Status        string        `json:"status,omitempty"`
	TitleOptions  *TitleOptions `json:"title_options,omitempty"`
	Outline       *Outline      `json:"outline,omitempty"`
	Cover         *Cover        `json:"cover,omitempty"`
	DocumentIDs   []string      `json:"document_ids,omitempty"`
	Instructions  string        `json:"instructions,omitempty"`
	ActiveTab     string        `json:"active_tab,omitempty"`
	CurrentStep   string        `json:"current_step,omitempty"`
	TotalProgress int           `json:"total_progress"`
	CreditsUsed   int           `json:"credits_used"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
