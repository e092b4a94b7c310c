package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	DocumentTypePDF      = "pdf"
	DocumentTypeDOCX     = "docx"
	DocumentTypeText     = "txt"
	DocumentTypeMarkdown = "markdown"
)

// Document is a reference document uploaded by a user to steer generation.
// Immutable once uploaded; removal deletes the row and the stored file.
type Document struct {
	bun.BaseModel `bun:"table:documents,alias:d"`

	ID         string    `bun:",pk,nullzero" json:"id"`
	UserID     int       `bun:",nullzero" json:"user_id"`
	Filename   string    `bun:",nullzero" json:"filename"`
	FileType   string    `bun:",nullzero" json:"file_type"`
	FileSizeMB float64   `json:"file_size_mb"`
	TokenCount int       `json:"token_count"`
	Filepath   string    `bun:",nullzero" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
