package models

import (
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
	"github.com/uptrace/bun"
)

// EbookSession is the persisted form of a wizard session, one row per saved
// project. The snapshot itself lives in a JSON column; the flat columns are
// denormalized for history listings and recomputed on every save.
type EbookSession struct {
	bun.BaseModel `bun:"table:ebook_sessions,alias:es"`

	ID                string     `bun:",pk,nullzero" json:"id"`
	UserID            int        `bun:",nullzero" json:"user_id"`
	EbookID           string     `bun:",nullzero" json:"ebook_id"`
	Title             string     `json:"title"`
	Topic             string     `json:"topic"`
	Status            string     `bun:",nullzero" json:"status"`
	CurrentStep       string     `bun:",nullzero" json:"current_step"`
	TotalProgress     int        `json:"total_progress"`
	TotalChapters     int        `json:"total_chapters"`
	CompletedChapters int        `json:"completed_chapters"`
	SkippedChapters   int        `json:"skipped_chapters"`
	Snapshot          string     `bun:",nullzero" json:"-"`
	SnapshotParsed    *Snapshot  `bun:"-" json:"snapshot,omitempty"`
	SavedAt           *time.Time `json:"saved_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// MarshalSnapshot serializes SnapshotParsed into the JSON column.
func (s *EbookSession) MarshalSnapshot() error {
	if s.SnapshotParsed == nil {
		return nil
	}
	data, err := json.Marshal(s.SnapshotParsed)
	if err != nil {
		return errors.WithStack(err)
	}
	s.Snapshot = string(data)
	return nil
}

// UnmarshalSnapshot parses the JSON column into SnapshotParsed.
func (s *EbookSession) UnmarshalSnapshot() error {
	if s.Snapshot == "" {
		return nil
	}
	snap := &Snapshot{}
	if err := json.Unmarshal([]byte(s.Snapshot), snap); err != nil {
		return errors.WithStack(err)
	}
	s.SnapshotParsed = snap
	return nil
}
