package store

import (
	"context"

	"github.com/AdamBeresnev/goalit/internal/league"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// AnnotationStore keeps the append-only comments and highlights of a match.
type AnnotationStore struct {
	db *sqlx.DB
}

func NewAnnotationStore(db *sqlx.DB) *AnnotationStore {
	return &AnnotationStore{db: db}
}

func (s *AnnotationStore) AddComment(ctx context.Context, comment *league.Comment) error {
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO match_comments (id, match_id, author_id, text, created_at)
		VALUES (:id, :match_id, :author_id, :text, :created_at)`, comment)
	return err
}

func (s *AnnotationStore) ListComments(ctx context.Context, matchID uuid.UUID) ([]league.Comment, error) {
	var comments []league.Comment
	err := s.db.SelectContext(ctx, &comments, "SELECT * FROM match_comments WHERE match_id = ? ORDER BY created_at ASC", matchID)
	return comments, err
}

func (s *AnnotationStore) AddHighlight(ctx context.Context, highlight *league.Highlight) error {
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO match_highlights (id, match_id, added_by, media_link, description, created_at)
		VALUES (:id, :match_id, :added_by, :media_link, :description, :created_at)`, highlight)
	return err
}

func (s *AnnotationStore) ListHighlights(ctx context.Context, matchID uuid.UUID) ([]league.Highlight, error) {
	var highlights []league.Highlight
	err := s.db.SelectContext(ctx, &highlights, "SELECT * FROM match_highlights WHERE match_id = ? ORDER BY created_at ASC", matchID)
	return highlights, err
}
