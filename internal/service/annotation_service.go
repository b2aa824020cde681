package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AdamBeresnev/goalit/internal/league"
	"github.com/AdamBeresnev/goalit/internal/store"
	"github.com/AdamBeresnev/goalit/internal/utils"
	"github.com/AdamBeresnev/goalit/internal/video"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const maxCommentLength = 2000

// AnnotationService handles the comments and highlights attached to a match.
// Both are append-only.
type AnnotationService struct {
	db       *sqlx.DB
	store    *store.AnnotationStore
	matches  *store.MatchStore
	profiles *store.ProfileStore
	now      func() time.Time
}

func NewAnnotationService(db *sqlx.DB, store *store.AnnotationStore, matches *store.MatchStore, profiles *store.ProfileStore) *AnnotationService {
	return &AnnotationService{db: db, store: store, matches: matches, profiles: profiles, now: utcNow}
}

type CommentView struct {
	league.Comment
	Author *league.Profile
}

type HighlightView struct {
	league.Highlight
	Owner *league.Profile
	Embed video.Embed
}

func (s *AnnotationService) AddComment(ctx context.Context, matchID, authorID uuid.UUID, text string) (*league.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, league.NewValidationError("comment text is required")
	}
	if len(text) > maxCommentLength {
		return nil, league.NewValidationError(fmt.Sprintf("comment exceeds %d characters", maxCommentLength))
	}
	if _, err := loadMatch(ctx, s.db, s.matches, matchID); err != nil {
		return nil, err
	}

	comment := &league.Comment{
		ID:        uuid.New(),
		MatchID:   matchID,
		AuthorID:  &authorID,
		Text:      text,
		CreatedAt: s.now(),
	}
	if err := s.store.AddComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}
	return comment, nil
}

// AddHighlight stores a highlight. It needs a media link, a description or both.
func (s *AnnotationService) AddHighlight(ctx context.Context, matchID, authorID uuid.UUID, link, description string) (*HighlightView, error) {
	link = strings.TrimSpace(link)
	description = strings.TrimSpace(description)
	if link == "" && description == "" {
		return nil, league.NewValidationError("a highlight needs a media link or a description")
	}
	if link != "" && !video.IsValidLink(link) {
		return nil, league.NewValidationError("media link must be an http or https URL")
	}
	if _, err := loadMatch(ctx, s.db, s.matches, matchID); err != nil {
		return nil, err
	}

	highlight := league.Highlight{
		ID:          uuid.New(),
		MatchID:     matchID,
		AddedBy:     &authorID,
		MediaLink:   utils.StringOrNil(link),
		Description: description,
		CreatedAt:   s.now(),
	}
	if err := s.store.AddHighlight(ctx, &highlight); err != nil {
		return nil, fmt.Errorf("failed to add highlight: %w", err)
	}
	return &HighlightView{Highlight: highlight, Embed: video.Classify(link)}, nil
}

func (s *AnnotationService) ListComments(ctx context.Context, matchID uuid.UUID) ([]CommentView, error) {
	if _, err := loadMatch(ctx, s.db, s.matches, matchID); err != nil {
		return nil, err
	}
	comments, err := s.store.ListComments(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	authorIDs := make([]uuid.UUID, 0, len(comments))
	for _, c := range comments {
		if c.AuthorID != nil {
			authorIDs = append(authorIDs, *c.AuthorID)
		}
	}
	authors, err := s.profiles.GetProfiles(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get comment authors: %w", err)
	}

	views := make([]CommentView, len(comments))
	for i, c := range comments {
		views[i] = CommentView{Comment: c, Author: profileRef(authors, c.AuthorID)}
	}
	return views, nil
}

func (s *AnnotationService) ListHighlights(ctx context.Context, matchID uuid.UUID) ([]HighlightView, error) {
	if _, err := loadMatch(ctx, s.db, s.matches, matchID); err != nil {
		return nil, err
	}
	highlights, err := s.store.ListHighlights(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list highlights: %w", err)
	}

	ownerIDs := make([]uuid.UUID, 0, len(highlights))
	for _, h := range highlights {
		if h.AddedBy != nil {
			ownerIDs = append(ownerIDs, *h.AddedBy)
		}
	}
	owners, err := s.profiles.GetProfiles(ctx, ownerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get highlight owners: %w", err)
	}

	views := make([]HighlightView, len(highlights))
	for i, h := range highlights {
		views[i] = HighlightView{
			Highlight: h,
			Owner:     profileRef(owners, h.AddedBy),
			Embed:     video.Classify(utils.OrZero(h.MediaLink)),
		}
	}
	return views, nil
}

func profileRef(profiles map[uuid.UUID]league.Profile, id *uuid.UUID) *league.Profile {
	if id == nil {
		return nil
	}
	if p, ok := profiles[*id]; ok {
		return &p
	}
	return nil
}
