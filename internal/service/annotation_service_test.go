package service

import (
	"context"
	"testing"

	"github.com/AdamBeresnev/goalit/internal/league"
	"github.com/AdamBeresnev/goalit/internal/store"
	"github.com/AdamBeresnev/goalit/internal/testutil"
	"github.com/AdamBeresnev/goalit/internal/video"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentsAndHighlights(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	profiles := store.NewProfileStore(db)
	svc := NewAnnotationService(db, store.NewAnnotationStore(db), store.NewMatchStore(db), profiles)

	player := testutil.CreatePlayer(t, db, "commentator")
	match := testutil.CreateMatch(t, db, player.ID, 10)

	_, err := svc.AddComment(ctx, match.ID, player.ID, "Great game, same time next week?")
	require.NoError(t, err)
	_, err = svc.AddComment(ctx, match.ID, player.ID, "   ")
	var validationErr *league.ValidationError
	require.ErrorAs(t, err, &validationErr)
	_, err = svc.AddComment(ctx, uuid.New(), player.ID, "Lost?")
	var notFound *league.NotFoundError
	require.ErrorAs(t, err, &notFound)

	comments, err := svc.ListComments(ctx, match.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.NotNil(t, comments[0].Author)
	assert.Equal(t, "commentator", comments[0].Author.DisplayName())

	highlight, err := svc.AddHighlight(ctx, match.ID, player.ID, "https://youtu.be/abc123", "Bicycle kick")
	require.NoError(t, err)
	assert.Equal(t, video.EmbedYouTube, highlight.Embed.Kind)

	_, err = svc.AddHighlight(ctx, match.ID, player.ID, "", "")
	require.ErrorAs(t, err, &validationErr)
	_, err = svc.AddHighlight(ctx, match.ID, player.ID, "javascript:alert(1)", "")
	require.ErrorAs(t, err, &validationErr)

	_, err = svc.AddHighlight(ctx, match.ID, player.ID, "", "Keeper saved a penalty")
	require.NoError(t, err)

	highlights, err := svc.ListHighlights(ctx, match.ID)
	require.NoError(t, err)
	require.Len(t, highlights, 2)
	assert.Equal(t, "https://www.youtube.com/embed/abc123", highlights[0].Embed.URL)
	assert.Equal(t, video.EmbedNone, highlights[1].Embed.Kind)
	require.NotNil(t, highlights[1].Owner)

	// Removing the author keeps the comment without an author
	require.NoError(t, profiles.DeleteProfile(ctx, player.ID))
	comments, err = svc.ListComments(ctx, match.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Nil(t, comments[0].AuthorID)
	assert.Nil(t, comments[0].Author)
}
