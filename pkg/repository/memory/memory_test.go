package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/olucvolkan/haberai-mvp/pkg/domain/model"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/types"
	"github.com/olucvolkan/haberai-mvp/pkg/repository/memory"
)

func TestChannelRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create assigns ID and timestamps", func(t *testing.T) {
		repo := memory.New()

		created, err := repo.Channel().Create(ctx, model.NewChannel("haberler"))
		gt.NoError(t, err).Required()

		gt.Value(t, created.Name).Equal("haberler")
		gt.Value(t, created.Status).Equal(types.ChannelStatusPending)
		gt.Value(t, created.ID).NotEqual(types.ChannelID(""))
		gt.Bool(t, created.CreatedAt.IsZero()).False()
		gt.Bool(t, created.UpdatedAt.IsZero()).False()
	})

	t.Run("Create rejects duplicate names", func(t *testing.T) {
		repo := memory.New()

		_, err := repo.Channel().Create(ctx, model.NewChannel("haberler"))
		gt.NoError(t, err).Required()

		_, err = repo.Channel().Create(ctx, model.NewChannel("haberler"))
		gt.Error(t, err)
	})

	t.Run("GetByName returns the stored channel", func(t *testing.T) {
		repo := memory.New()

		created, err := repo.Channel().Create(ctx, model.NewChannel("spor"))
		gt.NoError(t, err).Required()

		got, err := repo.Channel().GetByName(ctx, "spor")
		gt.NoError(t, err).Required()
		gt.Value(t, got.ID).Equal(created.ID)
	})

	t.Run("GetByName wraps ErrNotFound for unknown names", func(t *testing.T) {
		repo := memory.New()

		_, err := repo.Channel().GetByName(ctx, "missing")
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, model.ErrNotFound)).True()
	})

	t.Run("UpdateStatus transitions the channel", func(t *testing.T) {
		repo := memory.New()

		created, err := repo.Channel().Create(ctx, model.NewChannel("ekonomi"))
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Channel().UpdateStatus(ctx, created.ID, types.ChannelStatusCompleted)).Required()

		got, err := repo.Channel().GetByName(ctx, "ekonomi")
		gt.NoError(t, err).Required()
		gt.Value(t, got.Status).Equal(types.ChannelStatusCompleted)
	})

	t.Run("UpdateStatus on unknown channel wraps ErrNotFound", func(t *testing.T) {
		repo := memory.New()

		err := repo.Channel().UpdateStatus(ctx, types.NewChannelID(), types.ChannelStatusFailed)
		gt.Bool(t, errors.Is(err, model.ErrNotFound)).True()
	})
}

func TestArticleRepository(t *testing.T) {
	ctx := context.Background()

	newArticle := func(channelID types.ChannelID, title string) *model.Article {
		return &model.Article{
			ChannelID: channelID,
			Title:     title,
			Content:   "body of " + title,
			SourceMetadata: map[string]any{
				"source_id": "src-" + title,
			},
		}
	}

	t.Run("Create assigns ID and timestamps", func(t *testing.T) {
		repo := memory.New()
		channelID := types.NewChannelID()

		created, err := repo.Article().Create(ctx, newArticle(channelID, "first"))
		gt.NoError(t, err).Required()

		gt.Value(t, created.ID).NotEqual(types.ArticleID(""))
		gt.Bool(t, created.CreatedAt.IsZero()).False()
		gt.Bool(t, created.MigratedAt.IsZero()).False()
	})

	t.Run("Create requires a channel", func(t *testing.T) {
		repo := memory.New()

		_, err := repo.Article().Create(ctx, &model.Article{Title: "orphan"})
		gt.Error(t, err)
	})

	t.Run("stored articles are isolated from caller mutations", func(t *testing.T) {
		repo := memory.New()
		channelID := types.NewChannelID()

		article := newArticle(channelID, "mutable")
		created, err := repo.Article().Create(ctx, article)
		gt.NoError(t, err).Required()

		article.SourceMetadata["source_id"] = "tampered"
		created.SourceMetadata["source_id"] = "also tampered"

		list, err := repo.Article().ListByChannel(ctx, channelID, 0, 0)
		gt.NoError(t, err).Required()
		gt.Array(t, list).Length(1)
		gt.Value(t, list[0].SourceMetadata["source_id"]).Equal("src-mutable")
	})

	t.Run("ListByChannel filters and paginates", func(t *testing.T) {
		repo := memory.New()
		chA := types.NewChannelID()
		chB := types.NewChannelID()

		for _, title := range []string{"a1", "a2", "a3"} {
			_, err := repo.Article().Create(ctx, newArticle(chA, title))
			gt.NoError(t, err).Required()
		}
		_, err := repo.Article().Create(ctx, newArticle(chB, "b1"))
		gt.NoError(t, err).Required()

		all, err := repo.Article().ListByChannel(ctx, chA, 0, 0)
		gt.NoError(t, err).Required()
		gt.Array(t, all).Length(3)

		page, err := repo.Article().ListByChannel(ctx, chA, 2, 0)
		gt.NoError(t, err).Required()
		gt.Array(t, page).Length(2)

		rest, err := repo.Article().ListByChannel(ctx, chA, 2, 2)
		gt.NoError(t, err).Required()
		gt.Array(t, rest).Length(1)

		none, err := repo.Article().ListByChannel(ctx, chA, 0, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, none).Length(0)
	})

	t.Run("CountByChannel", func(t *testing.T) {
		repo := memory.New()
		channelID := types.NewChannelID()

		count, err := repo.Article().CountByChannel(ctx, channelID)
		gt.NoError(t, err).Required()
		gt.Value(t, count).Equal(int64(0))

		for _, title := range []string{"x", "y"} {
			_, err := repo.Article().Create(ctx, newArticle(channelID, title))
			gt.NoError(t, err).Required()
		}

		count, err = repo.Article().CountByChannel(ctx, channelID)
		gt.NoError(t, err).Required()
		gt.Value(t, count).Equal(int64(2))
	})
}

func TestJobStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Create then Get returns a snapshot", func(t *testing.T) {
		store := memory.NewJobStore()

		job := model.NewMigrationJob("haberler", false)
		gt.NoError(t, store.Create(ctx, job)).Required()

		got, err := store.Get(ctx, job.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.ChannelName).Equal("haberler")
		gt.Value(t, got.Status).Equal(types.JobStatusPending)

		// mutating the snapshot must not affect the store
		got.ProcessedRecords = 99
		again, err := store.Get(ctx, job.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, again.ProcessedRecords).Equal(int64(0))
	})

	t.Run("Create rejects duplicate IDs", func(t *testing.T) {
		store := memory.NewJobStore()

		job := model.NewMigrationJob("haberler", false)
		gt.NoError(t, store.Create(ctx, job)).Required()
		gt.Error(t, store.Create(ctx, job))
	})

	t.Run("Get on unknown job wraps ErrNotFound", func(t *testing.T) {
		store := memory.NewJobStore()

		_, err := store.Get(ctx, types.NewJobID())
		gt.Bool(t, errors.Is(err, model.ErrNotFound)).True()
	})

	t.Run("Update persists progress", func(t *testing.T) {
		store := memory.NewJobStore()

		job := model.NewMigrationJob("haberler", false)
		gt.NoError(t, store.Create(ctx, job)).Required()

		job.Status = types.JobStatusRunning
		job.ProcessedRecords = 42
		job.LastSourceID = types.SourceID("cursor-42")
		gt.NoError(t, store.Update(ctx, job)).Required()

		got, err := store.Get(ctx, job.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Status).Equal(types.JobStatusRunning)
		gt.Value(t, got.ProcessedRecords).Equal(int64(42))
		gt.Value(t, got.LastSourceID).Equal(types.SourceID("cursor-42"))
	})

	t.Run("Update on unknown job wraps ErrNotFound", func(t *testing.T) {
		store := memory.NewJobStore()

		err := store.Update(ctx, model.NewMigrationJob("haberler", false))
		gt.Bool(t, errors.Is(err, model.ErrNotFound)).True()
	})
}
