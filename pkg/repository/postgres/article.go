package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/model"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/types"
)

type articleRepository struct {
	pool *pgxpool.Pool
}

func (r *articleRepository) Create(ctx context.Context, article *model.Article) (*model.Article, error) {
	if article.ChannelID == "" {
		return nil, goerr.New("article requires a channel", goerr.V("title", article.Title))
	}

	created := *article
	if created.ID == "" {
		created.ID = types.NewArticleID()
	}
	if created.MigratedAt.IsZero() {
		created.MigratedAt = time.Now().UTC()
	}

	metadata, err := json.Marshal(created.SourceMetadata)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal source metadata", goerr.V("id", created.ID))
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO articles
		   (id, channel_id, title, content, summary, published_at, analysis_completed, source_metadata, migrated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at`,
		created.ID.String(), created.ChannelID.String(), created.Title, created.Content,
		created.Summary, created.PublishedAt, created.AnalysisCompleted, metadata, created.MigratedAt)

	if err := row.Scan(&created.CreatedAt); err != nil {
		return nil, goerr.Wrap(err, "failed to insert article",
			goerr.V("id", created.ID),
			goerr.V("channel_id", created.ChannelID))
	}

	return &created, nil
}

func (r *articleRepository) ListByChannel(ctx context.Context, channelID types.ChannelID, limit, offset int) ([]*model.Article, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, channel_id, title, content, summary, published_at, analysis_completed, source_metadata, migrated_at, created_at
		 FROM articles
		 WHERE channel_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		channelID.String(), limit, offset)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query articles", goerr.V("channel_id", channelID))
	}
	defer rows.Close()

	var articles []*model.Article
	for rows.Next() {
		var a model.Article
		var id, chID string
		var metadata []byte
		if err := rows.Scan(&id, &chID, &a.Title, &a.Content, &a.Summary,
			&a.PublishedAt, &a.AnalysisCompleted, &metadata, &a.MigratedAt, &a.CreatedAt); err != nil {
			return nil, goerr.Wrap(err, "failed to scan article row")
		}
		a.ID = types.ArticleID(id)
		a.ChannelID = types.ChannelID(chID)
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &a.SourceMetadata); err != nil {
				return nil, goerr.Wrap(err, "failed to unmarshal source metadata", goerr.V("id", id))
			}
		}
		articles = append(articles, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate article rows")
	}

	return articles, nil
}

func (r *articleRepository) CountByChannel(ctx context.Context, channelID types.ChannelID) (int64, error) {
	var count int64
	row := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM articles WHERE channel_id = $1`, channelID.String())
	if err := row.Scan(&count); err != nil {
		return 0, goerr.Wrap(err, "failed to count articles", goerr.V("channel_id", channelID))
	}
	return count, nil
}
