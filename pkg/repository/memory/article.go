package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/model"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/types"
)

type articleRepository struct {
	mu       sync.RWMutex
	articles map[types.ArticleID]*model.Article
}

func newArticleRepository() *articleRepository {
	return &articleRepository{
		articles: make(map[types.ArticleID]*model.Article),
	}
}

// copyArticle creates a deep copy of an article
func copyArticle(article *model.Article) *model.Article {
	copied := *article
	if article.PublishedAt != nil {
		t := *article.PublishedAt
		copied.PublishedAt = &t
	}
	if article.SourceMetadata != nil {
		copied.SourceMetadata = make(map[string]any, len(article.SourceMetadata))
		for k, v := range article.SourceMetadata {
			copied.SourceMetadata[k] = v
		}
	}
	return &copied
}

func (r *articleRepository) Create(ctx context.Context, article *model.Article) (*model.Article, error) {
	if article.ChannelID == "" {
		return nil, goerr.New("article requires a channel", goerr.V("title", article.Title))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyArticle(article)
	if created.ID == "" {
		created.ID = types.NewArticleID()
	}
	if created.MigratedAt.IsZero() {
		created.MigratedAt = now
	}
	created.CreatedAt = now

	r.articles[created.ID] = created
	return copyArticle(created), nil
}

func (r *articleRepository) ListByChannel(ctx context.Context, channelID types.ChannelID, limit, offset int) ([]*model.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var articles []*model.Article
	for _, article := range r.articles {
		if article.ChannelID == channelID {
			articles = append(articles, copyArticle(article))
		}
	}

	sort.Slice(articles, func(i, j int) bool {
		return articles[i].CreatedAt.After(articles[j].CreatedAt)
	})

	if offset >= len(articles) {
		return nil, nil
	}
	articles = articles[offset:]
	if limit > 0 && limit < len(articles) {
		articles = articles[:limit]
	}

	return articles, nil
}

func (r *articleRepository) CountByChannel(ctx context.Context, channelID types.ChannelID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, article := range r.articles {
		if article.ChannelID == channelID {
			count++
		}
	}

	return count, nil
}
