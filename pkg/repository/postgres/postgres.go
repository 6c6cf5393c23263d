package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/interfaces"
)

// Client implements interfaces.Repository backed by Postgres. It only
// consumes the tables the migration needs (channels, articles); DDL, RLS and
// triggers are owned by the database side.
type Client struct {
	pool    *pgxpool.Pool
	channel *channelRepository
	article *articleRepository
}

var _ interfaces.Repository = &Client{}

// New creates a Postgres repository from a connection string
func New(ctx context.Context, connString string) (*Client, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create connection pool")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, goerr.Wrap(err, "failed to ping postgres")
	}

	return &Client{
		pool:    pool,
		channel: &channelRepository{pool: pool},
		article: &articleRepository{pool: pool},
	}, nil
}

func (c *Client) Channel() interfaces.ChannelRepository {
	return c.channel
}

func (c *Client) Article() interfaces.ArticleRepository {
	return c.article
}

func (c *Client) Close() error {
	c.pool.Close()
	return nil
}
