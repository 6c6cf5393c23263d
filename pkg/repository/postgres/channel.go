package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/model"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/types"
)

type channelRepository struct {
	pool *pgxpool.Pool
}

func (r *channelRepository) GetByName(ctx context.Context, name string) (*model.Channel, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, name, status, created_at, updated_at
		 FROM channels
		 WHERE name = $1`, name)

	var ch model.Channel
	var id, status string
	if err := row.Scan(&id, &ch.Name, &status, &ch.CreatedAt, &ch.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, goerr.Wrap(model.ErrNotFound, "channel not found", goerr.V("name", name))
		}
		return nil, goerr.Wrap(err, "failed to query channel", goerr.V("name", name))
	}

	ch.ID = types.ChannelID(id)
	ch.Status = types.ChannelStatus(status).Normalize()
	return &ch, nil
}

func (r *channelRepository) Create(ctx context.Context, channel *model.Channel) (*model.Channel, error) {
	created := *channel
	if created.ID == "" {
		created.ID = types.NewChannelID()
	}
	created.Status = created.Status.Normalize()

	row := r.pool.QueryRow(ctx,
		`INSERT INTO channels (id, name, status)
		 VALUES ($1, $2, $3)
		 RETURNING created_at, updated_at`,
		created.ID.String(), created.Name, created.Status.String())

	if err := row.Scan(&created.CreatedAt, &created.UpdatedAt); err != nil {
		return nil, goerr.Wrap(err, "failed to insert channel", goerr.V("name", channel.Name))
	}

	return &created, nil
}

func (r *channelRepository) UpdateStatus(ctx context.Context, id types.ChannelID, status types.ChannelStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE channels SET status = $2, updated_at = now() WHERE id = $1`,
		id.String(), status.String())
	if err != nil {
		return goerr.Wrap(err, "failed to update channel status", goerr.V("id", id))
	}
	if tag.RowsAffected() == 0 {
		return goerr.Wrap(model.ErrNotFound, "channel not found", goerr.V("id", id))
	}
	return nil
}
