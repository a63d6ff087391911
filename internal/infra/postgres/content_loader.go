package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"classroom-live-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ContentLoader loads question content JSONB from Postgres.
type ContentLoader struct {
	pool *pgxpool.Pool
}

func NewContentLoader(pool *pgxpool.Pool) *ContentLoader {
	return &ContentLoader{pool: pool}
}

func (l *ContentLoader) LoadContent(ctx context.Context, setID string) (domain.ContentSet, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM content_sets WHERE id=$1`, setID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ContentSet{}, domain.ErrContentNotFound
	}
	if err != nil {
		return domain.ContentSet{}, fmt.Errorf("load content set: %w", err)
	}
	var set domain.ContentSet
	if err := json.Unmarshal(raw, &set); err != nil {
		return domain.ContentSet{}, fmt.Errorf("unmarshal content set: %w", err)
	}
	set.ID = setID
	return set, nil
}
