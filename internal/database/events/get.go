package events

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/SergeyKozhin/shared-calendar/internal/database"
	"github.com/SergeyKozhin/shared-calendar/internal/model"
	"github.com/jackc/pgx/v4"
)

// GetDocument returns model.ErrNoRecord when no document is stored under key.
func (*Repository) GetDocument(ctx context.Context, q database.Queryable, key string) ([]byte, error) {
	qb := baseQuery.
		Where(sq.Eq{"key": key})

	var dto documentDTO
	if err := q.Get(ctx, &dto, qb); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNoRecord
		}
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	return dto.Document, nil
}
