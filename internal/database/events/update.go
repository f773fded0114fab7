package events

import (
	"context"
	"fmt"
	"time"

	"github.com/SergeyKozhin/shared-calendar/internal/database"
)

func (*Repository) PutDocument(ctx context.Context, q database.Queryable, key string, document []byte) error {
	qb := database.PSQL.
		Insert(database.EventsTable).
		Columns("key", "document", "updated_at").
		Values(key, string(document), time.Now().UTC()).
		Suffix("ON CONFLICT (key) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at")

	if _, err := q.Exec(ctx, qb); err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	return nil
}
