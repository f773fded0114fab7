package events

import "github.com/SergeyKozhin/shared-calendar/internal/database"

// Repository stores whole event list documents in the events table, one row
// per key.
type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

type documentDTO struct {
	Key      string
	Document []byte
}

var baseQuery = database.PSQL.
	Select("key", "document").
	From(database.EventsTable)
