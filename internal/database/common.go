package database

import sq "github.com/Masterminds/squirrel"

const EventsTable = "calendar_events"

// PSQL builds queries with postgres placeholders.
var PSQL = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Schema creates the tables the service needs. It is safe to run on every start.
const Schema = `
CREATE TABLE IF NOT EXISTS ` + EventsTable + ` (
	key        text PRIMARY KEY,
	document   jsonb NOT NULL,
	updated_at timestamptz NOT NULL DEFAULT now()
)`
