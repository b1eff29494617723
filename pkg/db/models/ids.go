package models

import "github.com/google/uuid"

// ensureID keeps caller-provided ids and assigns a random one otherwise, so
// rows get ids on both Postgres and SQLite without a database default.
func ensureID(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return uuid.New()
	}
	return id
}

// All lists every persisted model, in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&Client{},
		&Product{},
		&Order{},
		&OutboxEvent{},
	}
}
