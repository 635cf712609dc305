package sqlite

import (
	"context"
	"database/sql"

	"github.com/driftlock/mfahub/internal/mfa/store"
)

type journalRepo struct {
	db *sql.DB
}

func (r *journalRepo) Append(ctx context.Context, entry store.JournalEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO command_journal (id, username, command, factor, outcome, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Username,
		entry.Command,
		entry.Factor,
		entry.Outcome,
		entry.Detail,
		entry.CreatedAt,
	)
	return err
}

func (r *journalRepo) Recent(ctx context.Context, limit int) ([]store.JournalEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, username, command, factor, outcome, detail, created_at
		FROM command_journal
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, mapNotFound(err)
	}
	defer rows.Close()

	var entries []store.JournalEntry
	for rows.Next() {
		var e store.JournalEntry
		if err := rows.Scan(&e.ID, &e.Username, &e.Command, &e.Factor, &e.Outcome, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
