package repositories

import (
	"database/sql"
	"fmt"
)

// NextSequence atomically increments and returns the next sequence number for the given table.
//
// Sequence numbers order saved playlists and are shown as "#n" in listings.
func NextSequence(db *sql.DB, table string) (int, error) {
	var sequence int
	err := withTx(db, func(tx *sql.Tx) error {
		return nextSequenceTx(tx, table, &sequence)
	})
	if err != nil {
		return 0, err
	}
	return sequence, nil
}

func nextSequenceTx(tx *sql.Tx, table string, out *int) error {
	sequenceTable := table + "_sequence"

	if _, err := tx.Exec(fmt.Sprintf("UPDATE %s SET value = value + 1 WHERE id = 1", sequenceTable)); err != nil {
		return fmt.Errorf("failed to increment sequence: %w", err)
	}

	if err := tx.QueryRow(fmt.Sprintf("SELECT value FROM %s WHERE id = 1", sequenceTable)).Scan(out); err != nil {
		return fmt.Errorf("failed to get sequence value: %w", err)
	}
	return nil
}

// withTx runs fn in a transaction, committing only when fn succeeds.
func withTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
