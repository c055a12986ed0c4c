package store

import (
	"context"
	"database/sql"
	"fmt"
)

// List returns every note in the order the engine yields them. Callers that
// need a specific order sort the result. An empty table yields an empty slice.
func (s *Store) List(ctx context.Context) ([]Note, error) {
	if s == nil || s.engine == nil {
		return nil, fmt.Errorf("%w: list notes: %w", ErrStorageRead, errStoreClosed)
	}

	rows, err := s.engine.QueryContext(ctx, "SELECT number, text, done FROM notes")
	if err != nil {
		return nil, fmt.Errorf("%w: list notes: %w", ErrStorageRead, err)
	}

	defer func() { _ = rows.Close() }()

	notes := make([]Note, 0)

	for rows.Next() {
		var note Note

		scanErr := rows.Scan(&note.Number, &note.Text, &note.Done)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: list notes: scan: %w", ErrStorageRead, scanErr)
		}

		notes = append(notes, note)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("%w: list notes: rows: %w", ErrStorageRead, err)
	}

	return notes, nil
}

// Create inserts a new incomplete note and returns its number.
//
// requested == 0 asks for the next number (highest used + 1, or 1 when the
// table is empty). A requested number that is free is used as-is; one that
// is already taken silently falls back to the next number. Gaps left by
// removed notes are only reused on explicit request.
//
// Create fails with [ErrInvalidNumber] when requested is outside
// 1..[MaxNumber] and with [ErrIdentifierSpaceExhausted] when the next number
// would exceed MaxNumber.
func (s *Store) Create(ctx context.Context, text string, requested int) (int, error) {
	if s == nil || s.engine == nil {
		return 0, fmt.Errorf("%w: create note: %w", ErrStorageWrite, errStoreClosed)
	}

	if requested < 0 || requested > MaxNumber {
		return 0, fmt.Errorf("%w: %d (must be 1-%d)", ErrInvalidNumber, requested, MaxNumber)
	}

	used, err := s.usedNumbers(ctx)
	if err != nil {
		return 0, err
	}

	number, err := allocateNumber(used, requested)
	if err != nil {
		return 0, err
	}

	if requested != 0 && number != requested {
		s.log.Debug().Int("requested", requested).Int("number", number).Msg("requested number taken, using next")
	}

	_, err = s.engine.ExecContext(ctx,
		"INSERT INTO notes (number, text, done) VALUES (?, ?, ?)",
		number, text, false)
	if err != nil {
		return 0, fmt.Errorf("%w: insert note %d: %w", ErrStorageWrite, number, err)
	}

	s.log.Debug().Int("number", number).Msg("note created")

	return number, nil
}

// SetDone updates the completion flag of note number. A number with no
// matching note is not an error: the update affects zero rows.
func (s *Store) SetDone(ctx context.Context, number int, done bool) error {
	if s == nil || s.engine == nil {
		return fmt.Errorf("%w: update note: %w", ErrStorageWrite, errStoreClosed)
	}

	res, err := s.engine.ExecContext(ctx, "UPDATE notes SET done = ? WHERE number = ?", done, number)
	if err != nil {
		return fmt.Errorf("%w: update note %d: %w", ErrStorageWrite, number, err)
	}

	s.logAffected(res, "note updated", number)

	return nil
}

// Remove deletes note number. A number with no matching note is not an error.
func (s *Store) Remove(ctx context.Context, number int) error {
	if s == nil || s.engine == nil {
		return fmt.Errorf("%w: remove note: %w", ErrStorageWrite, errStoreClosed)
	}

	res, err := s.engine.ExecContext(ctx, "DELETE FROM notes WHERE number = ?", number)
	if err != nil {
		return fmt.Errorf("%w: remove note %d: %w", ErrStorageWrite, number, err)
	}

	s.logAffected(res, "note removed", number)

	return nil
}

func (s *Store) usedNumbers(ctx context.Context) (map[int]struct{}, error) {
	rows, err := s.engine.QueryContext(ctx, "SELECT number FROM notes")
	if err != nil {
		return nil, fmt.Errorf("%w: read numbers: %w", ErrStorageRead, err)
	}

	defer func() { _ = rows.Close() }()

	used := make(map[int]struct{})

	for rows.Next() {
		var number int

		scanErr := rows.Scan(&number)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: read numbers: scan: %w", ErrStorageRead, scanErr)
		}

		used[number] = struct{}{}
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("%w: read numbers: rows: %w", ErrStorageRead, err)
	}

	return used, nil
}

// allocateNumber applies the numbering policy to a snapshot of used numbers.
func allocateNumber(used map[int]struct{}, requested int) (int, error) {
	if requested != 0 {
		if _, taken := used[requested]; !taken {
			return requested, nil
		}
	}

	highest := 0
	for number := range used {
		highest = max(highest, number)
	}

	if highest >= MaxNumber {
		return 0, fmt.Errorf("%w: highest number is %d", ErrIdentifierSpaceExhausted, highest)
	}

	return highest + 1, nil
}

func (s *Store) logAffected(res sql.Result, msg string, number int) {
	affected, err := res.RowsAffected()
	if err != nil {
		return
	}

	if affected == 0 {
		s.log.Debug().Int("number", number).Msg("no note with that number")

		return
	}

	s.log.Debug().Int("number", number).Msg(msg)
}
