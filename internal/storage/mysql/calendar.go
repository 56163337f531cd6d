package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/johnnybahia/tetrisprogramacao/internal/calendar"
)

// O calendário é guardado como um único documento JSON; a linha de id 1
// é sempre o estado corrente.

func (s *Storage) LoadCalendarState(ctx context.Context) (calendar.State, error) {
	const op = "storage.calendar.LoadCalendarState.sql"

	var st calendar.State
	var payload []byte

	err := s.db.QueryRowContext(ctx, `SELECT payload FROM calendario WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		// sem estado salvo ainda: calendário vazio
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("%s: erro ao carregar calendário %w", op, err)
	}

	if err := json.Unmarshal(payload, &st); err != nil {
		return st, fmt.Errorf("%s: payload inválido %w", op, err)
	}

	return st, nil
}

func (s *Storage) SaveCalendarState(ctx context.Context, st calendar.State) error {
	const op = "storage.calendar.SaveCalendarState.sql"

	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	stmt := `
		INSERT INTO calendario (id, payload) VALUES (1, ?)
		ON DUPLICATE KEY UPDATE payload = VALUES(payload)
	`

	if _, err := s.db.ExecContext(ctx, stmt, payload); err != nil {
		return fmt.Errorf("%s: erro ao salvar calendário %w", op, err)
	}

	return nil
}
