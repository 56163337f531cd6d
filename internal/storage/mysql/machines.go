package mysql

import (
	"context"
	"fmt"

	"github.com/johnnybahia/tetrisprogramacao/internal/storage"
)

func (s *Storage) GetMachines(ctx context.Context) ([]*storage.Machine, error) {
	const op = "storage.machines.GetMachines.sql"

	stmt := `SELECT nome, disponibilidade_horas FROM maquinas ORDER BY nome`

	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("%s: erro ao buscar máquinas %w", op, err)
	}
	defer rows.Close()

	machines := []*storage.Machine{}
	for rows.Next() {
		var m storage.Machine
		if err := rows.Scan(&m.Name, &m.HoursPerDay); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		machines = append(machines, &m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: erro ao escanear máquinas %w", op, err)
	}

	return machines, nil
}
