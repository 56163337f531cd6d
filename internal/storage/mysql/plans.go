package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/johnnybahia/tetrisprogramacao/internal/storage"
)

// ErrPlanNotFound indica que não existe plano salvo com o nome pedido.
var ErrPlanNotFound = errors.New("plano não encontrado")

// SavePlan grava (ou regrava) um plano nomeado como documento JSON.
func (s *Storage) SavePlan(ctx context.Context, summary storage.PlanSummary, payload json.RawMessage) error {
	const op = "storage.plans.SavePlan.sql"

	stmt := `
		INSERT INTO planos (nome, criado_em, total_pedidos, total_maquinas, total_horas, payload)
		VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			criado_em = VALUES(criado_em),
			total_pedidos = VALUES(total_pedidos),
			total_maquinas = VALUES(total_maquinas),
			total_horas = VALUES(total_horas),
			payload = VALUES(payload)
	`

	createdAt := summary.CreatedAt
	if createdAt == "" {
		createdAt = time.Now().Format(time.RFC3339)
	}

	_, err := s.db.ExecContext(ctx, stmt,
		summary.Name, createdAt, summary.TotalOrders, summary.TotalMachines, summary.TotalHours, []byte(payload))
	if err != nil {
		return fmt.Errorf("%s: erro ao salvar plano %w", op, err)
	}

	return nil
}

func (s *Storage) LoadPlan(ctx context.Context, name string) (json.RawMessage, error) {
	const op = "storage.plans.LoadPlan.sql"

	stmt := `SELECT payload FROM planos WHERE nome = ?`

	var payload []byte
	err := s.db.QueryRowContext(ctx, stmt, name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrPlanNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: erro ao carregar plano %w", op, err)
	}

	return payload, nil
}

func (s *Storage) ListPlans(ctx context.Context) ([]*storage.PlanSummary, error) {
	const op = "storage.plans.ListPlans.sql"

	stmt := `
		SELECT nome, criado_em, total_pedidos, total_maquinas, total_horas
		FROM planos
		ORDER BY criado_em DESC
	`

	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("%s: erro ao listar planos %w", op, err)
	}
	defer rows.Close()

	plans := []*storage.PlanSummary{}
	for rows.Next() {
		var p storage.PlanSummary
		if err := rows.Scan(&p.Name, &p.CreatedAt, &p.TotalOrders, &p.TotalMachines, &p.TotalHours); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		plans = append(plans, &p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: erro ao escanear planos %w", op, err)
	}

	return plans, nil
}
