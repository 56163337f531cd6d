package mysql

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/johnnybahia/tetrisprogramacao/internal/storage"
)

func (s *Storage) GetOrders(ctx context.Context) ([]*storage.Order, error) {
	const op = "storage.orders.GetOrders.sql"

	stmt := `
		SELECT id, cliente, ordem_compra, data_entrega, maquina, bocas, produto,
		       quantidade, tempo_producao, tempo_montagem, montagem_2x2, tempo_montagem_2x2
		FROM pedidos
		ORDER BY STR_TO_DATE(data_entrega, '%d/%m/%Y'), criado_em
	`

	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("%s: erro ao buscar pedidos cadastrados %w", op, err)
	}
	defer rows.Close()

	// lista vazia serializa como [] e não null
	orders := []*storage.Order{}
	for rows.Next() {
		var o storage.Order
		err := rows.Scan(&o.ID, &o.Client, &o.PurchaseOrder, &o.DueDate, &o.Machine, &o.Bocas,
			&o.ProductRef, &o.Quantity, &o.ProductionTime, &o.AssemblyTime,
			&o.SecondaryAssembly, &o.SecondaryAssemblyTime)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		orders = append(orders, &o)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: erro ao escanear pedidos %w", op, err)
	}

	return orders, nil
}

// SaveOrder grava um pedido novo e devolve o id gerado.
func (s *Storage) SaveOrder(ctx context.Context, o *storage.Order) (string, error) {
	const op = "storage.orders.SaveOrder.sql"

	if o.ID == "" {
		o.ID = uuid.NewString()
	}

	stmt := `
		INSERT INTO pedidos
			(id, cliente, ordem_compra, data_entrega, maquina, bocas, produto,
			 quantidade, tempo_producao, tempo_montagem, montagem_2x2, tempo_montagem_2x2)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, stmt,
		o.ID, o.Client, o.PurchaseOrder, o.DueDate, o.Machine, o.Bocas, o.ProductRef,
		o.Quantity, o.ProductionTime, o.AssemblyTime, o.SecondaryAssembly, o.SecondaryAssemblyTime)
	if err != nil {
		return "", fmt.Errorf("%s: erro ao gravar pedido %w", op, err)
	}

	return o.ID, nil
}

// UpdateOrderMachine regrava a máquina (e os tempos da nova máquina) de
// um pedido, usado ao aplicar sugestões de otimização.
func (s *Storage) UpdateOrderMachine(ctx context.Context, o *storage.Order) error {
	const op = "storage.orders.UpdateOrderMachine.sql"

	stmt := `
		UPDATE pedidos
		SET maquina = ?, tempo_producao = ?, tempo_montagem = ?, montagem_2x2 = ?, tempo_montagem_2x2 = ?
		WHERE id = ?
	`

	res, err := s.db.ExecContext(ctx, stmt,
		o.Machine, o.ProductionTime, o.AssemblyTime, o.SecondaryAssembly, o.SecondaryAssemblyTime, o.ID)
	if err != nil {
		return fmt.Errorf("%s: erro ao atualizar máquina do pedido %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: pedido %s não encontrado", op, o.ID)
	}

	return nil
}
