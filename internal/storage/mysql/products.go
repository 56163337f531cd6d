package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/johnnybahia/tetrisprogramacao/internal/storage"
)

const productColumns = `maquina, referencia_maquina, referencia, tempo_producao, tempo_montagem,
	voltas_espula, producao_por_minuto, cor, largura, montagem_2x2, tempo_montagem_2x2`

func (s *Storage) GetProductsByMachine(ctx context.Context, machine string) ([]*storage.Product, error) {
	const op = "storage.products.GetProductsByMachine.sql"

	stmt := `SELECT ` + productColumns + ` FROM produtos WHERE maquina = ? ORDER BY referencia`

	rows, err := s.db.QueryContext(ctx, stmt, machine)
	if err != nil {
		return nil, fmt.Errorf("%s: erro ao buscar produtos da máquina %w", op, err)
	}
	defer rows.Close()

	return scanProducts(rows, op)
}

// GetAllProducts devolve o catálogo inteiro de produtos por máquina,
// usado pelo otimizador para montar o mapa de capacidade.
func (s *Storage) GetAllProducts(ctx context.Context) ([]*storage.Product, error) {
	const op = "storage.products.GetAllProducts.sql"

	stmt := `SELECT ` + productColumns + ` FROM produtos ORDER BY maquina, referencia`

	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("%s: erro ao buscar catálogo de produtos %w", op, err)
	}
	defer rows.Close()

	return scanProducts(rows, op)
}

func (s *Storage) SaveProduct(ctx context.Context, p *storage.Product) error {
	const op = "storage.products.SaveProduct.sql"

	stmt := `
		INSERT INTO produtos (` + productColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, stmt,
		p.Machine, p.MachineRef, p.Reference, p.ProductionTime, p.AssemblyTime,
		p.SpoolTurns, p.OutputPerMinute, p.Color, p.Width, p.SecondaryAssembly, p.SecondaryAssemblyTime)
	if err != nil {
		return fmt.Errorf("%s: erro ao gravar produto %w", op, err)
	}

	return nil
}

func scanProducts(rows *sql.Rows, op string) ([]*storage.Product, error) {
	products := []*storage.Product{}
	for rows.Next() {
		var p storage.Product
		var color sql.NullString

		err := rows.Scan(&p.Machine, &p.MachineRef, &p.Reference, &p.ProductionTime, &p.AssemblyTime,
			&p.SpoolTurns, &p.OutputPerMinute, &color, &p.Width, &p.SecondaryAssembly, &p.SecondaryAssemblyTime)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if color.Valid {
			p.Color = color.String
		}

		products = append(products, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: erro ao escanear produtos %w", op, err)
	}

	return products, nil
}
