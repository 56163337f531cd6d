package generate_excel

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/johnnybahia/tetrisprogramacao/internal/service/planning"
)

type PlanStore interface {
	LoadPlan(ctx context.Context, name string) (json.RawMessage, error)
}

// GenerateExcelService monta a planilha de um plano salvo (o sistema
// nasceu em planilha; o relatório mantém esse formato de saída).
type GenerateExcelService struct {
	storage PlanStore
}

func NewGenerateService(storage PlanStore) *GenerateExcelService {
	return &GenerateExcelService{storage: storage}
}

func (g *GenerateExcelService) GenerateExcel(ctx context.Context, planName string) ([]byte, error) {
	const op = "service.generate-excel.GenerateExcel"

	payload, err := g.storage.LoadPlan(ctx, planName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var plan planning.Plan
	if err := json.Unmarshal(payload, &plan); err != nil {
		return nil, fmt.Errorf("%s: payload do plano inválido %w", op, err)
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Planejamento"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})

	headers := []string{"Máquina", "Ordem", "Cliente", "Ordem de Compra", "Produto", "Quantidade",
		"Bocas", "Horas", "Dias Úteis", "Início", "Fim", "Entrega", "Urgência"}

	for i, name := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, name)
	}

	lastCol, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheet, "A1", lastCol, headerStyle)

	machines := make([]string, 0, len(plan.MachinePlans))
	for name := range plan.MachinePlans {
		machines = append(machines, name)
	}
	sort.Strings(machines)

	rowNum := 2
	for _, machine := range machines {
		mp := plan.MachinePlans[machine]
		for _, it := range mp.Orders {
			f.SetCellValue(sheet, cellName(1, rowNum), machine)
			f.SetCellValue(sheet, cellName(2, rowNum), it.Position+1)
			f.SetCellValue(sheet, cellName(3, rowNum), it.Client)
			f.SetCellValue(sheet, cellName(4, rowNum), it.PurchaseOrder)
			f.SetCellValue(sheet, cellName(5, rowNum), it.ProductRef)
			f.SetCellValue(sheet, cellName(6, rowNum), it.Quantity)
			f.SetCellValue(sheet, cellName(7, rowNum), it.Bocas)
			f.SetCellValue(sheet, cellName(8, rowNum), it.TotalHours)
			f.SetCellValue(sheet, cellName(9, rowNum), it.WorkingDays)
			f.SetCellValue(sheet, cellName(10, rowNum), it.StartDate)
			f.SetCellValue(sheet, cellName(11, rowNum), it.EndDate)
			f.SetCellValue(sheet, cellName(12, rowNum), it.DueDate)
			f.SetCellValue(sheet, cellName(13, rowNum), it.Urgency)
			rowNum++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return buf.Bytes(), nil
}

func cellName(col, row int) string {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	return cell
}
