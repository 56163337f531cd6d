package planning

import (
	"time"

	"github.com/johnnybahia/tetrisprogramacao/internal/calendar"
)

// Move reposiciona um pedido dentro da fila de uma única máquina e
// recalcula a fila inteira dessa máquina a partir da data de início do
// plano (um predecessor deslocado muda todos os sucessores). As demais
// máquinas não são tocadas. Movimento entre máquinas não existe aqui:
// trocar de máquina é edição de catálogo, não reordenação.
func (e *Engine) Move(plan *Plan, orderID string, fromPosition, toPosition int, machine string) error {
	mp, ok := plan.MachinePlans[machine]
	if !ok {
		return &InvalidMoveError{Reason: "máquina não está no plano: " + machine}
	}

	n := len(mp.Orders)
	if fromPosition < 0 || fromPosition >= n {
		return &InvalidMoveError{Reason: "posição de origem fora da fila"}
	}
	if toPosition < 0 || toPosition >= n {
		return &InvalidMoveError{Reason: "posição de destino fora da fila"}
	}
	if mp.Orders[fromPosition].ID != orderID {
		// estado do cliente desatualizado
		return &InvalidMoveError{Reason: "pedido não está mais na posição informada"}
	}

	startDate, err := calendar.ParseDate(plan.StartDate)
	if err != nil {
		return &InvalidMoveError{Reason: "data de início do plano inválida: " + plan.StartDate}
	}

	moved := mp.Orders[fromPosition]
	mp.Orders = append(mp.Orders[:fromPosition], mp.Orders[fromPosition+1:]...)

	rest := append([]*OrderItem{}, mp.Orders[toPosition:]...)
	mp.Orders = append(mp.Orders[:toPosition], moved)
	mp.Orders = append(mp.Orders, rest...)

	e.rescheduleMachine(plan, mp, startDate)
	return nil
}

func (e *Engine) rescheduleMachine(plan *Plan, mp *MachinePlan, startDate time.Time) {
	e.scheduleMachine(mp, startDate)
	e.refreshDerived(plan)
}
