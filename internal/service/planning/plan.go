package planning

import "github.com/johnnybahia/tetrisprogramacao/internal/storage"

// Níveis de urgência de um pedido planejado.
const (
	UrgencyCritical = "CRITICO"
	UrgencyWarning  = "ATENCAO"
	UrgencyOK       = "OK"
)

// OrderItem é um pedido do catálogo acrescido dos campos derivados pelo
// planejamento. O pedido original nunca é alterado; o item é recalculado
// sempre que o plano é (re)gerado ou reordenado.
type OrderItem struct {
	storage.Order

	Position     int     `json:"ordem"`
	TotalMinutes float64 `json:"tempo_total_minutos"`
	TotalHours   float64 `json:"tempo_total_horas"`
	StartDate    string  `json:"data_inicio"`
	EndDate      string  `json:"data_fim"`
	WorkingDays  int     `json:"dias_uteis"`
	Urgency      string  `json:"urgencia"`
}

// computeTimes aplica a fórmula de duração: a produção divide pelas
// bocas, a montagem (e a montagem 2x2, se houver) é etapa sequencial de
// acabamento e não divide.
func (o *OrderItem) computeTimes() {
	bocas := o.Bocas
	if bocas < 1 {
		bocas = 1
	}

	assembly := o.AssemblyTime
	if o.SecondaryAssembly {
		assembly += o.SecondaryAssemblyTime
	}

	qty := float64(o.Quantity)
	o.TotalMinutes = qty*o.ProductionTime/float64(bocas) + qty*assembly
	o.TotalHours = o.TotalMinutes / 60.0
}

// OrderHours devolve a duração total em horas de um pedido isolado,
// pela mesma fórmula usada na montagem do plano.
func OrderHours(o storage.Order) float64 {
	it := OrderItem{Order: o}
	it.computeTimes()
	return it.TotalHours
}

// MachinePlan é a fila de compromisso de uma máquina: a ordem da
// sequência é significativa.
type MachinePlan struct {
	Machine     string       `json:"maquina"`
	HoursPerDay float64      `json:"disponibilidade_horas"`
	Orders      []*OrderItem `json:"orders"`
	TotalOrders int          `json:"total_orders"`
	TotalHours  float64      `json:"total_hours"`
}

type Alert struct {
	Type    string `json:"tipo"`
	OrderID string `json:"pedido_id"`
	Client  string `json:"cliente"`
	Product string `json:"produto"`
	Message string `json:"mensagem"`
	DueDate string `json:"data_entrega"`
	EndDate string `json:"data_fim"`
}

type Summary struct {
	TotalOrders    int     `json:"total_orders"`
	TotalMachines  int     `json:"total_machines"`
	TotalHours     float64 `json:"total_hours"`
	CriticalOrders int     `json:"critical_orders"`
	WarningOrders  int     `json:"warning_orders"`
	OKOrders       int     `json:"ok_orders"`
}

// UnassignedOrder é um pedido excluído do plano, com o motivo.
type UnassignedOrder struct {
	Order  storage.Order `json:"order"`
	Reason string        `json:"reason"`
}

// Plan é um planejamento completo: data de início e a fila sequenciada
// de cada máquina, com estatísticas derivadas.
type Plan struct {
	StartDate    string                  `json:"start_date"`
	MachinePlans map[string]*MachinePlan `json:"machine_plans"`
	AllOrders    []*OrderItem            `json:"all_orders"`
	Summary      Summary                 `json:"summary"`
	Alerts       []Alert                 `json:"alerts"`
	Unassigned   []UnassignedOrder       `json:"unassigned"`
}
