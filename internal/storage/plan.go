package storage

// PlanSummary é o resumo de um plano salvo, usado na listagem.
type PlanSummary struct {
	Name          string  `json:"name"`
	CreatedAt     string  `json:"created_at"`
	TotalOrders   int     `json:"total_orders"`
	TotalMachines int     `json:"total_machines"`
	TotalHours    float64 `json:"total_hours"`
}
