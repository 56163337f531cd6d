package planning

import (
	"fmt"
	"sort"
	"time"

	"github.com/johnnybahia/tetrisprogramacao/internal/calendar"
	"github.com/johnnybahia/tetrisprogramacao/internal/storage"
)

// Engine monta o plano de produção: distribui os pedidos pelas filas das
// máquinas, calcula datas de início/fim sobre o calendário de dias úteis
// e classifica a urgência de cada pedido.
type Engine struct {
	cal               *calendar.Calendar
	warningWindowDays int
}

func NewEngine(cal *calendar.Calendar, warningWindowDays int) *Engine {
	if warningWindowDays <= 0 {
		warningWindowDays = 3
	}
	return &Engine{cal: cal, warningWindowDays: warningWindowDays}
}

// Generate cria um plano a partir dos pedidos e máquinas do catálogo.
// Pedido com máquina desconhecida (ou dados inválidos) não derruba a
// geração: ele sai do plano e entra na lista de não alocados.
func (e *Engine) Generate(orders []*storage.Order, machines []*storage.Machine, startDate time.Time) *Plan {
	availability := make(map[string]float64, len(machines))
	for _, m := range machines {
		availability[m.Name] = m.HoursPerDay
	}

	plan := &Plan{
		StartDate:    calendar.FormatDate(startDate),
		MachinePlans: make(map[string]*MachinePlan),
		Alerts:       []Alert{},
		Unassigned:   []UnassignedOrder{},
	}

	groups := make(map[string][]*OrderItem)
	for _, o := range orders {
		if reason := ValidateOrder(o); reason != "" {
			plan.Unassigned = append(plan.Unassigned, UnassignedOrder{Order: *o, Reason: reason})
			continue
		}

		hours, ok := availability[o.Machine]
		if !ok || hours <= 0 {
			cfgErr := &ConfigurationError{Machine: o.Machine}
			plan.Unassigned = append(plan.Unassigned, UnassignedOrder{Order: *o, Reason: cfgErr.Error()})
			continue
		}

		groups[o.Machine] = append(groups[o.Machine], &OrderItem{Order: *o})
	}

	for machine, items := range groups {
		// prioridade padrão: data de entrega crescente, empate mantém a
		// ordem de entrada
		sort.SliceStable(items, func(i, j int) bool {
			a, _ := calendar.ParseDate(items[i].DueDate)
			b, _ := calendar.ParseDate(items[j].DueDate)
			return a.Before(b)
		})

		mp := &MachinePlan{
			Machine:     machine,
			HoursPerDay: availability[machine],
			Orders:      items,
		}
		e.scheduleMachine(mp, startDate)
		plan.MachinePlans[machine] = mp
	}

	e.refreshDerived(plan)
	return plan
}

// ValidateOrder aplica o crivo mínimo de um pedido antes de qualquer
// cálculo (planejamento ou otimização). Devolve o motivo da rejeição,
// ou vazio quando o pedido é válido.
func ValidateOrder(o *storage.Order) string {
	if o.Quantity <= 0 {
		return (&ValidationError{Field: "quantidade", Reason: "deve ser maior que zero"}).Error()
	}
	if o.Bocas < 1 {
		return (&ValidationError{Field: "bocas", Reason: "deve ser no mínimo 1"}).Error()
	}
	if _, err := calendar.ParseDate(o.DueDate); err != nil {
		return (&ValidationError{Field: "data_entrega", Reason: err.Error()}).Error()
	}
	return ""
}

// scheduleMachine recalcula a fila inteira de uma máquina: os pedidos
// são estritamente serializados, as bocas paralelizam só dentro de um
// pedido. A janela de um pedido nunca inclui dia não útil.
func (e *Engine) scheduleMachine(mp *MachinePlan, startDate time.Time) {
	cursor := e.cal.NextWorkingDay(startDate)
	total := 0.0

	for i, it := range mp.Orders {
		it.Position = i
		it.computeTimes()

		days := 0.0
		if mp.HoursPerDay > 0 {
			days = it.TotalHours / mp.HoursPerDay
		}

		start := cursor
		end := e.cal.AddWorkingDays(start, days)

		it.StartDate = calendar.FormatDate(start)
		it.EndDate = calendar.FormatDate(end)
		it.WorkingDays = ceilDays(days)
		it.Urgency = e.classify(end, it.DueDate)

		cursor = end
		total += it.TotalHours
	}

	mp.TotalOrders = len(mp.Orders)
	mp.TotalHours = total
}

func ceilDays(days float64) int {
	n := int(days)
	if days-float64(n) > 1e-9 {
		n++
	}
	return n
}

func (e *Engine) classify(end time.Time, dueStr string) string {
	due, err := calendar.ParseDate(dueStr)
	if err != nil {
		return UrgencyCritical
	}
	if end.After(due) {
		return UrgencyCritical
	}
	if daysBetween(end, due) <= e.warningWindowDays {
		return UrgencyWarning
	}
	return UrgencyOK
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// refreshDerived reconstrói a lista geral, os alertas e o resumo a
// partir das filas por máquina.
func (e *Engine) refreshDerived(plan *Plan) {
	names := make([]string, 0, len(plan.MachinePlans))
	for name := range plan.MachinePlans {
		names = append(names, name)
	}
	sort.Strings(names)

	plan.AllOrders = []*OrderItem{}
	plan.Alerts = []Alert{}
	summary := Summary{TotalMachines: len(plan.MachinePlans)}

	for _, name := range names {
		mp := plan.MachinePlans[name]
		for _, it := range mp.Orders {
			plan.AllOrders = append(plan.AllOrders, it)
			summary.TotalOrders++
			summary.TotalHours += it.TotalHours

			switch it.Urgency {
			case UrgencyCritical:
				summary.CriticalOrders++
				plan.Alerts = append(plan.Alerts, e.criticalAlert(it))
			case UrgencyWarning:
				summary.WarningOrders++
				plan.Alerts = append(plan.Alerts, e.warningAlert(it))
			default:
				summary.OKOrders++
			}
		}
	}

	plan.Summary = summary
}

func (e *Engine) criticalAlert(it *OrderItem) Alert {
	end, _ := calendar.ParseDate(it.EndDate)
	due, _ := calendar.ParseDate(it.DueDate)
	late := daysBetween(due, end)

	return Alert{
		Type:    UrgencyCritical,
		OrderID: it.ID,
		Client:  it.Client,
		Product: it.ProductRef,
		Message: fmt.Sprintf("Pedido terminará %d dia(s) após a data de entrega", late),
		DueDate: it.DueDate,
		EndDate: it.EndDate,
	}
}

func (e *Engine) warningAlert(it *OrderItem) Alert {
	return Alert{
		Type:    UrgencyWarning,
		OrderID: it.ID,
		Client:  it.Client,
		Product: it.ProductRef,
		Message: fmt.Sprintf("Margem de segurança muito pequena (≤ %d dias)", e.warningWindowDays),
		DueDate: it.DueDate,
		EndDate: it.EndDate,
	}
}
